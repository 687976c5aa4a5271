package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/reports"
)

var moveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move a report to another position",
	Long: `Moves the report at position <from> to position <to>. Positions are 1-based;
the reports in between shift by one.

Example:
  reportdesk move 4 1`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
	from, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	to, err := parsePosition(args[1])
	if err != nil {
		return err
	}

	ws, err := openWorkspace(commandContext(cmd), false)
	if err != nil {
		return err
	}
	defer ws.Close()

	rs := ws.mgr.Reports()
	if err := ws.mgr.Reorder(from-1, to-1); err != nil {
		if errors.Is(err, reports.ErrIndexOutOfRange) {
			return &ValidationError{Message: fmt.Sprintf("positions must be between 1 and %d", len(rs))}
		}
		return err
	}

	fmt.Printf("Moved %q from %d to %d\n", rs[from-1].Title, from, to)
	return nil
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, &ValidationError{Message: fmt.Sprintf("invalid position %q: must be a number from 1", s)}
	}
	return n, nil
}
