package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/reporter"
)

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show <id|position>",
	Short: "Show one report",
	Long: `Prints a report with its content converted to plain text. The report is
named by its id or by its 1-based position in the list.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "",
		"output format: text, json or yaml (default from config)")
}

func runShow(cmd *cobra.Command, args []string) error {
	rep, err := reporter.NewReporter(outputFormat(showFormat), os.Stdout)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}

	ws, err := openWorkspace(commandContext(cmd), false)
	if err != nil {
		return err
	}
	defer ws.Close()

	r, position, err := resolveReport(ws.mgr, args[0])
	if err != nil {
		return err
	}
	return rep.Detail(r, position)
}
