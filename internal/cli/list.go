package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/reporter"
)

var (
	listSearch string
	listFormat string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List reports in display order",
	Long: `Lists the collection in display order. Positions are 1-based and stay the
collection positions when --search narrows the list.

Examples:
  reportdesk list
  reportdesk list --search budget
  reportdesk list --format json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "",
		"only show reports whose title contains this text (case-insensitive)")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "",
		"output format: text, json or yaml (default from config)")
}

func runList(cmd *cobra.Command, args []string) error {
	rep, err := reporter.NewReporter(outputFormat(listFormat), os.Stdout)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}

	ws, err := openWorkspace(commandContext(cmd), false)
	if err != nil {
		return err
	}
	defer ws.Close()

	all := ws.mgr.Reports()
	shown := ws.mgr.Search(listSearch)
	pos := make(map[string]int, len(all))
	for i, r := range all {
		pos[r.ID] = i + 1
	}
	positions := make([]int, len(shown))
	for i, r := range shown {
		positions[i] = pos[r.ID]
	}
	logVerbose("%d of %d report(s) match", len(shown), len(all))

	return rep.List(shown, positions)
}
