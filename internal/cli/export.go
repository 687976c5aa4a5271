package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/reporter"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole collection as JSON or YAML",
	Long: `Exports every report in display order. The JSON form is the same array the
store keeps, so it can be fed back through 'reportdesk import'.

Examples:
  reportdesk export > reports.json
  reportdesk export --format yaml -o reports.yaml`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json",
		"export format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "",
		"output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "json" && exportFormat != "yaml" {
		return &ValidationError{Message: fmt.Sprintf("unsupported export format: %s (must be json or yaml)", exportFormat)}
	}

	ws, err := openWorkspace(commandContext(cmd), false)
	if err != nil {
		return err
	}
	defer ws.Close()

	var w io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.OpenFile(exportOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	rep, err := reporter.NewReporter(exportFormat, w)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	rs := ws.mgr.Reports()
	if err := rep.List(rs, nil); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	if exportOutput != "" {
		logVerbose("exported %d report(s) to %s", len(rs), exportOutput)
	}
	return nil
}
