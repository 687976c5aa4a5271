package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/models"
	"github.com/ppiankov/reportdesk/internal/validator"
)

var importStrict bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Append reports from a JSON or YAML export",
	Long: `Appends the reports in an export file to the collection. Reports whose id
is already present, or that have no id or title, are skipped. Use "-" to read
JSON from stdin.

With --strict, any problem in the file aborts the import.

Example:
  reportdesk import backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importStrict, "strict", false,
		"refuse the whole file if any entry is invalid")
}

func runImport(cmd *cobra.Command, args []string) error {
	rs, err := readExport(args[0])
	if err != nil {
		return err
	}

	ws, err := openWorkspace(commandContext(cmd), false)
	if err != nil {
		return err
	}
	defer ws.Close()

	added, skipped := ws.mgr.Import(rs)
	logVerbose("import of %s: %d added, %d skipped", args[0], added, skipped)
	fmt.Printf("Imported %d report(s), skipped %d\n", added, skipped)
	return nil
}

// readExport decodes and checks an export file. Entry problems are fatal only
// with --strict; otherwise they are reported and the import skips those entries.
func readExport(path string) ([]models.Report, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("read %s: %v", path, err)}
	}

	rs, err := validator.New().ValidateExport(path, validator.FormatForPath(path), data)
	var ve *validator.ValidationError
	switch {
	case err == nil:
		return rs, nil
	case errors.As(err, &ve) && rs != nil && !importStrict:
		for _, problem := range ve.Errors {
			logVerbose("%s: %s", path, problem)
		}
		return rs, nil
	default:
		return nil, &ValidationError{Message: err.Error()}
	}
}
