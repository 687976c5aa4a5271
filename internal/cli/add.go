package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/models"
)

var (
	addTitle       string
	addContent     string
	addContentFile string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a report at the end of the list",
	Long: `Creates a report. Content is an HTML fragment; pass it inline with --content
or read it from a file with --content-file ("-" reads stdin).

Examples:
  reportdesk add --title "Weekly sync"
  reportdesk add --title "Incident 42" --content-file incident.html
  pbpaste | reportdesk add --title "Notes" --content-file -`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "report title (required)")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "report content (HTML fragment)")
	addCmd.Flags().StringVar(&addContentFile, "content-file", "", "read content from a file, or - for stdin")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(addTitle)
	if title == "" {
		return &ValidationError{Message: "--title is required"}
	}
	content, err := readContent(addContent, addContentFile)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(commandContext(cmd), false)
	if err != nil {
		return err
	}
	defer ws.Close()

	r := models.NewReport(title, content, time.Now())
	if err := ws.mgr.Add(r); err != nil {
		return fmt.Errorf("add report: %w", err)
	}
	logVerbose("created report %s", r.ID)

	fmt.Printf("Created report %q (%s) at position %d\n", r.Title, r.ID, ws.mgr.Len())
	return nil
}
