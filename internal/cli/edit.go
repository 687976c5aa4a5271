package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/models"
)

var (
	editTitle       string
	editContent     string
	editContentFile string
)

var editCmd = &cobra.Command{
	Use:   "edit <id|position>",
	Short: "Change the title or content of a report",
	Long: `Updates a report in place. Only the fields you pass change; the update time is
refreshed.

Examples:
  reportdesk edit 2 --title "Weekly sync (final)"
  reportdesk edit 5f0c... --content-file notes.html`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "new content (HTML fragment)")
	editCmd.Flags().StringVar(&editContentFile, "content-file", "", "read new content from a file, or - for stdin")
}

func runEdit(cmd *cobra.Command, args []string) error {
	var patch models.ReportPatch

	titleSet := editTitle != "" || (cmd != nil && cmd.Flags().Changed("title"))
	if titleSet {
		title := strings.TrimSpace(editTitle)
		if title == "" {
			return &ValidationError{Message: "title cannot be empty"}
		}
		patch.Title = models.StringPtr(title)
	}

	contentSet := editContent != "" || editContentFile != "" || (cmd != nil && cmd.Flags().Changed("content"))
	if contentSet {
		content, err := readContent(editContent, editContentFile)
		if err != nil {
			return err
		}
		patch.Content = models.StringPtr(content)
	}

	if patch.IsEmpty() {
		return &ValidationError{Message: "nothing to change: pass --title, --content or --content-file"}
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
	if err := ws.mgr.Update(r.ID, patch); err != nil {
		return fmt.Errorf("update report: %w", err)
	}

	updated, _ := ws.mgr.Get(r.ID)
	fmt.Printf("Updated report %q at position %d\n", updated.Title, position)
	return nil
}
