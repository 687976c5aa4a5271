package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/render"
)

var draftShow bool

var draftCmd = &cobra.Command{
	Use:   "draft <prompt>",
	Short: "Have the assistant write a new report",
	Long: `Asks the assistant to write a report about the prompt and appends it to the
collection. The title comes from a "Title:" line in the reply when there is one,
otherwise from the prompt.

Example:
  reportdesk draft "onboarding checklist for new SREs"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().BoolVar(&draftShow, "show", false, "print the drafted content")
}

func runDraft(cmd *cobra.Command, args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return &ValidationError{Message: "prompt is empty"}
	}
	if err := requireAPIKey(); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, false)
	if err != nil {
		return err
	}
	defer ws.Close()

	logVerbose("drafting with %s", cfg.Model)
	r, err := newAssistant(ws.mgr).Draft(ctx, prompt)
	if err != nil {
		return fmt.Errorf("draft: %w", err)
	}

	fmt.Printf("Created report %q (%s) at position %d\n", r.Title, r.ID, ws.mgr.IndexOf(r.ID)+1)
	if draftShow {
		fmt.Printf("\n%s\n", render.PlainText(r.Content))
	}
	return nil
}
