package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/assistant"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize every report with the assistant",
	Long: `Sends all reports, in display order, to the assistant and prints the summary.
Nothing is saved.`,
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if err := requireAPIKey(); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, false)
	if err != nil {
		return err
	}
	defer ws.Close()

	logVerbose("summarizing %d report(s)", ws.mgr.Len())
	text, err := newAssistant(ws.mgr).Summarize(ctx)
	if errors.Is(err, assistant.ErrNoReports) {
		fmt.Println("No reports to summarize.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	printAnswer(text)
	return nil
}
