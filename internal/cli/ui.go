package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive dashboard",
	Long: `Opens the full-screen dashboard: the report table with live search, a detail
panel, the report editor and the assistant conversation.

If the store cannot be opened the dashboard still starts, but changes are kept
in memory only.`,
	RunE: runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, true)
	if err != nil {
		return err
	}
	defer ws.Close()

	if cfg.APIKey == "" {
		logVerbose("no API key configured; assistant requests will fail")
	}
	return tui.Run(ctx, ws.mgr, newAssistant(ws.mgr))
}
