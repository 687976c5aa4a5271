package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id|position>",
	Aliases: []string{"rm"},
	Short:   "Delete a report",
	Long: `Removes a report from the collection. Deleting a report that does not exist is
not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(commandContext(cmd), false)
	if err != nil {
		return err
	}
	defer ws.Close()

	r, _, err := resolveReport(ws.mgr, args[0])
	if err != nil {
		fmt.Printf("Nothing to delete: %v\n", err)
		return nil
	}
	if ws.mgr.Delete(r.ID) {
		fmt.Printf("Deleted report %q\n", r.Title)
	}
	return nil
}
