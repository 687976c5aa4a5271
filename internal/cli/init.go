package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/config"
)

var (
	initPath  string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample config file",
	Long: `Writes a commented sample reportdesk.yaml. By default it goes to
$XDG_CONFIG_HOME/reportdesk/reportdesk.yaml, or ~/reportdesk.yaml when
XDG_CONFIG_HOME is not set.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initPath, "path", "", "where to write the config (default: see above)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := initPath
	if path == "" {
		path = config.ConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !initForce {
		return &ValidationError{Message: fmt.Sprintf("%s already exists (use --force to overwrite)", path)}
	}
	if err := config.WriteSample(path, initForce); err != nil {
		return err
	}
	fmt.Printf("Wrote sample config to %s\n", path)
	fmt.Println("Set api_key there (or export OPENAI_API_KEY), then run: reportdesk doctor")
	return nil
}
