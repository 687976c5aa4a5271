package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ppiankov/reportdesk/internal/config"
	"github.com/ppiankov/reportdesk/internal/logging"
	"github.com/ppiankov/reportdesk/internal/models"
	"github.com/ppiankov/reportdesk/internal/reports"
)

const (
	ExitOK           = 0 // Success
	ExitInvalidInput = 2 // Bad arguments, unknown report, unreadable import
	ExitRuntimeError = 3 // Storage, network or assistant failure
)

var (
	// Global config instance
	cfg *config.Config

	// Logger shared by the store and the assistant; replaced in PersistentPreRunE
	logger    = slog.Default()
	logCloser io.Closer

	// Global flags
	configFile string
	storageDir string
	backend    string
	verbose    bool
	debug      bool

	buildVersion = "dev"
)

// SetVersion records the binary version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		buildVersion = v
	}
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reportdesk",
	Short: "reportdesk - a terminal workspace for writing reports with an AI assistant",
	Long: `reportdesk keeps an ordered collection of reports on disk and pairs it with
a chat assistant that can draft new reports and summarize existing ones.

Run without a subcommand on a terminal to open the dashboard.

Quick start:
  reportdesk init
  reportdesk doctor
  reportdesk

Other commands:
  reportdesk list --search budget
  reportdesk add --title "Weekly sync" --content-file notes.html
  reportdesk move 3 1
  reportdesk draft "quarterly hiring plan for the platform team"
  reportdesk summarize
  reportdesk export --format yaml -o reports.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if storageDir != "" {
			cfg.StorageDir = storageDir
		}
		if backend != "" {
			cfg.Backend = backend
		}
		if verbose {
			cfg.Verbose = true
		}
		if debug {
			cfg.Debug = true
		}
		if err := cfg.Validate(); err != nil {
			return &ValidationError{Message: err.Error()}
		}

		setupLogging()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return runUI(cmd, args)
		}
		return runList(cmd, args)
	},
}

// setupLogging sends structured logs to the log file so they never mix with
// the dashboard or command output.
func setupLogging() {
	path, err := cfg.GetLogPath()
	if err != nil {
		logError("log path: %v", err)
		return
	}
	l, closer, err := logging.New(logging.Options{
		File:    path,
		Verbose: cfg.Verbose,
		Debug:   cfg.Debug,
	})
	if err != nil {
		logError("cannot open log file, logging to stderr: %v", err)
		l, closer, _ = logging.New(logging.Options{Verbose: cfg.Verbose, Debug: cfg.Debug})
	}
	logger = l
	logCloser = closer
	slog.SetDefault(l)
	logDebug("logging to %s", path)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		os.Exit(HandleError(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./reportdesk.yaml, ~/reportdesk.yaml or $XDG_CONFIG_HOME/reportdesk/reportdesk.yaml)")
	rootCmd.PersistentFlags().StringVar(&storageDir, "storage-dir", "",
		"directory holding the report store (overrides storage_dir)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "",
		"storage backend: file or sqlite (overrides backend)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"debug mode (very verbose)")

	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reportdesk %s\n", buildVersion)
	},
}

// HandleError determines the appropriate exit code for an error
func HandleError(err error) int {
	if err == nil {
		return ExitOK
	}

	var ve *ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, reports.ErrNotFound),
		errors.Is(err, reports.ErrDuplicateID),
		errors.Is(err, reports.ErrIndexOutOfRange),
		errors.Is(err, models.ErrTitleRequired),
		errors.Is(err, models.ErrEmptyID):
		return ExitInvalidInput
	default:
		return ExitRuntimeError
	}
}

// ValidationError represents bad user input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// logVerbose prints a message if verbose mode is enabled
func logVerbose(format string, args ...interface{}) {
	if cfg != nil && cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
	}
}

// logDebug prints a message if debug mode is enabled
func logDebug(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// logWarn prints a warning
func logWarn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[WARN] "+format+"\n", args...)
}

// logError prints an error message
func logError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
}
