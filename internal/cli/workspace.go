package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/apiclient"
	"github.com/ppiankov/reportdesk/internal/assistant"
	"github.com/ppiankov/reportdesk/internal/models"
	"github.com/ppiankov/reportdesk/internal/reports"
	"github.com/ppiankov/reportdesk/internal/storage"
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// workspace bundles the opened collection with its backend.
type workspace struct {
	mgr     *reports.Manager
	backend storage.Backend
}

// Close warns when the last change stayed in memory, then closes the backend.
func (w *workspace) Close() {
	if !w.mgr.Persisted() {
		warnUnsaved()
	}
	if err := w.backend.Close(); err != nil {
		logError("close storage: %v", err)
	}
}

// openWorkspace opens the configured backend. With volatile set, a backend
// that cannot be opened is replaced by an in-memory one and the session runs
// without persistence.
func openWorkspace(ctx context.Context, volatile bool) (*workspace, error) {
	dir, err := cfg.GetStoragePath()
	if err != nil {
		return nil, fmt.Errorf("storage path: %w", err)
	}

	logDebug("opening %s storage at %s", cfg.Backend, dir)
	b, err := storage.Open(ctx, cfg.Backend, dir)
	if err != nil {
		if !volatile {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		logError("storage unavailable, changes will not be saved: %v", err)
		logger.Warn("falling back to memory storage", "dir", dir, "error", err)
		b = storage.NewMemory()
	}

	store := storage.NewStore(b, logger)
	mgr := reports.New(ctx, store, reports.WithLogger(logger))
	logVerbose("loaded %d report(s) from %s", mgr.Len(), dir)
	return &workspace{mgr: mgr, backend: b}, nil
}

func warnUnsaved() {
	path, err := cfg.GetLogPath()
	if err != nil {
		path = "the log file"
	}
	logWarn("change not saved: see %s", path)
}

// newAssistant builds the conversation service over the collection.
func newAssistant(mgr *reports.Manager) *assistant.Service {
	client := apiclient.New(cfg.APIURL, cfg.APIKey, cfg.Model, cfg.Timeout())
	return assistant.NewService(client, mgr, assistant.WithLogger(logger))
}

func requireAPIKey() error {
	if cfg.APIKey == "" {
		return &ValidationError{Message: "no API key configured: set api_key in reportdesk.yaml, REPORTDESK_API_KEY or OPENAI_API_KEY"}
	}
	return nil
}

// resolveReport accepts a report id or a 1-based position.
func resolveReport(mgr *reports.Manager, ref string) (models.Report, int, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		rs := mgr.Reports()
		if n < 1 || n > len(rs) {
			return models.Report{}, 0, &ValidationError{
				Message: fmt.Sprintf("position %d out of range (1-%d)", n, len(rs)),
			}
		}
		return rs[n-1], n, nil
	}
	r, ok := mgr.Get(ref)
	if !ok {
		return models.Report{}, 0, &ValidationError{Message: fmt.Sprintf("report not found: %s", ref)}
	}
	return r, mgr.IndexOf(ref) + 1, nil
}

// readContent returns literal content, or the contents of path ("-" reads stdin).
func readContent(literal, path string) (string, error) {
	if path == "" {
		return literal, nil
	}
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", &ValidationError{Message: fmt.Sprintf("read content: %v", err)}
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// outputFormat prefers the command flag over the configured default.
func outputFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Format
}
