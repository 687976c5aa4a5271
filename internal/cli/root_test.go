package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/ppiankov/reportdesk/internal/config"
	"github.com/ppiankov/reportdesk/internal/models"
	"github.com/ppiankov/reportdesk/internal/reports"
)

// --- Test helpers ---

// captureStdout runs fn and returns whatever it printed to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureStderr runs fn and returns whatever it printed to os.Stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// withTestConfig sets the global cfg for the duration of the test.
func withTestConfig(t *testing.T, c *config.Config) {
	t.Helper()
	old := cfg
	cfg = c
	t.Cleanup(func() { cfg = old })
}

// --- HandleError tests ---

func TestHandleErrorNil(t *testing.T) {
	if code := HandleError(nil); code != ExitOK {
		t.Errorf("HandleError(nil) = %d, want %d", code, ExitOK)
	}
}

func TestHandleErrorValidation(t *testing.T) {
	err := &ValidationError{Message: "bad input"}
	if code := HandleError(err); code != ExitInvalidInput {
		t.Errorf("HandleError(ValidationError) = %d, want %d", code, ExitInvalidInput)
	}
}

func TestHandleErrorWrappedValidation(t *testing.T) {
	err := fmt.Errorf("edit: %w", &ValidationError{Message: "bad input"})
	if code := HandleError(err); code != ExitInvalidInput {
		t.Errorf("HandleError(wrapped ValidationError) = %d, want %d", code, ExitInvalidInput)
	}
}

func TestHandleErrorCollectionInputErrors(t *testing.T) {
	for _, sentinel := range []error{
		reports.ErrNotFound,
		reports.ErrDuplicateID,
		reports.ErrIndexOutOfRange,
		models.ErrTitleRequired,
		models.ErrEmptyID,
	} {
		err := fmt.Errorf("update report: %w", sentinel)
		if code := HandleError(err); code != ExitInvalidInput {
			t.Errorf("HandleError(%v) = %d, want %d", sentinel, code, ExitInvalidInput)
		}
	}
}

func TestHandleErrorPermission(t *testing.T) {
	if code := HandleError(os.ErrPermission); code != ExitRuntimeError {
		t.Errorf("HandleError(ErrPermission) = %d, want %d", code, ExitRuntimeError)
	}
}

func TestHandleErrorGeneric(t *testing.T) {
	if code := HandleError(errors.New("something went wrong")); code != ExitRuntimeError {
		t.Errorf("HandleError(generic) = %d, want %d", code, ExitRuntimeError)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Message: "invalid position"}
	if err.Error() != "invalid position" {
		t.Errorf("ValidationError.Error() = %q, want %q", err.Error(), "invalid position")
	}
}

// --- SetVersion tests ---

func TestSetVersion(t *testing.T) {
	old := buildVersion
	t.Cleanup(func() { buildVersion = old })

	SetVersion("1.2.3")
	if buildVersion != "1.2.3" {
		t.Errorf("buildVersion = %q, want %q", buildVersion, "1.2.3")
	}
}

func TestSetVersionEmptyKeepsCurrent(t *testing.T) {
	old := buildVersion
	t.Cleanup(func() { buildVersion = old })

	buildVersion = "dev"
	SetVersion("")
	if buildVersion != "dev" {
		t.Errorf("buildVersion = %q, want %q", buildVersion, "dev")
	}
}

func TestVersionCommand(t *testing.T) {
	old := buildVersion
	t.Cleanup(func() { buildVersion = old })
	buildVersion = "0.4.0"

	out := captureStdout(t, func() {
		versionCmd.Run(versionCmd, nil)
	})
	if strings.TrimSpace(out) != "reportdesk 0.4.0" {
		t.Errorf("version output = %q", out)
	}
}

// --- Logging tests ---

func TestLogVerboseEnabled(t *testing.T) {
	withTestConfig(t, &config.Config{Verbose: true})

	out := captureStderr(t, func() { logVerbose("test %s", "message") })
	if !strings.Contains(out, "[INFO] test message") {
		t.Errorf("logVerbose output = %q, want to contain '[INFO] test message'", out)
	}
}

func TestLogVerboseDisabled(t *testing.T) {
	withTestConfig(t, &config.Config{Verbose: false})

	out := captureStderr(t, func() { logVerbose("should not appear") })
	if out != "" {
		t.Errorf("logVerbose with Verbose=false should produce no output, got %q", out)
	}
}

func TestLogDebugEnabled(t *testing.T) {
	withTestConfig(t, &config.Config{Debug: true})

	out := captureStderr(t, func() { logDebug("debug %d", 42) })
	if !strings.Contains(out, "[DEBUG] debug 42") {
		t.Errorf("logDebug output = %q, want to contain '[DEBUG] debug 42'", out)
	}
}

func TestLogErrorAlwaysPrints(t *testing.T) {
	withTestConfig(t, &config.Config{})

	out := captureStderr(t, func() { logError("fail %s", "now") })
	if !strings.Contains(out, "[ERROR] fail now") {
		t.Errorf("logError output = %q, want to contain '[ERROR] fail now'", out)
	}
}

func TestLogWarnAlwaysPrints(t *testing.T) {
	withTestConfig(t, nil)

	out := captureStderr(t, func() { logWarn("careful %d", 1) })
	if !strings.Contains(out, "[WARN] careful 1") {
		t.Errorf("logWarn output = %q, want to contain '[WARN] careful 1'", out)
	}
}

func TestLogHelpersWithoutConfig(t *testing.T) {
	withTestConfig(t, nil)

	out := captureStderr(t, func() {
		logVerbose("hidden")
		logDebug("hidden")
	})
	if out != "" {
		t.Errorf("expected no output before config is loaded, got %q", out)
	}
}
