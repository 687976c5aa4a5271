package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ppiankov/reportdesk/internal/apiclient"
	"github.com/ppiankov/reportdesk/internal/config"
	"github.com/ppiankov/reportdesk/internal/models"
	"github.com/ppiankov/reportdesk/internal/reports"
	"github.com/ppiankov/reportdesk/internal/storage"
)

var (
	doctorFormat  string
	doctorOffline bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment readiness and diagnose common problems",
	Long: `Doctor validates your reportdesk setup:

  1. Config file: found and readable?
  2. Storage: directory writable and backend openable?
  3. Collection: stored reports decodable?
  4. API key: configured?
  5. API: reachable and accepting the key? (skipped with --offline)

Fix the issues it reports, then run 'reportdesk' to open the dashboard.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "text",
		"output format: text or json")
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false,
		"skip the API reachability check")
}

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

type doctorResult struct {
	Checks  []doctorCheck `json:"checks"`
	Summary string        `json:"summary"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	checks := []doctorCheck{
		checkConfig(),
		checkStorage(),
		checkCollection(ctx),
		checkAPIKey(),
	}
	if !doctorOffline {
		checks = append(checks, checkAPI(ctx))
	}

	result := doctorResult{Checks: checks, Summary: summarizeChecks(checks)}

	if doctorFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return writeDoctorText(result)
}

func summarizeChecks(checks []doctorCheck) string {
	fails, warns := 0, 0
	for _, c := range checks {
		switch c.Status {
		case "fail":
			fails++
		case "warn":
			warns++
		}
	}
	switch {
	case fails > 0:
		return fmt.Sprintf("%d issue(s) found", fails)
	case warns > 0:
		return fmt.Sprintf("ok with %d warning(s)", warns)
	default:
		return "all checks passed"
	}
}

func writeDoctorText(result doctorResult) error {
	icons := map[string]string{
		"ok":   color.GreenString("✓"),
		"warn": color.YellowString("△"),
		"fail": color.RedString("✗"),
	}

	for _, c := range result.Checks {
		icon := icons[c.Status]
		if c.Detail != "" {
			fmt.Printf("  %s %-12s %s\n", icon, c.Name, c.Detail)
		} else {
			fmt.Printf("  %s %s\n", icon, c.Name)
		}
	}

	fmt.Printf("\n%s\n", result.Summary)
	return nil
}

func checkConfig() doctorCheck {
	path := config.ConfigPath()
	if configFile != "" {
		path = configFile
	}

	if _, err := os.Stat(path); err != nil {
		return doctorCheck{
			Name:   "config",
			Status: "warn",
			Detail: "no config file found (using defaults). Run: reportdesk init",
		}
	}
	return doctorCheck{Name: "config", Status: "ok", Detail: path}
}

func checkStorage() doctorCheck {
	dir, err := cfg.GetStoragePath()
	if err != nil {
		return doctorCheck{Name: "storage", Status: "fail", Detail: err.Error()}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return doctorCheck{
			Name:   "storage",
			Status: "ok",
			Detail: fmt.Sprintf("%s (will be created on first write)", dir),
		}
	}
	if !info.IsDir() {
		return doctorCheck{
			Name:   "storage",
			Status: "fail",
			Detail: fmt.Sprintf("%s exists but is not a directory", dir),
		}
	}

	marker := filepath.Join(dir, ".doctor-check")
	if err := os.WriteFile(marker, []byte("ok"), 0600); err != nil {
		return doctorCheck{
			Name:   "storage",
			Status: "fail",
			Detail: fmt.Sprintf("%s not writable: %v", dir, err),
		}
	}
	_ = os.Remove(marker)

	return doctorCheck{Name: "storage", Status: "ok", Detail: fmt.Sprintf("%s (%s)", dir, cfg.Backend)}
}

// checkCollection opens the backend and decodes the stored collection directly,
// since the manager silently starts empty on bad data.
func checkCollection(ctx context.Context) doctorCheck {
	dir, err := cfg.GetStoragePath()
	if err != nil {
		return doctorCheck{Name: "collection", Status: "fail", Detail: err.Error()}
	}
	if _, err := os.Stat(dir); err != nil {
		return doctorCheck{Name: "collection", Status: "ok", Detail: "empty (nothing stored yet)"}
	}

	b, err := storage.Open(ctx, cfg.Backend, dir)
	if err != nil {
		return doctorCheck{Name: "collection", Status: "fail", Detail: fmt.Sprintf("cannot open %s backend: %v", cfg.Backend, err)}
	}
	defer func() { _ = b.Close() }()

	data, ok, err := b.Get(ctx, reports.StorageKey)
	if err != nil {
		return doctorCheck{Name: "collection", Status: "fail", Detail: fmt.Sprintf("read failed: %v", err)}
	}
	if !ok {
		return doctorCheck{Name: "collection", Status: "ok", Detail: "empty (nothing stored yet)"}
	}

	var rs []models.Report
	if err := json.Unmarshal(data, &rs); err != nil {
		return doctorCheck{
			Name:   "collection",
			Status: "warn",
			Detail: "stored data is malformed; it loads as empty and is replaced on the next change",
		}
	}

	invalid := 0
	for _, r := range rs {
		if r.Validate() != nil {
			invalid++
		}
	}
	if invalid > 0 {
		return doctorCheck{
			Name:   "collection",
			Status: "warn",
			Detail: fmt.Sprintf("%d report(s), %d without id or title", len(rs), invalid),
		}
	}
	return doctorCheck{Name: "collection", Status: "ok", Detail: fmt.Sprintf("%d report(s)", len(rs))}
}

func checkAPIKey() doctorCheck {
	if cfg.APIKey == "" {
		return doctorCheck{
			Name:   "api key",
			Status: "warn",
			Detail: "not configured; the assistant is unavailable. Set api_key, REPORTDESK_API_KEY or OPENAI_API_KEY",
		}
	}
	return doctorCheck{Name: "api key", Status: "ok", Detail: "configured (model " + cfg.Model + ")"}
}

// checkAPI lists models, which needs a valid key but costs no tokens.
func checkAPI(ctx context.Context) doctorCheck {
	if cfg.APIKey == "" {
		return doctorCheck{Name: "api", Status: "warn", Detail: "skipped (no API key)"}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := apiclient.New(cfg.APIURL, cfg.APIKey, cfg.Model, 5*time.Second)
	_, err := client.ListModels(ctx)
	var apiErr *apiclient.APIError
	switch {
	case err == nil:
		return doctorCheck{Name: "api", Status: "ok", Detail: cfg.APIURL}
	case errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden):
		return doctorCheck{Name: "api", Status: "fail", Detail: fmt.Sprintf("API key rejected (HTTP %d)", apiErr.StatusCode)}
	case errors.As(err, &apiErr):
		return doctorCheck{Name: "api", Status: "warn", Detail: fmt.Sprintf("unexpected response (HTTP %d)", apiErr.StatusCode)}
	default:
		return doctorCheck{Name: "api", Status: "fail", Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
}
