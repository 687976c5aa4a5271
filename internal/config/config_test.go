package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdirTemp isolates a test from config files in the working directory and home.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("OPENAI_API_KEY", "")
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.StorageDir != "~/.reportdesk" {
		t.Errorf("expected storage_dir=~/.reportdesk, got %s", cfg.StorageDir)
	}
	if cfg.Backend != "file" {
		t.Errorf("expected backend=file, got %s", cfg.Backend)
	}
	if cfg.Format != "text" {
		t.Errorf("expected format=text, got %s", cfg.Format)
	}
	if cfg.RequestTimeout != 60 {
		t.Errorf("expected request_timeout=60, got %d", cfg.RequestTimeout)
	}
	if cfg.Model != "gpt-3.5-turbo" {
		t.Errorf("expected default model, got %s", cfg.Model)
	}
	if cfg.Verbose || cfg.Debug {
		t.Error("expected verbose and debug off")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config { return *DefaultConfig() }

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid defaults", mutate: func(*Config) {}},
		{name: "json format", mutate: func(c *Config) { c.Format = "json" }},
		{name: "yaml format", mutate: func(c *Config) { c.Format = "yaml" }},
		{name: "sqlite backend", mutate: func(c *Config) { c.Backend = "sqlite" }},
		{name: "invalid format", mutate: func(c *Config) { c.Format = "xml" }, errMsg: "invalid format"},
		{name: "invalid backend", mutate: func(c *Config) { c.Backend = "redis" }, errMsg: "invalid backend"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, errMsg: "request_timeout must be positive"},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -5 }, errMsg: "request_timeout must be positive"},
		{name: "empty storage_dir", mutate: func(c *Config) { c.StorageDir = "" }, errMsg: "storage_dir cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Fatalf("expected error to contain %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestGetStoragePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name       string
		storageDir string
		want       string
	}{
		{"home expansion", "~/reports", filepath.Join(home, "reports")},
		{"bare tilde", "~", home},
		{"absolute path", "/tmp/reportdesk", "/tmp/reportdesk"},
		{"short relative path", "d", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{StorageDir: tt.storageDir}
			path, err := cfg.GetStoragePath()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !filepath.IsAbs(path) {
				t.Fatalf("expected absolute path, got %s", path)
			}
			if tt.want != "" && path != tt.want {
				t.Errorf("expected %s, got %s", tt.want, path)
			}
		})
	}
}

func TestGetLogPath(t *testing.T) {
	cfg := &Config{StorageDir: "/data/rd"}
	path, err := cfg.GetLogPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/data/rd/reportdesk.log" {
		t.Errorf("expected default log path under storage dir, got %s", path)
	}

	cfg.LogFile = "/var/log/rd.log"
	path, err = cfg.GetLogPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != "/var/log/rd.log" {
		t.Errorf("expected explicit log path, got %s", path)
	}
}

func TestTimeout(t *testing.T) {
	cfg := &Config{RequestTimeout: 15}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("expected 15s, got %v", cfg.Timeout())
	}
}

func TestLoadFromFileWithConfig(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "reportdesk.yaml")

	content := `storage_dir: /custom/path
backend: sqlite
format: json
api_key: sk-file
api_url: http://localhost:8080/v1
model: local-model
request_timeout: 5
verbose: true
debug: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.StorageDir != "/custom/path" {
		t.Errorf("expected storage_dir=/custom/path, got %s", cfg.StorageDir)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("expected backend=sqlite, got %s", cfg.Backend)
	}
	if cfg.Format != "json" {
		t.Errorf("expected format=json, got %s", cfg.Format)
	}
	if cfg.APIKey != "sk-file" || cfg.APIURL != "http://localhost:8080/v1" || cfg.Model != "local-model" {
		t.Errorf("unexpected api settings: %+v", cfg)
	}
	if cfg.RequestTimeout != 5 {
		t.Errorf("expected request_timeout=5, got %d", cfg.RequestTimeout)
	}
	if !cfg.Verbose || !cfg.Debug {
		t.Error("expected verbose and debug on")
	}
}

func TestLoadFromFileInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reportdesk.yaml")
	if err := os.WriteFile(path, []byte("format: xml\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for invalid format")
	}
}

func TestLoadFromFileNoFile(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageDir != "~/.reportdesk" {
		t.Errorf("expected default storage_dir, got %s", cfg.StorageDir)
	}
	if cfg.APIKey != "" {
		t.Errorf("expected no api key, got %q", cfg.APIKey)
	}
}

func TestLoadFromFileWithEnvVars(t *testing.T) {
	chdirTemp(t)
	t.Setenv("REPORTDESK_FORMAT", "yaml")
	t.Setenv("REPORTDESK_VERBOSE", "true")
	t.Setenv("REPORTDESK_BACKEND", "sqlite")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Format != "yaml" {
		t.Errorf("expected format=yaml from env, got %s", cfg.Format)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("expected backend=sqlite from env, got %s", cfg.Backend)
	}
	if !cfg.Verbose {
		t.Error("expected verbose=true from env")
	}
}

func TestLoadOpenAIKeyFallback(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OPENAI_API_KEY", " sk-env ")

	cfg, err := LoadFromFile("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-env" {
		t.Errorf("expected OPENAI_API_KEY fallback, got %q", cfg.APIKey)
	}

	t.Setenv("REPORTDESK_API_KEY", "sk-own")
	cfg, err = LoadFromFile("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-own" {
		t.Errorf("expected REPORTDESK_API_KEY to win, got %q", cfg.APIKey)
	}
}

func TestConfigPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	expected := filepath.Join(dir, "reportdesk", "reportdesk.yaml")
	if path := ConfigPath(); path != expected {
		t.Errorf("expected %q, got %q", expected, path)
	}
}

func TestConfigPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)
	if path := ConfigPath(); path != filepath.Join(home, "reportdesk.yaml") {
		t.Errorf("unexpected path %q", path)
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reportdesk.yaml")

	if err := WriteSample(path, false); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %o", info.Mode().Perm())
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if cfg.Backend != "file" || cfg.Format != "text" {
		t.Errorf("unexpected values from sample: %+v", cfg)
	}

	if err := WriteSample(path, false); err == nil {
		t.Error("expected error when file exists")
	}
	if err := WriteSample(path, true); err != nil {
		t.Errorf("force overwrite failed: %v", err)
	}
}

func TestGenerateSampleConfig(t *testing.T) {
	sample := GenerateSampleConfig()
	for _, frag := range []string{
		"storage_dir",
		"backend",
		"format",
		"api_key",
		"api_url",
		"model",
		"request_timeout",
		"log_file",
		"verbose",
		"debug",
	} {
		if !strings.Contains(sample, frag) {
			t.Errorf("expected sample config to contain %q", frag)
		}
	}
}
