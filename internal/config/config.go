package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for reportdesk
type Config struct {
	// Directory holding the durable store and the log file
	StorageDir string `mapstructure:"storage_dir"`

	// Durable medium (file, sqlite)
	Backend string `mapstructure:"backend"`

	// Credential for the chat-completions API (from config, REPORTDESK_API_KEY or OPENAI_API_KEY)
	APIKey string `mapstructure:"api_key"`

	// Base URL of the chat-completions API
	APIURL string `mapstructure:"api_url"`

	// Model name sent with every request
	Model string `mapstructure:"model"`

	// Request timeout in seconds
	RequestTimeout int `mapstructure:"request_timeout"`

	// Output format (text, json, yaml)
	Format string `mapstructure:"format"`

	// Log file; defaults to <storage_dir>/reportdesk.log
	LogFile string `mapstructure:"log_file"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`

	// Debug mode
	Debug bool `mapstructure:"debug"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		StorageDir:     "~/.reportdesk",
		Backend:        "file",
		APIURL:         "https://api.openai.com/v1",
		Model:          "gpt-3.5-turbo",
		RequestTimeout: 60,
		Format:         "text",
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (./reportdesk.yaml, ~/reportdesk.yaml, $XDG_CONFIG_HOME/reportdesk/reportdesk.yaml)
// 3. Environment variables (REPORTDESK_*, OPENAI_API_KEY for the key)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path
// If path is empty, it searches for config in standard locations
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("storage_dir", defaults.StorageDir)
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("api_key", "")
	v.SetDefault("api_url", defaults.APIURL)
	v.SetDefault("model", defaults.Model)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("log_file", "")
	v.SetDefault("verbose", false)
	v.SetDefault("debug", false)

	v.SetConfigName("reportdesk")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "reportdesk"))
		}
	}

	v.SetEnvPrefix("REPORTDESK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults and env still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (must be text, json, or yaml)", c.Format)
	}

	validBackends := map[string]bool{
		"file":   true,
		"sqlite": true,
	}
	if !validBackends[c.Backend] {
		return fmt.Errorf("invalid backend: %s (must be file or sqlite)", c.Backend)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if c.StorageDir == "" {
		return fmt.Errorf("storage_dir cannot be empty")
	}

	return nil
}

// GetStoragePath returns the absolute path to the storage directory
func (c *Config) GetStoragePath() (string, error) {
	return expandPath(c.StorageDir)
}

// GetLogPath returns the absolute path of the log file
func (c *Config) GetLogPath() (string, error) {
	if c.LogFile != "" {
		return expandPath(c.LogFile)
	}
	dir, err := c.GetStoragePath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "reportdesk.log"), nil
}

// Timeout returns the request timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/")), nil
	}

	absPath, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath, nil
}

// ConfigPath returns where `init` writes the config file by default
func ConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "reportdesk", "reportdesk.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "reportdesk.yaml")
	}
	return "reportdesk.yaml"
}

// WriteSample writes the sample config to path. An existing file is left
// alone unless force is set.
func WriteSample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// 0600: the file may end up holding an API key.
	if err := os.WriteFile(path, []byte(GenerateSampleConfig()), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateSampleConfig generates a sample configuration file content
func GenerateSampleConfig() string {
	return `# reportdesk configuration
# Save this file as ./reportdesk.yaml, ~/reportdesk.yaml
# or $XDG_CONFIG_HOME/reportdesk/reportdesk.yaml

# Directory holding the report store and the log file
storage_dir: ~/.reportdesk

# Storage backend: file (one JSON file per key) or sqlite
backend: file

# Output format for list/show/doctor: text, json, or yaml
format: text

# Chat-completions API used by draft, ask and summarize
# The key can also be set via REPORTDESK_API_KEY or OPENAI_API_KEY
# api_key: sk-your-key-here
api_url: https://api.openai.com/v1
model: gpt-3.5-turbo

# Request timeout in seconds
request_timeout: 60

# Log file (defaults to <storage_dir>/reportdesk.log)
# log_file: /var/tmp/reportdesk.log

# Enable verbose output
verbose: false

# Enable debug mode
debug: false
`
}
