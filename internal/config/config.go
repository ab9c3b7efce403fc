// Package config provides configuration types for the Smart Turbo CLI.
//
// Configuration is intentionally small: the CLI talks to one backend and
// keeps its session state in a single local file. Everything else lives
// server-side.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the top-level configuration for the Smart Turbo CLI.
type Config struct {
	// API configures the backend connection.
	API APIConfig `yaml:"api" mapstructure:"api"`

	// State configures local state persistence (session token, preferences).
	State StateConfig `yaml:"state" mapstructure:"state"`

	// Output configures how command results are rendered.
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// Preferences holds display preferences applied to new state files.
	Preferences PreferencesConfig `yaml:"preferences" mapstructure:"preferences"`

	// DevMode enables development features (verbose logging, trace export).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	// BaseURL is the backend base URL (e.g. "http://localhost:8080").
	// Default: "http://localhost:8080".
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,http_url"`
	// Timeout is the per-request timeout (e.g. "30s").
	// Default: "30s".
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty,duration"`
}

// StateConfig configures local state persistence.
type StateConfig struct {
	// Path is the state file location.
	// Default: "~/.smart-turbo/state.json".
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig configures result rendering.
type OutputConfig struct {
	// Format selects the output format: "table" or "json".
	// Default: "table".
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=table json"`
}

// PreferencesConfig holds display preferences seeded into new state files.
type PreferencesConfig struct {
	// DarkMode selects the dark color scheme where output supports it.
	DarkMode bool `yaml:"dark_mode" mapstructure:"dark_mode"`
	// Locale is the preferred display locale (e.g. "ko", "en").
	// Default: "ko".
	Locale string `yaml:"locale" mapstructure:"locale" validate:"omitempty,locale_tag"`
}

// SetDefaults applies default values for optional fields.
func (c *Config) SetDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL()
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "30s"
	}
	if c.State.Path == "" {
		c.State.Path = DefaultStatePath()
	}
	if c.Output.Format == "" {
		c.Output.Format = "table"
	}
	if c.Preferences.Locale == "" {
		c.Preferences.Locale = "ko"
	}
}

// RequestTimeout parses the API timeout, falling back to 30s on garbage.
// Validate rejects unparseable values; this keeps callers total anyway.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// DefaultBaseURL returns the backend URL: the SMART_TURBO_API_URL
// environment variable when set, otherwise the local dev server.
func DefaultBaseURL() string {
	if url := os.Getenv("SMART_TURBO_API_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// DefaultStatePath returns the default state file location under the
// user's home directory.
func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".smart-turbo", "state.json")
	}
	return filepath.Join(home, ".smart-turbo", "state.json")
}
