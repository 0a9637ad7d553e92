// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvStoreDriver = "CANDIDATES_STORE_DRIVER"
	EnvStorePath   = "CANDIDATES_STORE_PATH"
)

var (
	validDrivers     = []string{"file", "sqlite", "postgres"}
	validImportModes = []string{"merge", "replace"}
	validLogLevels   = []string{"debug", "info", "warn", "error"}
)

// Config represents the tracker configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Storage
	StoreDriver string `json:"store_driver,omitempty" yaml:"store_driver,omitempty"` // file, sqlite or postgres
	StorePath   string `json:"store_path,omitempty" yaml:"store_path,omitempty"`     // File or SQLite database path
	StoreKey    string `json:"store_key,omitempty" yaml:"store_key,omitempty"`       // Blob key the collection lives under
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL

	// Server
	Port             int `json:"port,omitempty" yaml:"port,omitempty"`
	NoticeTTLSeconds int `json:"notice_ttl_seconds,omitempty" yaml:"notice_ttl_seconds,omitempty"` // Banner auto-dismiss delay

	// Import
	ImportMode          string `json:"import_mode,omitempty" yaml:"import_mode,omitempty"`             // merge or replace
	WatchDebounceMillis int    `json:"watch_debounce_ms,omitempty" yaml:"watch_debounce_ms,omitempty"` // Inbox event coalescing window

	// Behavior
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	Verbose  bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		StoreDriver:         "sqlite",
		StorePath:           "candidates.db",
		StoreKey:            "candidates",
		Port:                8080,
		NoticeTTLSeconds:    5,
		ImportMode:          "merge",
		WatchDebounceMillis: 500,
		LogLevel:            "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides storage settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv(EnvStoreDriver); v != "" {
		c.StoreDriver = v
	}
	if v := getenv(EnvStorePath); v != "" {
		c.StorePath = v
	}
}

// Validate checks that the configuration has valid values.
// Empty fields are allowed; they are filled by MergeWithDefaults.
func (c *Config) Validate() error {
	if c.StoreDriver != "" && !slices.Contains(validDrivers, c.StoreDriver) {
		return fmt.Errorf("config error: 'store_driver' must be one of %s", strings.Join(validDrivers, ", "))
	}
	if c.StoreDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required with the postgres store")
	}

	if c.ImportMode != "" && !slices.Contains(validImportModes, strings.ToLower(c.ImportMode)) {
		return fmt.Errorf("config error: 'import_mode' must be merge or replace")
	}
	if c.LogLevel != "" && !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("config error: 'log_level' must be one of %s", strings.Join(validLogLevels, ", "))
	}

	// Validate numeric ranges
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.NoticeTTLSeconds < 0 {
		return fmt.Errorf("config error: 'notice_ttl_seconds' must be non-negative")
	}
	if c.WatchDebounceMillis < 0 {
		return fmt.Errorf("config error: 'watch_debounce_ms' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.StoreDriver == "" {
		result.StoreDriver = defaults.StoreDriver
	}
	if result.StorePath == "" {
		result.StorePath = defaults.StorePath
	}
	if result.StoreKey == "" {
		result.StoreKey = defaults.StoreKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ImportMode == "" {
		result.ImportMode = defaults.ImportMode
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.NoticeTTLSeconds == 0 {
		result.NoticeTTLSeconds = defaults.NoticeTTLSeconds
	}
	if result.WatchDebounceMillis == 0 {
		result.WatchDebounceMillis = defaults.WatchDebounceMillis
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// NoticeTTL returns the banner auto-dismiss delay.
func (c *Config) NoticeTTL() time.Duration {
	return time.Duration(c.NoticeTTLSeconds) * time.Second
}

// WatchDebounce returns the inbox coalescing window.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.WatchDebounceMillis) * time.Millisecond
}
