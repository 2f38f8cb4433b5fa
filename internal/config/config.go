// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Export strategies accepted in export_strategy
var exportStrategies = map[string]bool{
	"auto":        true,
	"raster":      true,
	"declarative": true,
}

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Layout
	Template     string  `json:"template,omitempty"`      // Template name (classic, modern, compact)
	PageCapacity float64 `json:"page_capacity,omitempty"` // Per-column height budget, overrides the template
	HeightsFile  string  `json:"heights_file,omitempty"`  // YAML height table overriding built-in estimates

	// Export
	ChromePath     string `json:"chrome_path,omitempty"`      // Browser binary for rasterizing
	ExportStrategy string `json:"export_strategy,omitempty"`  // auto, raster or declarative
	PollIntervalMS int    `json:"poll_interval_ms,omitempty"` // Interval between page fragment checks
	PollTimeoutMS  int    `json:"poll_timeout_ms,omitempty"`  // Give up waiting for page fragments after this

	// Server
	Port                     int    `json:"port,omitempty"`
	DatabaseURL              string `json:"database_url,omitempty"` // PostgreSQL connection URL; in-memory storage when empty
	ExportRateLimitPerMinute int    `json:"export_rate_limit_per_minute,omitempty"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Template:                 "classic",
		ExportStrategy:           "auto",
		PollIntervalMS:           100,
		PollTimeoutMS:            2000,
		Port:                     8080,
		ExportRateLimitPerMinute: 10,
	}
}

// LoadConfig loads configuration from a JSON file.
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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills empty fields from DATABASE_URL, CHROME_PATH, PORT and
// RATE_LIMIT_EXPORT_PER_MINUTE. Values already set win over the environment.
func (c *Config) FromEnv() error {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.ChromePath == "" {
		c.ChromePath = os.Getenv("CHROME_PATH")
	}
	if c.Port == 0 {
		if v := os.Getenv("PORT"); v != "" {
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config error: invalid PORT %q", v)
			}
			c.Port = port
		}
	}
	if c.ExportRateLimitPerMinute == 0 {
		if v := os.Getenv("RATE_LIMIT_EXPORT_PER_MINUTE"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config error: invalid RATE_LIMIT_EXPORT_PER_MINUTE %q", v)
			}
			c.ExportRateLimitPerMinute = n
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	// Validate numeric ranges
	if c.PageCapacity < 0 {
		return fmt.Errorf("config error: 'page_capacity' must be non-negative")
	}
	if c.PollIntervalMS < 0 || c.PollTimeoutMS < 0 {
		return fmt.Errorf("config error: poll durations must be non-negative")
	}
	if c.PollTimeoutMS > 0 && c.PollIntervalMS > c.PollTimeoutMS {
		return fmt.Errorf("config error: 'poll_interval_ms' must not exceed 'poll_timeout_ms'")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.ExportRateLimitPerMinute < 0 {
		return fmt.Errorf("config error: 'export_rate_limit_per_minute' must be non-negative")
	}

	if c.ExportStrategy != "" && !exportStrategies[c.ExportStrategy] {
		return fmt.Errorf("config error: unknown export_strategy %q (want auto, raster or declarative)", c.ExportStrategy)
	}

	// Validate file paths exist (if specified)
	if c.HeightsFile != "" {
		if _, err := os.Stat(c.HeightsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: heights file not found: %s", c.HeightsFile)
		}
	}
	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.HeightsFile == "" {
		result.HeightsFile = defaults.HeightsFile
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.ExportStrategy == "" {
		result.ExportStrategy = defaults.ExportStrategy
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Numeric fields: use default if zero
	if result.PageCapacity == 0 {
		result.PageCapacity = defaults.PageCapacity
	}
	if result.PollIntervalMS == 0 {
		result.PollIntervalMS = defaults.PollIntervalMS
	}
	if result.PollTimeoutMS == 0 {
		result.PollTimeoutMS = defaults.PollTimeoutMS
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ExportRateLimitPerMinute == 0 {
		result.ExportRateLimitPerMinute = defaults.ExportRateLimitPerMinute
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// PollInterval returns the fragment poll interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// PollTimeout returns the fragment poll timeout as a duration
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutMS) * time.Millisecond
}
