// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvVar names the configuration file when no --config flag is given.
const EnvVar = "KVDIR_CONFIG"

// Config is the explorer's configuration.
type Config struct {
	// Database selects and tunes the store.
	Database DatabaseConfig `yaml:"database"`

	// Retry controls how read transactions are retried on lock
	// conflicts.
	Retry RetryConfig `yaml:"retry"`

	// Display controls rendering of listings and scans.
	Display DisplayConfig `yaml:"display"`

	// Shell configures the interactive shell.
	Shell ShellConfig `yaml:"shell"`

	// Log configures diagnostic logging on stderr.
	Log LogConfig `yaml:"log"`
}

// DatabaseConfig selects and tunes the store.
type DatabaseConfig struct {
	// Path is the SQLite database file. ${VAR} and ${VAR:-default}
	// are expanded.
	// Default: ${XDG_DATA_HOME:-${HOME}/.local/share}/kvdir/kvdir.db
	Path string `yaml:"path"`

	// PoolSize is the number of pooled connections. Zero picks a size
	// from the CPU count.
	PoolSize int `yaml:"pool_size"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetryConfig controls transaction retries.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per transaction.
	// Default: 5
	MaxAttempts int `yaml:"max_attempts"`

	// InitialBackoff is the wait before the first retry.
	// Default: 10ms
	InitialBackoff time.Duration `yaml:"initial_backoff"`

	// MaxBackoff caps the wait between retries.
	// Default: 1s
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// DisplayConfig controls rendering.
type DisplayConfig struct {
	// ScanLimit is the scan row limit when none is given.
	// Default: 50
	ScanLimit int `yaml:"scan_limit"`

	// LsSample is the number of rows ls shows per directory.
	// Default: 50
	LsSample int `yaml:"ls_sample"`

	// Color is auto, always, or never.
	// Default: auto
	Color string `yaml:"color"`

	// Decompress unwraps zstd and lz4 frames in values.
	Decompress bool `yaml:"decompress"`

	// CBOR renders CBOR values in diagnostic notation.
	CBOR bool `yaml:"cbor"`
}

// ShellConfig configures the interactive shell.
type ShellConfig struct {
	// CompletionTimeout bounds one tab-completion lookup.
	// Default: 2s
	CompletionTimeout time.Duration `yaml:"completion_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	// Default: warn
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is loaded, and
// the base that a loaded file is merged onto.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "${XDG_DATA_HOME:-${HOME}/.local/share}/kvdir/kvdir.db",
			BusyTimeout: 5 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts:    5,
			InitialBackoff: 10 * time.Millisecond,
			MaxBackoff:     time.Second,
		},
		Display: DisplayConfig{
			ScanLimit: 50,
			LsSample:  50,
			Color:     "auto",
		},
		Shell: ShellConfig{
			CompletionTimeout: 2 * time.Second,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from the file named by KVDIR_CONFIG. When
// the variable is unset the defaults are returned; the explorer is
// usable with nothing but a --database flag.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc are read as JSON with comments and trailing
// commas; anything else is read as YAML. Fields absent from the file
// keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.expandVariables()

	return cfg, nil
}

// loadFile merges one configuration file into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a subset of YAML, so the stripped document goes
		// through the same decoder and gets the same duration parsing.
		data = jsonc.ToJSON(data)
	}
	return yaml.Unmarshal(data, c)
}

// expandVariables expands ${VAR} and ${VAR:-default} in the database
// path. Nested defaults are expanded innermost first.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	for range 4 {
		expanded := expandVars(c.Database.Path, vars)
		if expanded == c.Database.Path {
			break
		}
		c.Database.Path = expanded
	}
}

// varPattern matches the innermost ${VAR} or ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:$]+)(?::-([^}$]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database.path is required"))
	}
	if c.Database.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("database.pool_size must not be negative"))
	}
	if c.Database.BusyTimeout < 0 {
		errs = append(errs, fmt.Errorf("database.busy_timeout must not be negative"))
	}

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must be at least 1"))
	}
	if c.Retry.InitialBackoff < 0 || c.Retry.MaxBackoff < 0 {
		errs = append(errs, fmt.Errorf("retry backoffs must not be negative"))
	}
	if c.Retry.MaxBackoff < c.Retry.InitialBackoff {
		errs = append(errs, fmt.Errorf("retry.max_backoff (%s) is below retry.initial_backoff (%s)",
			c.Retry.MaxBackoff, c.Retry.InitialBackoff))
	}

	if c.Display.ScanLimit < 0 {
		errs = append(errs, fmt.Errorf("display.scan_limit must not be negative"))
	}
	if c.Display.LsSample < 1 {
		errs = append(errs, fmt.Errorf("display.ls_sample must be at least 1"))
	}
	colorModes := []string{"auto", "always", "never"}
	if !contains(colorModes, c.Display.Color) {
		errs = append(errs, fmt.Errorf("display.color must be one of: %v", colorModes))
	}

	if c.Shell.CompletionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shell.completion_timeout must be positive"))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel parses Log.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

func contains(slice []string, value string) bool {
	for _, s := range slice {
		if s == value {
			return true
		}
	}
	return false
}
