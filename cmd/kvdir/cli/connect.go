// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/kvdir/lib/config"
	"github.com/bureau-foundation/kvdir/lib/display"
	"github.com/bureau-foundation/kvdir/lib/kvstore"
	"github.com/bureau-foundation/kvdir/lib/namespace"
)

// ConnectionParams selects the configuration and the store. Embed it in
// the params struct of any command that reads the namespace.
type ConnectionParams struct {
	Database string `flag:"database" desc:"SQLite store file (overrides database.path)"`
	Config   string `flag:"config" desc:"configuration file (default: $KVDIR_CONFIG)"`
	Verbose  bool   `flag:"verbose" desc:"log debug messages to stderr"`
}

// Connection is an open store with the configuration and logger used
// to open it. Close releases the store.
type Connection struct {
	Config *config.Config
	Store  *kvstore.Store
	Query  *namespace.Query
	Logger *slog.Logger
}

// Close closes the store.
func (c *Connection) Close() error {
	return c.Store.Close()
}

// LoadConfig loads the configuration named by --config, or by
// KVDIR_CONFIG when --config is absent, applies --database, and
// validates the result.
func (p *ConnectionParams) LoadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if p.Config != "" {
		cfg, err = config.LoadFile(p.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if p.Database != "" {
		cfg.Database.Path = p.Database
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Logger returns the command logger at the configured level, or at
// debug level when --verbose is set.
func (p *ConnectionParams) Logger(cfg *config.Config) *slog.Logger {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	if p.Verbose {
		level = slog.LevelDebug
	}
	return NewCommandLogger(level)
}

// Connect loads the configuration and opens the store. A missing
// database file is an error rather than a new empty namespace.
func (p *ConnectionParams) Connect() (*Connection, error) {
	cfg, err := p.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := p.Logger(cfg)
	return connect(cfg, logger)
}

func connect(cfg *config.Config, logger *slog.Logger) (*Connection, error) {
	store, err := kvstore.Open(kvstore.Config{
		Path:        cfg.Database.Path,
		PoolSize:    cfg.Database.PoolSize,
		BusyTimeout: cfg.Database.BusyTimeout,
		Retry: kvstore.RetryPolicy{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
		},
		Logger: logger,
	})
	if err != nil {
		if errors.Is(err, kvstore.ErrDatabaseNotFound) {
			return nil, fmt.Errorf("%w (set --database, database.path, or %s)", err, config.EnvVar)
		}
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &Connection{
		Config: cfg,
		Store:  store,
		Query:  namespace.New(store, logger),
		Logger: logger,
	}, nil
}

// DisplayParams are the rendering flags shared by ls, scan, and shell.
// Unset flags fall back to the display section of the configuration.
type DisplayParams struct {
	Decompress bool   `flag:"decompress" desc:"unwrap zstd and lz4 frames before decoding values"`
	CBOR       bool   `flag:"cbor" desc:"render non-tuple values as CBOR diagnostic notation"`
	Color      string `flag:"color" desc:"colorize output: auto, always, or never (default: display.color)"`
}

// Options merges the flags over cfg.
func (p *DisplayParams) Options(cfg *config.Config) display.Options {
	return display.Options{
		Decompress: p.Decompress || cfg.Display.Decompress,
		CBOR:       p.CBOR || cfg.Display.CBOR,
	}
}

// Styles returns the styles for w under --color, or display.color
// when the flag is absent.
func (p *DisplayParams) Styles(w io.Writer, cfg *config.Config) (display.Styles, error) {
	text := p.Color
	if text == "" {
		text = cfg.Display.Color
	}
	mode, err := display.ParseColorMode(text)
	if err != nil {
		return display.Styles{}, fmt.Errorf("--color: %w", err)
	}
	return display.NewStyles(w, mode), nil
}
