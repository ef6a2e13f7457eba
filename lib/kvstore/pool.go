// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   BLOB NOT NULL PRIMARY KEY,
	value BLOB NOT NULL
) WITHOUT ROWID;
`

// pool is a fixed-size set of SQLite connections carrying the store's
// pragmas and schema.
type pool struct {
	inner  *sqlitex.Pool
	logger *slog.Logger
	path   string
}

func openPool(path string, size int, busyTimeout time.Duration, logger *slog.Logger) (*pool, error) {
	if size <= 0 {
		size = runtime.NumCPU()
		if size < 4 {
			size = 4
		}
	}

	inner, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize: size,
		PrepareConn: func(conn *sqlite.Conn) error {
			return prepareConnection(conn, busyTimeout)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore: opening %s: %w", path, err)
	}

	logger.Info("kvstore pool opened",
		"path", path,
		"pool_size", size,
	)
	return &pool{inner: inner, logger: logger, path: path}, nil
}

func (p *pool) take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := p.inner.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("kvstore: take connection: %w", err)
	}
	return conn, nil
}

func (p *pool) put(conn *sqlite.Conn) {
	p.inner.Put(conn)
}

func (p *pool) close() error {
	if err := p.inner.Close(); err != nil {
		p.logger.Error("kvstore pool close error", "path", p.path, "error", err)
		return fmt.Errorf("kvstore: closing %s: %w", p.path, err)
	}
	p.logger.Info("kvstore pool closed", "path", p.path)
	return nil
}

// prepareConnection runs once per pooled connection on first use.
// WAL lets readers proceed while a writer holds the lock; the busy
// timeout makes SQLite wait for a conflicting lock before reporting
// SQLITE_BUSY, which the retry loop in Store then handles.
func prepareConnection(conn *sqlite.Conn, busyTimeout time.Duration) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout.Milliseconds()),
		"PRAGMA cache_size=-8192",
		"PRAGMA mmap_size=268435456",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("kvstore: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("kvstore: creating schema: %w", err)
	}
	return nil
}
