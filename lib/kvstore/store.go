// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/kvdir/lib/clock"
)

// ErrDatabaseNotFound is returned by Open when the database file does
// not exist and Config.CreateIfMissing is false.
var ErrDatabaseNotFound = errors.New("kvstore: database not found")

// RetryPolicy controls how View and Update re-run a transaction that
// failed with a retryable error.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the
	// first. Zero means 5.
	MaxAttempts int

	// InitialBackoff is the wait before the second attempt. Each
	// further wait doubles, up to MaxBackoff. Zero means 10ms.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between attempts. Zero means 1s.
	MaxBackoff time.Duration
}

// Config holds the parameters for Open. Path is required.
type Config struct {
	// Path is the SQLite database file.
	Path string

	// CreateIfMissing allows Open to create a new, empty database.
	// The explorer leaves this false so that a mistyped path fails
	// instead of silently showing an empty namespace.
	CreateIfMissing bool

	// PoolSize is the number of pooled connections. Zero or negative
	// means max(runtime.NumCPU(), 4).
	PoolSize int

	// BusyTimeout is how long SQLite waits on a locked database
	// before a statement fails with SQLITE_BUSY. Zero means 5s.
	BusyTimeout time.Duration

	// Retry is the transaction retry policy.
	Retry RetryPolicy

	// Clock drives retry backoff. Nil means clock.Real().
	Clock clock.Clock

	// Logger receives open/close and retry messages. Nil discards.
	Logger *slog.Logger
}

// Store is an open database. It is safe for concurrent use.
type Store struct {
	pool   *pool
	retry  RetryPolicy
	clock  clock.Clock
	logger *slog.Logger
}

// Open opens the database described by cfg.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("kvstore: Path is required")
	}
	if !cfg.CreateIfMissing {
		if _, err := os.Stat(cfg.Path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, cfg.Path)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	busyTimeout := cfg.BusyTimeout
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}

	p, err := openPool(cfg.Path, cfg.PoolSize, busyTimeout, logger)
	if err != nil {
		return nil, err
	}
	return &Store{
		pool:   p,
		retry:  cfg.Retry.withDefaults(),
		clock:  clk,
		logger: logger,
	}, nil
}

// Close releases all connections. It blocks until borrowed
// connections are returned.
func (s *Store) Close() error {
	return s.pool.close()
}

// View runs fn inside a read transaction. All reads in fn observe one
// consistent snapshot. If fn or the transaction fails with a retryable
// error, the whole of fn is run again in a new transaction, so fn must
// not have side effects that cannot be repeated (collect results into
// variables that fn resets on entry). Non-retryable errors, and the
// last retryable one once attempts are exhausted, are returned as-is.
func (s *Store) View(ctx context.Context, fn func(*ReadTxn) error) error {
	return s.run(ctx, "view", func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Transaction(conn)(&err)
		return fn(&ReadTxn{conn: conn})
	})
}

// Update runs fn inside a write transaction with the same retry
// behavior as View. The transaction commits when fn returns nil and
// rolls back otherwise.
func (s *Store) Update(ctx context.Context, fn func(*WriteTxn) error) error {
	return s.run(ctx, "update", func(conn *sqlite.Conn) (err error) {
		end, err := sqlitex.ImmediateTransaction(conn)
		if err != nil {
			return err
		}
		defer end(&err)
		return fn(&WriteTxn{ReadTxn: ReadTxn{conn: conn}})
	})
}

func (s *Store) run(ctx context.Context, operation string, attempt func(*sqlite.Conn) error) error {
	backoff := s.retry.InitialBackoff
	for number := 1; ; number++ {
		err := s.attempt(ctx, attempt)
		if err == nil {
			return nil
		}
		if !IsRetryable(err) || number >= s.retry.MaxAttempts {
			return err
		}

		s.logger.Debug("kvstore transaction conflict, retrying",
			"operation", operation,
			"attempt", number,
			"backoff", backoff,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(backoff):
		}
		backoff *= 2
		if backoff > s.retry.MaxBackoff {
			backoff = s.retry.MaxBackoff
		}
	}
}

func (s *Store) attempt(ctx context.Context, fn func(*sqlite.Conn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := s.pool.take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.put(conn)
	return fn(conn)
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 5
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = 10 * time.Millisecond
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = time.Second
	}
	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = p.InitialBackoff
	}
	return p
}

// retryableError marks an error as transient.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable wraps err so that View and Update treat it as transient
// and run the transaction again.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err is a transient failure: SQLite lock
// contention (SQLITE_BUSY, SQLITE_LOCKED) or an error wrapped with
// Retryable.
func IsRetryable(err error) bool {
	var marked *retryableError
	if errors.As(err, &marked) {
		return true
	}
	switch sqlite.ErrCode(err).ToPrimary() {
	case sqlite.ResultBusy, sqlite.ResultLocked:
		return true
	}
	return false
}
