// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"context"
	"errors"
	"iter"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/kvdir/lib/keyrange"
)

// errStopScan ends a statement early when the consumer of GetRange
// stops iterating.
var errStopScan = errors.New("kvstore: scan stopped")

// ReadTxn is a read transaction. It is only valid inside the View (or
// Update) callback that received it and must not be used from another
// goroutine.
type ReadTxn struct {
	conn *sqlite.Conn
}

// Get returns the value stored at key. found is false when the key is
// absent.
func (t *ReadTxn) Get(key []byte) (value []byte, found bool, err error) {
	err = sqlitex.Execute(t.conn, "SELECT value FROM kv WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = columnBytes(stmt, 0)
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}

// GetRange streams the pairs inside r in ascending key order, at most
// limit of them. A limit of zero or less means no limit. Rows are read
// from SQLite as the sequence is consumed; breaking out of the loop
// finishes the statement.
func (t *ReadTxn) GetRange(ctx context.Context, r keyrange.Range, limit int) iter.Seq2[keyrange.KeyValue, error] {
	return func(yield func(keyrange.KeyValue, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(keyrange.KeyValue{}, err)
			return
		}

		var conditions []string
		var args []any
		if len(r.Begin) > 0 {
			conditions = append(conditions, "key >= ?")
			args = append(args, r.Begin)
		}
		if !r.Unbounded() {
			conditions = append(conditions, "key < ?")
			args = append(args, r.End)
		}
		query := "SELECT key, value FROM kv"
		if len(conditions) > 0 {
			query += " WHERE " + strings.Join(conditions, " AND ")
		}
		query += " ORDER BY key LIMIT ?"
		if limit <= 0 {
			limit = -1
		}
		args = append(args, limit)

		stopped := false
		err := sqlitex.Execute(t.conn, query, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				pair := keyrange.KeyValue{
					Key:   columnBytes(stmt, 0),
					Value: columnBytes(stmt, 1),
				}
				if !yield(pair, nil) {
					stopped = true
					return errStopScan
				}
				return nil
			},
		})
		if err != nil && !stopped {
			yield(keyrange.KeyValue{}, err)
		}
	}
}

// WriteTxn is a write transaction. It embeds ReadTxn, so reads inside
// an update see the transaction's own writes.
type WriteTxn struct {
	ReadTxn
}

// Set stores value at key, replacing any existing value.
func (t *WriteTxn) Set(key, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	return sqlitex.Execute(t.conn,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value",
		&sqlitex.ExecOptions{Args: []any{key, value}})
}

// Clear removes key. Clearing an absent key is not an error.
func (t *WriteTxn) Clear(key []byte) error {
	return sqlitex.Execute(t.conn, "DELETE FROM kv WHERE key = ?", &sqlitex.ExecOptions{Args: []any{key}})
}

// ClearRange removes every key inside r.
func (t *WriteTxn) ClearRange(r keyrange.Range) error {
	if r.Unbounded() {
		return sqlitex.Execute(t.conn, "DELETE FROM kv WHERE key >= ?", &sqlitex.ExecOptions{Args: []any{r.Begin}})
	}
	return sqlitex.Execute(t.conn, "DELETE FROM kv WHERE key >= ? AND key < ?",
		&sqlitex.ExecOptions{Args: []any{r.Begin, r.End}})
}

func columnBytes(stmt *sqlite.Stmt, column int) []byte {
	out := make([]byte, stmt.ColumnLen(column))
	stmt.ColumnBytes(column, out)
	return out
}
