// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kvstoretest builds throwaway kvstore databases for tests.
package kvstoretest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/kvdir/lib/kvstore"
	"github.com/bureau-foundation/kvdir/lib/nspath"
	"github.com/bureau-foundation/kvdir/lib/tuple"
)

// Entry is one key-value pair to seed. Key and Value are tuple values
// packed with tuple.Pack; a RawKey or RawValue overrides them with
// literal bytes (RawKey is still placed under the directory prefix).
type Entry struct {
	Key      []any
	Value    []any
	RawKey   []byte
	RawValue []byte
}

// Fixture maps directory paths ("/app/foo") to the entries stored in
// them. A path with no entries just creates the directory.
type Fixture map[string][]Entry

// Open creates a database in a temporary directory, seeds it with
// fixture, and returns the open store. The store is closed when the
// test ends.
func Open(t testing.TB, fixture Fixture) (*kvstore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kvdir.db")
	store, err := kvstore.Open(kvstore.Config{
		Path:            path,
		CreateIfMissing: true,
		PoolSize:        2,
	})
	if err != nil {
		t.Fatalf("kvstore.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})

	Seed(t, store, fixture)
	return store, path
}

// Seed writes fixture into store in a single transaction.
func Seed(t testing.TB, store *kvstore.Store, fixture Fixture) {
	t.Helper()
	err := store.Update(context.Background(), func(txn *kvstore.WriteTxn) error {
		for text, entries := range fixture {
			directory, err := txn.CreateOrOpen(nspath.Parse(text))
			if err != nil {
				return err
			}
			for _, entry := range entries {
				key := directory.Pack(entry.Key...)
				if entry.RawKey != nil {
					key = append(append([]byte{}, directory.Prefix...), entry.RawKey...)
				}
				value := entry.RawValue
				if value == nil {
					value = tuple.Pack(entry.Value...)
				}
				if err := txn.Set(key, value); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seeding store: %v", err)
	}
}
