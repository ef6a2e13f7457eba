// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kvstore is an ordered, transactional, byte-keyed key-value
// store with a directory layer, persisted in a single SQLite file.
//
// The explorer treats this package as its storage backend. It reads
// through [Store.View], which runs a closure inside a read transaction
// and transparently retries the whole closure when SQLite reports a
// transient lock conflict. [Store.Update] is the write-side
// counterpart; the explorer never calls it, but tests and external
// loaders use it to populate a database.
//
// # Storage
//
// All pairs live in one table:
//
//	CREATE TABLE kv (key BLOB PRIMARY KEY, value BLOB) WITHOUT ROWID
//
// SQLite compares BLOBs with memcmp, so the primary key order is the
// lexicographic byte order that range scans need. Connections come
// from a zombiezen sqlitex pool and are initialized with WAL journaling
// and a busy timeout (see pool.go).
//
// # Directory layer
//
// A directory is a named node in a tree whose leaves and inner nodes
// each own a short, unique key prefix. Directory metadata is stored in
// the same key space under the node subspace 0xFE:
//
//	0xFE ++ tuple.Pack(path...)  ->  prefix
//	0xFE 0xFF                    ->  tuple.Pack(last allocated id)
//
// Prefixes are tuple-packed integers (0x15 0x01, 0x15 0x02, ...), so
// they never collide with each other or with the node subspace.
// Because the tuple encoding preserves order, the children of a path
// are found with one range read over the path's node key.
//
// Keys stored in a directory are conventionally the directory prefix
// followed by a packed tuple; [Directory.Unpack] reverses that.
package kvstore
