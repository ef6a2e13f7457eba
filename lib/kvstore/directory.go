// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/kvdir/lib/keyrange"
	"github.com/bureau-foundation/kvdir/lib/nspath"
	"github.com/bureau-foundation/kvdir/lib/tuple"
)

const nodeSubspace = 0xfe

// allocatorKey holds the last allocated directory id.
var allocatorKey = []byte{nodeSubspace, 0xff}

var (
	// ErrDirectoryNotFound is returned when a path names no directory.
	ErrDirectoryNotFound = errors.New("directory does not exist")

	// ErrRootRange is returned by Directory.Range for the root, which
	// owns no key prefix of its own.
	ErrRootRange = errors.New("the root directory has no key range")

	// ErrNotInDirectory is returned by Directory.Unpack for a key
	// outside the directory's prefix.
	ErrNotInDirectory = errors.New("key is not in directory")
)

// Directory is a resolved directory. It is a plain value and remains
// usable after the transaction that produced it ends, but it only
// describes the directory as of that transaction.
type Directory struct {
	// Path is the directory's location.
	Path nspath.Path

	// Prefix is the key prefix owned by the directory. Empty for the
	// root.
	Prefix []byte
}

// Range returns the keys owned by the directory.
func (d *Directory) Range() (keyrange.Range, error) {
	if d.Path.IsRoot() {
		return keyrange.Range{}, ErrRootRange
	}
	return keyrange.DirectoryRange(d.Prefix), nil
}

// Pack builds a key inside the directory from tuple values.
func (d *Directory) Pack(values ...any) []byte {
	return append(bytes.Clone(d.Prefix), tuple.Pack(values...)...)
}

// Unpack strips the directory prefix from key and decodes the rest as
// a packed tuple. It fails with ErrNotInDirectory when key does not
// start with the prefix and with a tuple.DecodeError when the
// remainder is not a valid tuple.
func (d *Directory) Unpack(key []byte) (tuple.Tuple, error) {
	if d.Path.IsRoot() || !bytes.HasPrefix(key, d.Prefix) {
		return nil, ErrNotInDirectory
	}
	return tuple.Unpack(key[len(d.Prefix):])
}

func nodeKey(path nspath.Path) []byte {
	values := make([]any, len(path))
	for i, segment := range path {
		values[i] = segment
	}
	return append([]byte{nodeSubspace}, tuple.Pack(values...)...)
}

// Exists reports whether path names a directory. The root always
// exists.
func (t *ReadTxn) Exists(path nspath.Path) (bool, error) {
	if path.IsRoot() {
		return true, nil
	}
	_, found, err := t.Get(nodeKey(path))
	if err != nil {
		return false, err
	}
	return found, nil
}

// Open resolves path to a Directory.
func (t *ReadTxn) Open(path nspath.Path) (*Directory, error) {
	if path.IsRoot() {
		return &Directory{Path: nspath.Root}, nil
	}
	prefix, found, err := t.Get(nodeKey(path))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, path)
	}
	return &Directory{Path: path.Join(), Prefix: prefix}, nil
}

// List returns the names of path's immediate children in ascending
// order.
func (t *ReadTxn) List(ctx context.Context, path nspath.Path) ([]string, error) {
	exists, err := t.Exists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, path)
	}

	begin := nodeKey(path)
	r := keyrange.Range{Begin: begin, End: keyrange.Successor(begin)}
	if path.IsRoot() {
		r.End = allocatorKey
	}

	names := []string{}
	for pair, err := range t.GetRange(ctx, r, 0) {
		if err != nil {
			return nil, err
		}
		decoded, err := tuple.Unpack(pair.Key[1:])
		if err != nil || len(decoded) != len(path)+1 {
			continue
		}
		if name, ok := decoded[len(path)].(tuple.Text); ok {
			names = append(names, string(name))
		}
	}
	return names, nil
}

// CreateOrOpen returns the directory at path, creating it and any
// missing ancestors.
func (t *WriteTxn) CreateOrOpen(path nspath.Path) (*Directory, error) {
	if path.IsRoot() {
		return &Directory{Path: nspath.Root}, nil
	}
	var directory *Directory
	for depth := 1; depth <= len(path); depth++ {
		current := path[:depth].Join()
		existing, found, err := t.Get(nodeKey(current))
		if err != nil {
			return nil, err
		}
		if found {
			directory = &Directory{Path: current, Prefix: existing}
			continue
		}
		prefix, err := t.allocatePrefix()
		if err != nil {
			return nil, err
		}
		if err := t.Set(nodeKey(current), prefix); err != nil {
			return nil, err
		}
		directory = &Directory{Path: current, Prefix: prefix}
	}
	return directory, nil
}

func (t *WriteTxn) allocatePrefix() ([]byte, error) {
	var last int64
	stored, found, err := t.Get(allocatorKey)
	if err != nil {
		return nil, err
	}
	if found {
		decoded, err := tuple.Unpack(stored)
		if err != nil {
			return nil, fmt.Errorf("kvstore: corrupt directory allocator: %w", err)
		}
		value, ok := singleInt(decoded)
		if !ok {
			return nil, fmt.Errorf("kvstore: corrupt directory allocator value %x", stored)
		}
		last = value
	}
	next := last + 1
	if err := t.Set(allocatorKey, tuple.Pack(next)); err != nil {
		return nil, err
	}
	return tuple.Pack(next), nil
}

func singleInt(t tuple.Tuple) (int64, bool) {
	if len(t) != 1 {
		return 0, false
	}
	value, ok := t[0].(tuple.Int)
	return int64(value), ok
}
