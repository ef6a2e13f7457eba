// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package namespace

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/kvdir/lib/keyrange"
	"github.com/bureau-foundation/kvdir/lib/kvstore"
	"github.com/bureau-foundation/kvdir/lib/nspath"
	"github.com/bureau-foundation/kvdir/lib/tuple"
)

// DefaultSample is the number of rows a Listing shows when the caller
// does not choose.
const DefaultSample = 50

// Query runs namespace lookups against a store. It holds no per-call
// state and is safe for concurrent use.
type Query struct {
	store  *kvstore.Store
	logger *slog.Logger
}

// New returns a Query over store. A nil logger discards.
func New(store *kvstore.Store, logger *slog.Logger) *Query {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Query{store: store, logger: logger}
}

// Row is one key-value pair found inside a directory.
type Row struct {
	// Key and Value are the stored bytes. Key includes the directory
	// prefix.
	Key   []byte
	Value []byte

	// KeyTuple is the key with the directory prefix removed, decoded
	// as a tuple. Valid only when KeyDecoded is true.
	KeyTuple   tuple.Tuple
	KeyDecoded bool
}

// Listing is what ls shows for one directory.
type Listing struct {
	Path        nspath.Path
	Directories []string

	// Rows is empty for the root, which holds no content keys.
	Rows []Row

	// Truncated is set when the directory holds more rows than were
	// sampled.
	Truncated bool
}

// ScanOptions narrows a Scan.
type ScanOptions struct {
	// Limit is the maximum number of rows. Zero or negative returns
	// no rows.
	Limit int

	// Prefix restricts the scan to keys starting with the directory
	// prefix followed by these bytes.
	Prefix []byte
}

// List returns the names of path's immediate children.
func (q *Query) List(ctx context.Context, path nspath.Path) ([]string, error) {
	var names []string
	err := q.store.View(ctx, func(txn *kvstore.ReadTxn) error {
		var err error
		names, err = txn.List(ctx, path)
		return err
	})
	if err != nil {
		return nil, classify("list", path, err)
	}
	return names, nil
}

// Exists reports whether path names a directory. The root always
// exists.
func (q *Query) Exists(ctx context.Context, path nspath.Path) (bool, error) {
	var exists bool
	err := q.store.View(ctx, func(txn *kvstore.ReadTxn) error {
		var err error
		exists, err = txn.Exists(path)
		return err
	})
	if err != nil {
		return false, classify("exists", path, err)
	}
	return exists, nil
}

// ResolveToRange returns the key range owned by the directory at path.
func (q *Query) ResolveToRange(ctx context.Context, path nspath.Path) (keyrange.Range, error) {
	var r keyrange.Range
	err := q.store.View(ctx, func(txn *kvstore.ReadTxn) error {
		directory, err := txn.Open(path)
		if err != nil {
			return err
		}
		r, err = directory.Range()
		return err
	})
	if err != nil {
		return keyrange.Range{}, classify("resolve", path, err)
	}
	return r, nil
}

// Listing returns path's children and, for any path but the root, the
// first sample rows of its content. A sample of zero or less uses
// DefaultSample.
func (q *Query) Listing(ctx context.Context, path nspath.Path, sample int) (*Listing, error) {
	if sample <= 0 {
		sample = DefaultSample
	}

	var listing *Listing
	err := q.store.View(ctx, func(txn *kvstore.ReadTxn) error {
		listing = &Listing{Path: path}
		names, err := txn.List(ctx, path)
		if err != nil {
			return err
		}
		listing.Directories = names
		if path.IsRoot() {
			return nil
		}

		directory, err := txn.Open(path)
		if err != nil {
			return err
		}
		r, err := directory.Range()
		if err != nil {
			return err
		}
		// One extra row tells us whether the sample was cut short.
		rows, err := collect(ctx, txn, directory, r, sample+1)
		if err != nil {
			return err
		}
		if len(rows) > sample {
			rows = rows[:sample]
			listing.Truncated = true
		}
		listing.Rows = rows
		return nil
	})
	if err != nil {
		return nil, classify("ls", path, err)
	}
	q.logger.Debug("listed directory",
		"path", path.String(),
		"directories", len(listing.Directories),
		"rows", len(listing.Rows),
		"truncated", listing.Truncated,
	)
	return listing, nil
}

// Scan returns up to options.Limit rows from the directory at path, in
// key order.
func (q *Query) Scan(ctx context.Context, path nspath.Path, options ScanOptions) ([]Row, error) {
	var rows []Row
	err := q.store.View(ctx, func(txn *kvstore.ReadTxn) error {
		rows = nil
		directory, err := txn.Open(path)
		if err != nil {
			return err
		}
		r, err := directory.Range()
		if err != nil {
			return err
		}
		if options.Prefix != nil {
			r = keyrange.PrefixedRange(directory.Prefix, options.Prefix)
		}
		rows, err = collect(ctx, txn, directory, r, options.Limit)
		return err
	})
	if err != nil {
		return nil, classify("scan", path, err)
	}
	q.logger.Debug("scanned directory",
		"path", path.String(),
		"limit", options.Limit,
		"prefix_bytes", len(options.Prefix),
		"rows", len(rows),
	)
	return rows, nil
}

// collect reads up to limit rows of r. Keys that do not decode as a
// tuple under the directory prefix are kept with KeyDecoded false.
func collect(ctx context.Context, txn *kvstore.ReadTxn, directory *kvstore.Directory, r keyrange.Range, limit int) ([]Row, error) {
	rows := []Row{}
	for pair, err := range keyrange.Scan(ctx, txn, r, limit) {
		if err != nil {
			return nil, err
		}
		row := Row{Key: pair.Key, Value: pair.Value}
		if decoded, err := directory.Unpack(pair.Key); err == nil {
			row.KeyTuple = decoded
			row.KeyDecoded = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}
