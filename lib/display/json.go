// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/kvdir/lib/byteliteral"
	"github.com/bureau-foundation/kvdir/lib/namespace"
	"github.com/bureau-foundation/kvdir/lib/nspath"
)

// RowJSON is the --json form of one row.
type RowJSON struct {
	Index int `json:"index"`

	// Key and Value are the stored bytes, hex encoded. Key includes
	// the directory prefix.
	Key   string `json:"key"`
	Value string `json:"value"`

	KeyText   string `json:"key_text"`
	ValueText string `json:"value_text"`

	// ValueDigest is the hex BLAKE3-256 digest of the stored value.
	ValueDigest string `json:"value_digest"`
}

// ListingJSON is the --json form of ls.
type ListingJSON struct {
	Path        string    `json:"path"`
	Directories []string  `json:"directories"`
	Rows        []RowJSON `json:"rows,omitempty"`
	Truncated   bool      `json:"truncated,omitempty"`
}

// ScanJSON is the --json form of scan.
type ScanJSON struct {
	Path   string    `json:"path"`
	Limit  int       `json:"limit"`
	Prefix string    `json:"prefix,omitempty"`
	Rows   []RowJSON `json:"rows"`
}

// NewRowJSON converts one row. index is 1-based.
func NewRowJSON(index int, row namespace.Row, options Options) RowJSON {
	digest := blake3.Sum256(row.Value)
	return RowJSON{
		Index:       index,
		Key:         hex.EncodeToString(row.Key),
		Value:       hex.EncodeToString(row.Value),
		KeyText:     Key(row, options),
		ValueText:   Value(row.Value, options),
		ValueDigest: hex.EncodeToString(digest[:]),
	}
}

func rowsJSON(rows []namespace.Row, options Options) []RowJSON {
	out := make([]RowJSON, len(rows))
	for i, row := range rows {
		out[i] = NewRowJSON(i+1, row, options)
	}
	return out
}

// NewListingJSON converts an ls result.
func NewListingJSON(listing *namespace.Listing, options Options) ListingJSON {
	directories := listing.Directories
	if directories == nil {
		directories = []string{}
	}
	return ListingJSON{
		Path:        listing.Path.String(),
		Directories: directories,
		Rows:        rowsJSON(listing.Rows, options),
		Truncated:   listing.Truncated,
	}
}

// NewScanJSON converts a scan result.
func NewScanJSON(path nspath.Path, limit int, prefix []byte, rows []namespace.Row, options Options) ScanJSON {
	result := ScanJSON{
		Path:  path.String(),
		Limit: limit,
		Rows:  rowsJSON(rows, options),
	}
	if prefix != nil {
		result.Prefix = byteliteral.Encode(prefix)
	}
	return result
}
