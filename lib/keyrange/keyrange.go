// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keyrange builds half-open byte ranges over an ordered key
// space and streams the key-value pairs inside them.
package keyrange

import (
	"bytes"
	"context"
	"iter"
)

// Range is the half-open interval [Begin, End). An empty End means the
// range has no upper bound.
type Range struct {
	Begin []byte
	End   []byte
}

// Unbounded reports whether the range extends to the end of the key
// space.
func (r Range) Unbounded() bool {
	return len(r.End) == 0
}

// Contains reports whether key falls inside the range.
func (r Range) Contains(key []byte) bool {
	if bytes.Compare(key, r.Begin) < 0 {
		return false
	}
	return r.Unbounded() || bytes.Compare(key, r.End) < 0
}

// KeyValue is one pair returned by a scan.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// Reader streams the pairs of a range in ascending key order, yielding
// at most limit pairs. Transactions in lib/kvstore implement it.
type Reader interface {
	GetRange(ctx context.Context, r Range, limit int) iter.Seq2[KeyValue, error]
}

// Successor returns the smallest byte string that sorts after every
// string having prefix as a prefix: the last byte that is not 0xFF is
// incremented and everything after it dropped. When prefix is empty or
// consists only of 0xFF bytes no such string exists and Successor
// returns an empty slice, which Range treats as "no upper bound".
// The input is never modified.
func Successor(prefix []byte) []byte {
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xff {
			out := make([]byte, i+1)
			copy(out, prefix[:i+1])
			out[i]++
			return out
		}
	}
	return []byte{}
}

// DirectoryRange covers every key under a directory prefix.
func DirectoryRange(prefix []byte) Range {
	return Range{Begin: clone(prefix), End: Successor(prefix)}
}

// PrefixedRange covers every key beginning with prefix followed by
// subPrefix.
func PrefixedRange(prefix, subPrefix []byte) Range {
	begin := make([]byte, 0, len(prefix)+len(subPrefix))
	begin = append(begin, prefix...)
	begin = append(begin, subPrefix...)
	return Range{Begin: begin, End: Successor(begin)}
}

// Scan streams up to limit pairs of r from reader. A limit of zero or
// less yields nothing and does not touch the reader. Each call starts
// a fresh read from r.Begin; nothing is remembered between calls.
func Scan(ctx context.Context, reader Reader, r Range, limit int) iter.Seq2[KeyValue, error] {
	return func(yield func(KeyValue, error) bool) {
		if limit <= 0 {
			return
		}
		count := 0
		for pair, err := range reader.GetRange(ctx, r, limit) {
			if err != nil {
				yield(KeyValue{}, err)
				return
			}
			if !yield(pair, nil) {
				return
			}
			count++
			if count >= limit {
				return
			}
		}
	}
}

func clone(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
