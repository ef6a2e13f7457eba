// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyrange

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"math/rand/v2"
	"sort"
	"testing"
)

func TestSuccessor(t *testing.T) {
	tests := []struct {
		input []byte
		want  []byte
	}{
		{[]byte{0x01}, []byte{0x02}},
		{[]byte("abc"), []byte("abd")},
		{[]byte{0x01, 0xff}, []byte{0x02}},
		{[]byte{0x01, 0xfe, 0xff, 0xff}, []byte{0x01, 0xff}},
		{[]byte{0xff, 0xff}, []byte{}},
		{[]byte{}, []byte{}},
		{nil, []byte{}},
	}

	for _, test := range tests {
		got := Successor(test.input)
		if !bytes.Equal(got, test.want) {
			t.Errorf("Successor(% x) = % x, want % x", test.input, got, test.want)
		}
	}
}

func TestSuccessorDoesNotModifyInput(t *testing.T) {
	input := []byte{0x01, 0x02, 0xff}
	Successor(input)
	if !bytes.Equal(input, []byte{0x01, 0x02, 0xff}) {
		t.Errorf("input modified to % x", input)
	}
}

// TestSuccessorIsLeastUpperBound checks, for random prefixes, that the
// successor sorts after every string carrying the prefix, before every
// string that does not and sorts after the prefix, and that nothing
// shorter than it qualifies.
func TestSuccessorIsLeastUpperBound(t *testing.T) {
	random := rand.New(rand.NewPCG(1, 2))
	alphabet := []byte{0x00, 0x01, 0x7f, 0xfe, 0xff}
	randomBytes := func(n int) []byte {
		out := make([]byte, n)
		for i := range out {
			out[i] = alphabet[random.IntN(len(alphabet))]
		}
		return out
	}

	for range 500 {
		prefix := randomBytes(1 + random.IntN(4))
		if bytes.Count(prefix, []byte{0xff}) == len(prefix) {
			continue
		}
		successor := Successor(prefix)

		for range 50 {
			candidate := randomBytes(random.IntN(7))
			hasPrefix := bytes.HasPrefix(candidate, prefix)
			cmp := bytes.Compare(candidate, successor)
			if hasPrefix && cmp >= 0 {
				t.Fatalf("prefix % x: % x has the prefix but is not below successor % x",
					prefix, candidate, successor)
			}
			if !hasPrefix && bytes.Compare(candidate, prefix) > 0 && cmp < 0 {
				t.Fatalf("prefix % x: % x lacks the prefix but sorts below successor % x",
					prefix, candidate, successor)
			}
		}

		// Extending the prefix with 0xFF bytes approaches the successor
		// from below without reaching it.
		extended := append(append([]byte{}, prefix...), 0xff, 0xff, 0xff)
		if bytes.Compare(extended, successor) >= 0 {
			t.Fatalf("prefix % x: % x not below successor % x", prefix, extended, successor)
		}
	}
}

func TestDirectoryRange(t *testing.T) {
	r := DirectoryRange([]byte{0x15, 0x01})
	if !bytes.Equal(r.Begin, []byte{0x15, 0x01}) || !bytes.Equal(r.End, []byte{0x15, 0x02}) {
		t.Errorf("DirectoryRange = [% x, % x)", r.Begin, r.End)
	}
	if !r.Contains([]byte{0x15, 0x01, 0x02, 0x00}) {
		t.Error("range does not contain a key under the prefix")
	}
	if r.Contains([]byte{0x15, 0x02}) {
		t.Error("range contains its end bound")
	}
	if r.Contains([]byte{0x15}) {
		t.Error("range contains a key below its begin bound")
	}
}

func TestPrefixedRange(t *testing.T) {
	prefix := make([]byte, 1, 16)
	prefix[0] = 0x15
	r := PrefixedRange(prefix, []byte{0xff})
	if !bytes.Equal(r.Begin, []byte{0x15, 0xff}) || !bytes.Equal(r.End, []byte{0x16}) {
		t.Errorf("PrefixedRange = [% x, % x)", r.Begin, r.End)
	}
	if len(prefix) != 1 {
		t.Errorf("prefix modified: % x", prefix)
	}

	unbounded := PrefixedRange([]byte{0xff}, []byte{0xff})
	if !unbounded.Unbounded() {
		t.Errorf("all-0xFF begin gives End % x, want unbounded", unbounded.End)
	}
	if !unbounded.Contains([]byte{0xff, 0xff, 0xff}) {
		t.Error("unbounded range does not contain a later key")
	}
}

// sliceReader serves pairs from a sorted slice and counts calls.
type sliceReader struct {
	pairs []KeyValue
	calls int
	err   error
}

func (s *sliceReader) GetRange(_ context.Context, r Range, limit int) iter.Seq2[KeyValue, error] {
	s.calls++
	return func(yield func(KeyValue, error) bool) {
		if s.err != nil {
			yield(KeyValue{}, s.err)
			return
		}
		count := 0
		for _, pair := range s.pairs {
			if !r.Contains(pair.Key) {
				continue
			}
			if count >= limit || !yield(pair, nil) {
				return
			}
			count++
		}
	}
}

func newSliceReader(keys ...string) *sliceReader {
	sort.Strings(keys)
	reader := &sliceReader{}
	for _, key := range keys {
		reader.pairs = append(reader.pairs, KeyValue{Key: []byte(key), Value: []byte("v")})
	}
	return reader
}

func collect(t *testing.T, seq iter.Seq2[KeyValue, error]) []string {
	t.Helper()
	var keys []string
	for pair, err := range seq {
		if err != nil {
			t.Fatalf("scan error: %v", err)
		}
		keys = append(keys, string(pair.Key))
	}
	return keys
}

func TestScanLimit(t *testing.T) {
	reader := newSliceReader("a1", "a2", "a3", "b1")
	r := DirectoryRange([]byte("a"))

	if got := collect(t, Scan(context.Background(), reader, r, 2)); len(got) != 2 || got[0] != "a1" || got[1] != "a2" {
		t.Errorf("Scan limit 2 = %v, want [a1 a2]", got)
	}
	if got := collect(t, Scan(context.Background(), reader, r, 10)); len(got) != 3 {
		t.Errorf("Scan limit 10 = %v, want 3 keys", got)
	}
}

func TestScanZeroLimitSkipsReader(t *testing.T) {
	reader := newSliceReader("a1")
	got := collect(t, Scan(context.Background(), reader, DirectoryRange([]byte("a")), 0))
	if len(got) != 0 {
		t.Errorf("Scan limit 0 = %v, want nothing", got)
	}
	if reader.calls != 0 {
		t.Errorf("reader called %d times, want 0", reader.calls)
	}
}

func TestScanRestartsEachCall(t *testing.T) {
	reader := newSliceReader("a1", "a2")
	r := DirectoryRange([]byte("a"))
	first := collect(t, Scan(context.Background(), reader, r, 1))
	second := collect(t, Scan(context.Background(), reader, r, 1))
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("scans = %v and %v, want the same first key twice", first, second)
	}
}

func TestScanPropagatesError(t *testing.T) {
	failure := errors.New("backend down")
	reader := &sliceReader{err: failure}
	for _, err := range Scan(context.Background(), reader, DirectoryRange([]byte("a")), 5) {
		if !errors.Is(err, failure) {
			t.Errorf("error = %v, want %v", err, failure)
		}
	}
}
