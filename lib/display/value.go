// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bureau-foundation/kvdir/lib/byteliteral"
	"github.com/bureau-foundation/kvdir/lib/namespace"
	"github.com/bureau-foundation/kvdir/lib/tuple"
)

// MaxDecompressedSize bounds the output of frame unwrapping. Larger
// frames are shown as stored.
const MaxDecompressedSize = 16 << 20

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// zstdDecoder is shared; DecodeAll is safe for concurrent use.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(MaxDecompressedSize),
	)
	if err != nil {
		panic(fmt.Sprintf("display: creating zstd decoder: %v", err))
	}
}

// Options selects how keys and values are rendered.
type Options struct {
	// Raw shows keys as byte literals without tuple decoding.
	Raw bool

	// Decompress unwraps zstd and lz4 frames before decoding values.
	Decompress bool

	// CBOR renders non-tuple values that are a single CBOR data item
	// in diagnostic notation.
	CBOR bool
}

// Key returns the display form of a row's key.
func Key(row namespace.Row, options Options) string {
	if options.Raw || !row.KeyDecoded {
		return byteliteral.Encode(row.Key)
	}
	return tuple.Render(row.KeyTuple)
}

// Value returns the display form of a stored value.
func Value(value []byte, options Options) string {
	if len(value) == 0 {
		return byteliteral.Encode(value)
	}
	if options.Decompress {
		if unwrapped, err := Decompress(value); err == nil {
			value = unwrapped
		}
	}
	if decoded, err := tuple.Unpack(value); err == nil {
		if len(decoded) == 1 {
			return tuple.Render(decoded[0])
		}
		return tuple.Render(decoded)
	}
	if options.CBOR {
		if diagnostic, err := cbor.Diagnose(value); err == nil {
			return "cbor:" + diagnostic
		}
	}
	return byteliteral.TextOrBytes(value)
}

// errNotCompressed is returned by Decompress for data that does not
// start with a recognized frame magic.
var errNotCompressed = errors.New("display: not a zstd or lz4 frame")

// Decompress unwraps a zstd or lz4 frame. Data without a frame magic
// number, or whose frame fails to decode, returns an error.
func Decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("display: zstd frame: %w", err)
		}
		return out, nil
	case bytes.HasPrefix(data, lz4Magic):
		reader := lz4.NewReader(bytes.NewReader(data))
		out, err := io.ReadAll(io.LimitReader(reader, MaxDecompressedSize+1))
		if err != nil {
			return nil, fmt.Errorf("display: lz4 frame: %w", err)
		}
		if len(out) > MaxDecompressedSize {
			return nil, fmt.Errorf("display: lz4 frame exceeds %d bytes", MaxDecompressedSize)
		}
		return out, nil
	}
	return nil, errNotCompressed
}
