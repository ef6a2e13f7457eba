// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tuple decodes and renders the self-describing tuple encoding
// used for keys and values in directory-layer key-value stores.
//
// Every encoded element starts with a type tag byte that selects one
// of the [Element] variants:
//
//	0x00        nil
//	0x01        byte string, 0x00-terminated, 0x00 escaped as 0x00 0xFF
//	0x02        UTF-8 string, same framing as byte strings
//	0x05        nested tuple, terminated by 0x00; nil inside is 0x00 0xFF
//	0x0B        negative integer with a length byte (ones' complement)
//	0x0C..0x13  negative integer of 8..1 bytes (ones' complement)
//	0x14        zero
//	0x15..0x1C  positive integer of 1..8 bytes, big-endian
//	0x1D        positive integer with a length byte
//	0x20        float32, sign-adjusted big-endian
//	0x21        float64, sign-adjusted big-endian
//	0x26, 0x27  false, true
//	0x30        UUID, 16 bytes
//	0x32        80-bit versionstamp, 10 bytes
//	0x33        96-bit versionstamp, 12 bytes
//
// The encoding preserves order: comparing two packed tuples bytewise
// gives the same result as comparing them element by element. The
// directory layer in lib/kvstore relies on this to keep child
// directories sorted by name.
//
// [Unpack] and [DecodeElement] are total over their input: malformed
// data produces a [*DecodeError], never a panic. Integers are limited
// to the int64 range; larger encodings are reported as decode errors
// so that callers fall back to raw byte rendering.
//
// [Render] produces the human-readable form shown by the explorer, and
// [Pack] is the matching encoder used by the store and by tests.
package tuple
