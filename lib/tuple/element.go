// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tuple

import "github.com/google/uuid"

// Element is one decoded tuple value. The set of implementations is
// closed: Nil, Bytes, Text, Int, Float32, Float64, Bool, UUID,
// Versionstamp and Tuple. Code switching over an Element handles every
// variant; adding a wire tag means adding a variant and extending
// decode, Pack and Render together.
type Element interface {
	isElement()
}

// Nil is the null element.
type Nil struct{}

// Bytes is a raw byte string.
type Bytes []byte

// Text is a UTF-8 string.
type Text string

// Int is a signed integer.
type Int int64

// Float32 is a single-precision float.
type Float32 float32

// Float64 is a double-precision float.
type Float64 float64

// Bool is a boolean.
type Bool bool

// UUID is a 16-byte RFC 4122 identifier.
type UUID uuid.UUID

// Versionstamp is a commit version assigned by the store: 10 bytes in
// the 80-bit form, 12 bytes (10 plus a 2-byte user version) in the
// 96-bit form.
type Versionstamp []byte

// Tuple is an ordered sequence of elements. Tuples nest.
type Tuple []Element

func (Nil) isElement()          {}
func (Bytes) isElement()        {}
func (Text) isElement()         {}
func (Int) isElement()          {}
func (Float32) isElement()      {}
func (Float64) isElement()      {}
func (Bool) isElement()         {}
func (UUID) isElement()         {}
func (Versionstamp) isElement() {}
func (Tuple) isElement()        {}

// Type tags.
const (
	tagNil            = 0x00
	tagBytes          = 0x01
	tagText           = 0x02
	tagNested         = 0x05
	tagNegIntLong     = 0x0b
	tagIntZero        = 0x14
	tagPosIntLong     = 0x1d
	tagFloat32        = 0x20
	tagFloat64        = 0x21
	tagFalse          = 0x26
	tagTrue           = 0x27
	tagUUID           = 0x30
	tagVersionstamp80 = 0x32
	tagVersionstamp96 = 0x33

	escapeByte = 0xff
)
