// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tuple

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Pack encodes values as a packed tuple. Each value may be an Element
// or one of the Go types nil, []byte, string, bool, float32, float64,
// any signed or unsigned integer type, uuid.UUID, or []any (encoded as
// a nested tuple). Pack panics on any other type: the caller controls
// the values, so an unsupported type is a programming error.
func Pack(values ...any) []byte {
	var out []byte
	for _, value := range values {
		out = appendElement(out, FromValue(value), false)
	}
	return out
}

// PackTuple encodes t as a packed tuple.
func PackTuple(t Tuple) []byte {
	var out []byte
	for _, element := range t {
		out = appendElement(out, element, false)
	}
	return out
}

// FromValue converts a Go value to an Element using the same rules as
// Pack.
func FromValue(value any) Element {
	switch v := value.(type) {
	case nil:
		return Nil{}
	case Element:
		return v
	case []byte:
		return Bytes(v)
	case string:
		return Text(v)
	case bool:
		return Bool(v)
	case float32:
		return Float32(v)
	case float64:
		return Float64(v)
	case int:
		return Int(v)
	case int8:
		return Int(v)
	case int16:
		return Int(v)
	case int32:
		return Int(v)
	case int64:
		return Int(v)
	case uint8:
		return Int(v)
	case uint16:
		return Int(v)
	case uint32:
		return Int(v)
	case uint:
		return fromUnsigned(uint64(v))
	case uint64:
		return fromUnsigned(v)
	case uuid.UUID:
		return UUID(v)
	case []any:
		nested := make(Tuple, len(v))
		for i, item := range v {
			nested[i] = FromValue(item)
		}
		return nested
	}
	panic(fmt.Sprintf("tuple: unsupported value type %T", value))
}

func fromUnsigned(v uint64) Element {
	if v > math.MaxInt64 {
		panic(fmt.Sprintf("tuple: unsigned value %d overflows int64", v))
	}
	return Int(int64(v))
}

func appendElement(out []byte, element Element, nested bool) []byte {
	switch e := element.(type) {
	case Nil:
		if nested {
			return append(out, tagNil, escapeByte)
		}
		return append(out, tagNil)
	case Bytes:
		return appendTerminated(append(out, tagBytes), e)
	case Text:
		return appendTerminated(append(out, tagText), []byte(e))
	case Tuple:
		out = append(out, tagNested)
		for _, item := range e {
			out = appendElement(out, item, true)
		}
		return append(out, 0x00)
	case Int:
		return appendInt(out, int64(e))
	case Float32:
		bits := math.Float32bits(float32(e))
		if bits&(1<<31) != 0 {
			bits = ^bits
		} else {
			bits |= 1 << 31
		}
		return binary.BigEndian.AppendUint32(append(out, tagFloat32), bits)
	case Float64:
		bits := math.Float64bits(float64(e))
		if bits&(1<<63) != 0 {
			bits = ^bits
		} else {
			bits |= 1 << 63
		}
		return binary.BigEndian.AppendUint64(append(out, tagFloat64), bits)
	case Bool:
		if e {
			return append(out, tagTrue)
		}
		return append(out, tagFalse)
	case UUID:
		return append(append(out, tagUUID), e[:]...)
	case Versionstamp:
		switch len(e) {
		case 10:
			return append(append(out, tagVersionstamp80), e...)
		case 12:
			return append(append(out, tagVersionstamp96), e...)
		}
		panic(fmt.Sprintf("tuple: versionstamp must be 10 or 12 bytes, got %d", len(e)))
	}
	panic(fmt.Sprintf("tuple: unsupported element %T", element))
}

func appendTerminated(out, data []byte) []byte {
	for _, b := range data {
		out = append(out, b)
		if b == 0x00 {
			out = append(out, escapeByte)
		}
	}
	return append(out, 0x00)
}

func appendInt(out []byte, value int64) []byte {
	if value == 0 {
		return append(out, tagIntZero)
	}
	var magnitude uint64
	if value > 0 {
		magnitude = uint64(value)
	} else {
		magnitude = uint64(^value) + 1
	}
	width := 8
	for width > 1 && magnitude>>(8*(width-1)) == 0 {
		width--
	}
	encoded := magnitude
	if value > 0 {
		out = append(out, byte(tagIntZero+width))
	} else {
		out = append(out, byte(tagIntZero-width))
		if width == 8 {
			encoded = ^magnitude
		} else {
			encoded = (uint64(1)<<(8*width) - 1) - magnitude
		}
	}
	for shift := 8 * (width - 1); shift >= 0; shift -= 8 {
		out = append(out, byte(encoded>>shift))
	}
	return out
}
