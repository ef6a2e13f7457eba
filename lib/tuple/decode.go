// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tuple

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
)

// ErrDecode is matched by every error returned from Unpack and
// DecodeElement.
var ErrDecode = errors.New("tuple decode error")

// DecodeError describes malformed or truncated tuple data.
type DecodeError struct {
	// Offset is the position in the input where decoding failed.
	Offset int
	// Reason is a short description of the failure.
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tuple: %s at offset %d", e.Reason, e.Offset)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Unpack decodes a packed tuple: the concatenation of zero or more
// encoded elements that makes up a whole key or value.
func Unpack(data []byte) (Tuple, error) {
	d := decoder{data: data}
	result := Tuple{}
	for d.pos < len(d.data) {
		element, err := d.element()
		if err != nil {
			return nil, err
		}
		result = append(result, element)
	}
	return result, nil
}

// DecodeElement decodes the first element of data and returns it with
// the unconsumed remainder.
func DecodeElement(data []byte) (Element, []byte, error) {
	d := decoder{data: data}
	if len(data) == 0 {
		return nil, nil, d.fail("empty input")
	}
	element, err := d.element()
	if err != nil {
		return nil, nil, err
	}
	return element, data[d.pos:], nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) fail(format string, args ...any) error {
	return &DecodeError{Offset: d.pos, Reason: fmt.Sprintf(format, args...)}
}

// take returns the next n bytes, or an error if fewer remain.
func (d *decoder) take(n int, what string) ([]byte, error) {
	if n < 0 || len(d.data)-d.pos < n {
		return nil, d.fail("truncated %s: need %d bytes, have %d", what, n, len(d.data)-d.pos)
	}
	chunk := d.data[d.pos : d.pos+n]
	d.pos += n
	return chunk, nil
}

func (d *decoder) element() (Element, error) {
	start := d.pos
	tag := d.data[d.pos]
	d.pos++

	switch {
	case tag == tagNil:
		return Nil{}, nil

	case tag == tagBytes:
		raw, err := d.terminated("byte string")
		if err != nil {
			return nil, err
		}
		return Bytes(raw), nil

	case tag == tagText:
		raw, err := d.terminated("string")
		if err != nil {
			return nil, err
		}
		return Text(raw), nil

	case tag == tagNested:
		return d.nested()

	case tag == tagNegIntLong || tag == tagPosIntLong:
		return d.longInt(tag)

	case tag > tagNegIntLong && tag < tagPosIntLong:
		return d.shortInt(tag)

	case tag == tagFloat32:
		raw, err := d.take(4, "float32")
		if err != nil {
			return nil, err
		}
		bits := binary.BigEndian.Uint32(raw)
		if bits&(1<<31) != 0 {
			bits ^= 1 << 31
		} else {
			bits = ^bits
		}
		return Float32(math.Float32frombits(bits)), nil

	case tag == tagFloat64:
		raw, err := d.take(8, "float64")
		if err != nil {
			return nil, err
		}
		bits := binary.BigEndian.Uint64(raw)
		if bits&(1<<63) != 0 {
			bits ^= 1 << 63
		} else {
			bits = ^bits
		}
		return Float64(math.Float64frombits(bits)), nil

	case tag == tagFalse:
		return Bool(false), nil

	case tag == tagTrue:
		return Bool(true), nil

	case tag == tagUUID:
		raw, err := d.take(16, "uuid")
		if err != nil {
			return nil, err
		}
		var id uuid.UUID
		copy(id[:], raw)
		return UUID(id), nil

	case tag == tagVersionstamp80:
		raw, err := d.take(10, "versionstamp")
		if err != nil {
			return nil, err
		}
		return Versionstamp(clone(raw)), nil

	case tag == tagVersionstamp96:
		raw, err := d.take(12, "versionstamp")
		if err != nil {
			return nil, err
		}
		return Versionstamp(clone(raw)), nil
	}

	d.pos = start
	return nil, d.fail("unknown type tag 0x%02x", tag)
}

// terminated reads a 0x00-terminated string body, unescaping
// 0x00 0xFF into a single 0x00.
func (d *decoder) terminated(what string) ([]byte, error) {
	var out []byte
	for {
		if d.pos >= len(d.data) {
			return nil, d.fail("unterminated %s", what)
		}
		b := d.data[d.pos]
		d.pos++
		if b != 0x00 {
			out = append(out, b)
			continue
		}
		if d.pos < len(d.data) && d.data[d.pos] == escapeByte {
			out = append(out, 0x00)
			d.pos++
			continue
		}
		if out == nil {
			out = []byte{}
		}
		return out, nil
	}
}

func (d *decoder) nested() (Element, error) {
	result := Tuple{}
	for {
		if d.pos >= len(d.data) {
			return nil, d.fail("unterminated nested tuple")
		}
		if d.data[d.pos] == 0x00 {
			if d.pos+1 < len(d.data) && d.data[d.pos+1] == escapeByte {
				result = append(result, Nil{})
				d.pos += 2
				continue
			}
			d.pos++
			return result, nil
		}
		element, err := d.element()
		if err != nil {
			return nil, err
		}
		result = append(result, element)
	}
}

// shortInt decodes the fixed-width integer forms 0x0C through 0x1C.
func (d *decoder) shortInt(tag byte) (Element, error) {
	if tag == tagIntZero {
		return Int(0), nil
	}
	width := int(tag) - tagIntZero
	negative := width < 0
	if negative {
		width = -width
	}
	raw, err := d.take(width, "integer")
	if err != nil {
		return nil, err
	}
	var value uint64
	for _, b := range raw {
		value = value<<8 | uint64(b)
	}
	if !negative {
		if value > math.MaxInt64 {
			return nil, d.fail("integer overflows int64")
		}
		return Int(int64(value)), nil
	}
	magnitude := ^value
	if width < 8 {
		magnitude = (uint64(1)<<(8*width) - 1) - value
	}
	if magnitude > 1<<63 {
		return nil, d.fail("integer overflows int64")
	}
	return Int(int64(^magnitude + 1)), nil
}

// longInt decodes the length-prefixed integer forms 0x0B and 0x1D.
func (d *decoder) longInt(tag byte) (Element, error) {
	lengthByte, err := d.take(1, "integer length")
	if err != nil {
		return nil, err
	}
	length := int(lengthByte[0])
	if tag == tagNegIntLong {
		length = int(lengthByte[0] ^ 0xff)
	}
	raw, err := d.take(length, "integer")
	if err != nil {
		return nil, err
	}
	value := new(big.Int).SetBytes(raw)
	if tag == tagNegIntLong {
		// Stored as the ones' complement of the magnitude.
		full := new(big.Int).Lsh(big.NewInt(1), uint(8*length))
		full.Sub(full, big.NewInt(1))
		value.Sub(full, value)
		value.Neg(value)
	}
	if !value.IsInt64() {
		return nil, d.fail("integer overflows int64")
	}
	return Int(value.Int64()), nil
}

func clone(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
