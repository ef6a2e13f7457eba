// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package byteliteral converts between raw bytes and the escaped
// literal text users type at the shell (b"app\x00", \xff\x01, ...).
//
// [Decode] accepts \xHH, \n, \r, \t, \\ and \" escapes. Any other
// backslash-escaped character stands for itself and unescaped text is
// taken as its UTF-8 bytes. [Encode] is a display form: it is
// round-trippable through Decode (after removing the b"..." wrapper)
// for inputs up to [MaxDisplayBytes] long, and truncated beyond that.
package byteliteral

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxDisplayBytes is the number of source bytes Encode renders before
// cutting the output short with an ellipsis.
const MaxDisplayBytes = 64

// Ellipsis marks truncated output.
const Ellipsis = "…"

// ErrMalformedEscape is matched by every error Decode returns.
var ErrMalformedEscape = errors.New("malformed escape")

// MalformedEscapeError reports an invalid \x escape in literal text.
type MalformedEscapeError struct {
	// Offset is the byte offset of the backslash starting the escape.
	Offset int
	// Reason describes what was wrong with it.
	Reason string
}

func (e *MalformedEscapeError) Error() string {
	return fmt.Sprintf("malformed escape at offset %d: %s", e.Offset, e.Reason)
}

func (e *MalformedEscapeError) Is(target error) bool {
	return target == ErrMalformedEscape
}

// Decode parses escaped literal text into raw bytes.
func Decode(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 >= len(text) {
			out = append(out, c)
			continue
		}
		next := text[i+1]
		switch next {
		case 'x', 'X':
			if i+3 >= len(text) {
				return nil, &MalformedEscapeError{Offset: i, Reason: "incomplete hex escape"}
			}
			high, ok := hexValue(text[i+2])
			if !ok {
				return nil, &MalformedEscapeError{Offset: i, Reason: fmt.Sprintf("invalid hex digit %q", text[i+2])}
			}
			low, ok := hexValue(text[i+3])
			if !ok {
				return nil, &MalformedEscapeError{Offset: i, Reason: fmt.Sprintf("invalid hex digit %q", text[i+3])}
			}
			out = append(out, high<<4|low)
			i += 3
		case 'n':
			out = append(out, '\n')
			i++
		case 'r':
			out = append(out, '\r')
			i++
		case 't':
			out = append(out, '\t')
			i++
		default:
			// Covers \\ and \" as well as unknown escapes.
			out = append(out, next)
			i++
		}
	}
	return out, nil
}

// Encode renders raw bytes as a b"..." literal. ASCII letters, digits,
// '-' and '_' appear as themselves, a backslash as \\, and every other
// byte as a lowercase \xHH escape.
func Encode(data []byte) string {
	var builder strings.Builder
	builder.Grow(len(data) + 3)
	builder.WriteString(`b"`)
	for index, b := range data {
		if index >= MaxDisplayBytes {
			builder.WriteString(Ellipsis)
			break
		}
		switch {
		case b == '\\':
			builder.WriteString(`\\`)
		case isPlain(b):
			builder.WriteByte(b)
		default:
			fmt.Fprintf(&builder, `\x%02x`, b)
		}
	}
	builder.WriteByte('"')
	return builder.String()
}

// TextOrBytes renders data as a quoted string when it is valid UTF-8
// free of control characters (newline, carriage return and tab are
// allowed), and as an Encode literal otherwise.
func TextOrBytes(data []byte) string {
	if !utf8.Valid(data) {
		return Encode(data)
	}
	text := string(data)
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return Encode(data)
		}
	}
	return `"` + text + `"`
}

func isPlain(b byte) bool {
	return b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' ||
		b == '-' || b == '_'
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
