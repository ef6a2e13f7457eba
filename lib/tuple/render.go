// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tuple

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/bureau-foundation/kvdir/lib/byteliteral"
)

// Render formats an element for display:
//
//	nil, b"raw\x00", "text", (1, "x"), 42, 1.5f32, 2.25f64,
//	true, uuid:<hyphenated hex>, versionstamp:<hex>
func Render(element Element) string {
	var builder strings.Builder
	render(&builder, element)
	return builder.String()
}

func render(builder *strings.Builder, element Element) {
	switch e := element.(type) {
	case Nil:
		builder.WriteString("nil")
	case Bytes:
		builder.WriteString(byteliteral.Encode(e))
	case Text:
		builder.WriteByte('"')
		builder.WriteString(string(e))
		builder.WriteByte('"')
	case Tuple:
		builder.WriteByte('(')
		for i, item := range e {
			if i > 0 {
				builder.WriteString(", ")
			}
			render(builder, item)
		}
		builder.WriteByte(')')
	case Int:
		builder.WriteString(strconv.FormatInt(int64(e), 10))
	case Float32:
		builder.WriteString(strconv.FormatFloat(float64(e), 'f', -1, 32))
		builder.WriteString("f32")
	case Float64:
		builder.WriteString(strconv.FormatFloat(float64(e), 'f', -1, 64))
		builder.WriteString("f64")
	case Bool:
		builder.WriteString(strconv.FormatBool(bool(e)))
	case UUID:
		builder.WriteString("uuid:")
		builder.WriteString(uuid.UUID(e).String())
	case Versionstamp:
		builder.WriteString("versionstamp:")
		builder.WriteString(hex.EncodeToString(e))
	case nil:
		builder.WriteString("nil")
	}
}
