// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tuple

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestPackKnownEncodings(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []byte
	}{
		{"nil", nil, []byte{0x00}},
		{"bytes with zero", []byte{'a', 0x00, 'b'}, []byte{0x01, 'a', 0x00, 0xff, 'b', 0x00}},
		{"string", "x", []byte{0x02, 'x', 0x00}},
		{"zero", 0, []byte{0x14}},
		{"one", 1, []byte{0x15, 0x01}},
		{"42", 42, []byte{0x15, 0x2a}},
		{"256", 256, []byte{0x16, 0x01, 0x00}},
		{"minus one", -1, []byte{0x13, 0xfe}},
		{"minus 256", -256, []byte{0x12, 0xfe, 0xff}},
		{"true", true, []byte{0x27}},
		{"false", false, []byte{0x26}},
		{"nested with nil", []any{nil, "a"}, []byte{0x05, 0x00, 0xff, 0x02, 'a', 0x00, 0x00}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Pack(test.value)
			if !bytes.Equal(got, test.want) {
				t.Errorf("Pack(%v) = % x, want % x", test.value, got, test.want)
			}
		})
	}
}

func TestUnpackRoundTrip(t *testing.T) {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	original := Tuple{
		Nil{},
		Bytes{0x00, 0x01, 0xff},
		Text("héllo"),
		Int(0),
		Int(1),
		Int(-1),
		Int(math.MaxInt64),
		Int(math.MinInt64),
		Int(-4096),
		Float32(1.5),
		Float32(-2.25),
		Float64(3.125),
		Float64(-0.5),
		Bool(true),
		Bool(false),
		UUID(id),
		Versionstamp{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		Versionstamp{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		Tuple{Text("nested"), Tuple{Int(7), Nil{}}, Nil{}},
	}

	got, err := Unpack(PackTuple(original))
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !reflect.DeepEqual(got, original) {
		t.Errorf("Unpack(PackTuple(x)) =\n  %v\nwant\n  %v", got, original)
	}
}

func TestIntegerOrdering(t *testing.T) {
	values := []int64{math.MinInt64, -70000, -256, -255, -1, 0, 1, 255, 256, 70000, math.MaxInt64}
	for i := 1; i < len(values); i++ {
		previous := Pack(values[i-1])
		current := Pack(values[i])
		if bytes.Compare(previous, current) >= 0 {
			t.Errorf("Pack(%d) = % x does not sort before Pack(%d) = % x",
				values[i-1], previous, values[i], current)
		}
	}
}

func TestLongIntegerForms(t *testing.T) {
	// 0x1D: length-prefixed positive.
	got, err := Unpack([]byte{0x1d, 0x02, 0x01, 0x00})
	if err != nil {
		t.Fatalf("Unpack positive long: %v", err)
	}
	if !reflect.DeepEqual(got, Tuple{Int(256)}) {
		t.Errorf("positive long = %v, want (256)", got)
	}

	// 0x0B: length byte and magnitude are ones' complemented.
	got, err = Unpack([]byte{0x0b, 0xfd, 0xfe, 0xff})
	if err != nil {
		t.Fatalf("Unpack negative long: %v", err)
	}
	if !reflect.DeepEqual(got, Tuple{Int(-256)}) {
		t.Errorf("negative long = %v, want (-256)", got)
	}

	// Nine bytes cannot fit in int64.
	_, err = Unpack([]byte{0x1d, 0x09, 0x01, 0, 0, 0, 0, 0, 0, 0, 0})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("oversized integer error = %v, want ErrDecode", err)
	}
}

func TestUnpackMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"unterminated string", []byte{0x02, 'a', 'b'}},
		{"unterminated bytes after escape", []byte{0x01, 0x00, 0xff}},
		{"unknown tag", []byte{0x99}},
		{"truncated int", []byte{0x16, 0x01}},
		{"truncated float32", []byte{0x20, 0x00, 0x00}},
		{"truncated float64", []byte{0x21, 0x00}},
		{"truncated uuid", []byte{0x30, 0x01, 0x02}},
		{"truncated versionstamp", []byte{0x32, 0x01}},
		{"unterminated nested", []byte{0x05, 0x15, 0x01}},
		{"positive overflow", []byte{0x1c, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
		{"negative overflow", []byte{0x0c, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"truncated long int length", []byte{0x1d}},
		{"truncated long int body", []byte{0x1d, 0x04, 0x01}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Unpack(test.input)
			if err == nil {
				t.Fatalf("Unpack(% x) succeeded, want error", test.input)
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("error = %v, want ErrDecode", err)
			}
			var decodeError *DecodeError
			if !errors.As(err, &decodeError) {
				t.Errorf("error type %T, want *DecodeError", err)
			}
		})
	}
}

func TestUnpackEmpty(t *testing.T) {
	got, err := Unpack(nil)
	if err != nil {
		t.Fatalf("Unpack(nil): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Unpack(nil) = %v, want empty tuple", got)
	}
}

func TestDecodeElementReturnsRemainder(t *testing.T) {
	data := Pack("x", 1)
	element, rest, err := DecodeElement(data)
	if err != nil {
		t.Fatalf("DecodeElement: %v", err)
	}
	if element != Text("x") {
		t.Errorf("element = %v, want Text(x)", element)
	}
	if !bytes.Equal(rest, []byte{0x15, 0x01}) {
		t.Errorf("rest = % x, want 15 01", rest)
	}

	if _, _, err := DecodeElement(nil); !errors.Is(err, ErrDecode) {
		t.Errorf("DecodeElement(nil) error = %v, want ErrDecode", err)
	}
}

func TestRender(t *testing.T) {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	tests := []struct {
		element Element
		want    string
	}{
		{Nil{}, "nil"},
		{Bytes("a\x00"), `b"a\x00"`},
		{Text("x"), `"x"`},
		{Int(-42), "-42"},
		{Float32(1.5), "1.5f32"},
		{Float64(2.25), "2.25f64"},
		{Float64(1e21), "1000000000000000000000f64"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{UUID(id), "uuid:0f8fad5b-d9cb-469f-a165-70867728950e"},
		{Versionstamp{0, 0, 0, 0, 0, 0, 0, 1, 0, 2}, "versionstamp:00000000000000010002"},
		{Tuple{}, "()"},
		{Tuple{Text("x"), Int(1)}, `("x", 1)`},
		{Tuple{Tuple{Int(1), Nil{}}, Bytes{0xff}}, `((1, nil), b"\xff")`},
	}

	for _, test := range tests {
		if got := Render(test.element); got != test.want {
			t.Errorf("Render(%#v) = %s, want %s", test.element, got, test.want)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	element := Tuple{Text("a"), Tuple{Float64(0.1), Tuple{Bytes{1, 2}}}, Int(9)}
	first := Render(element)
	for range 10 {
		if got := Render(element); got != first {
			t.Fatalf("Render changed between calls: %s vs %s", got, first)
		}
	}
}

func TestPackPanicsOnUnsupportedType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Pack(struct{}{}) did not panic")
		}
	}()
	Pack(struct{}{})
}
