package sspm

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samcharles93/mapdb/pkg/sspm/sspmtest"
)

func TestDecodeValueRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		tag  byte
		in   any
		want Value
	}{
		{"u8", sspmtest.TagUint8, uint8(200), Value{TagUint8, uint8(200)}},
		{"u16", sspmtest.TagUint16, uint16(0xBEEF), Value{TagUint16, uint16(0xBEEF)}},
		{"u32", sspmtest.TagUint32, uint32(0xDEADBEEF), Value{TagUint32, uint32(0xDEADBEEF)}},
		{"u64", sspmtest.TagUint64, uint64(1 << 52), Value{TagUint64, uint64(1 << 52)}},
		{"f32", sspmtest.TagFloat32, float32(-1.5), Value{TagFloat32, float32(-1.5)}},
		{"f64", sspmtest.TagFloat64, 3.141592653589793, Value{TagFloat64, 3.141592653589793}},
		{"int position", sspmtest.TagPosition, sspmtest.Pos{Int: true, X: 2, Y: 0}, Value{TagPosition, Position{Integer: true, X: 2, Y: 0}}},
		{"float position", sspmtest.TagPosition, sspmtest.Pos{X: 0.25, Y: -1}, Value{TagPosition, Position{X: 0.25, Y: -1}}},
		{"buffer", sspmtest.TagBuffer, []byte{1, 2, 3}, Value{TagBuffer, []byte{1, 2, 3}}},
		{"string", sspmtest.TagString, "héllo", Value{TagString, "héllo"}},
		{"long buffer", sspmtest.TagBufferLong, []byte{9}, Value{TagBufferLong, []byte{9}}},
		{"long string", sspmtest.TagStringLong, "long", Value{TagStringLong, "long"}},
		{
			"array of strings",
			sspmtest.TagArray,
			sspmtest.Array{Elem: sspmtest.TagString, Items: []any{"a", "bc"}},
			Value{TagArray, ArrayValue{ElemTag: TagString, Values: []Value{{TagString, "a"}, {TagString, "bc"}}}},
		},
		{
			"nested array",
			sspmtest.TagArray,
			sspmtest.Array{Elem: sspmtest.TagArray, Items: []any{
				sspmtest.Array{Elem: sspmtest.TagUint8, Items: []any{uint8(7)}},
			}},
			Value{TagArray, ArrayValue{ElemTag: TagArray, Values: []Value{
				{TagArray, ArrayValue{ElemTag: TagUint8, Values: []Value{{TagUint8, uint8(7)}}}},
			}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var w sspmtest.Writer
			w.Value(tc.tag, tc.in)
			c := NewCursor(w.Bytes())
			got, err := DecodeValue(c, TagNone)
			if err != nil {
				t.Fatalf("DecodeValue: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
			if c.Remaining() != 0 {
				t.Fatalf("%d bytes left unread", c.Remaining())
			}

			// With the tag supplied the payload decodes the same way.
			var p sspmtest.Writer
			p.Payload(tc.tag, tc.in)
			got, err = DecodeValue(NewCursor(p.Bytes()), TypeTag(tc.tag))
			if err != nil {
				t.Fatalf("DecodeValue with tag: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("value mismatch with known tag (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeValueErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   []byte
		want error
	}{
		{"unknown tag", []byte{13, 0, 0}, ErrUnknownTypeTag},
		{"zero tag", []byte{0}, ErrUnknownTypeTag},
		{"bad position kind", []byte{7, 2, 0, 0}, ErrUnknownTypeTag},
		{"bad array element", []byte{12, 99, 1, 0}, ErrUnknownTypeTag},
		{"empty", nil, ErrTruncated},
		{"short u32", []byte{3, 1, 2}, ErrTruncated},
		{"short string", []byte{9, 5, 0, 'a'}, ErrTruncated},
		{"short long buffer", []byte{10, 0xff, 0xff, 0xff, 0xff}, ErrTruncated},
		{"short array", []byte{12, 1, 3, 0, 1, 2}, ErrTruncated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := DecodeValue(NewCursor(tc.in), TagNone); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDecodeValueNestingLimit(t *testing.T) {
	t.Parallel()

	var w sspmtest.Writer
	w.U8(sspmtest.TagArray)
	for range maxValueDepth + 1 {
		w.U8(sspmtest.TagArray).U16(1)
	}
	if _, err := DecodeValue(NewCursor(w.Bytes()), TagNone); !errors.Is(err, ErrUnknownTypeTag) {
		t.Fatalf("deep nesting: got %v, want ErrUnknownTypeTag", err)
	}
}

func TestValueAccessors(t *testing.T) {
	t.Parallel()

	if u, ok := (Value{TagUint16, uint16(5)}).Uint64(); !ok || u != 5 {
		t.Fatalf("Uint64: got %d %v", u, ok)
	}
	if f, ok := (Value{TagUint8, uint8(2)}).Float64(); !ok || f != 2 {
		t.Fatalf("Float64 of u8: got %v %v", f, ok)
	}
	if f, ok := (Value{TagFloat32, float32(0.5)}).Float64(); !ok || f != 0.5 {
		t.Fatalf("Float64 of f32: got %v %v", f, ok)
	}
	if _, ok := (Value{TagString, "x"}).Float64(); ok {
		t.Fatalf("Float64 of string should fail")
	}
	if s, ok := (Value{TagStringLong, "x"}).Text(); !ok || s != "x" {
		t.Fatalf("Text: got %q %v", s, ok)
	}
}
