// Package sspmtest builds .sspm files byte by byte for tests. It mirrors the
// decoder's wire layout and deliberately does not import package sspm.
package sspmtest

import (
	"encoding/binary"
	"fmt"
	"math"
)

var signature = []byte("SS+m")

// Type tags, duplicated from package sspm.
const (
	TagUint8      byte = 1
	TagUint16     byte = 2
	TagUint32     byte = 3
	TagUint64     byte = 4
	TagFloat32    byte = 5
	TagFloat64    byte = 6
	TagPosition   byte = 7
	TagBuffer     byte = 8
	TagString     byte = 9
	TagBufferLong byte = 10
	TagStringLong byte = 11
	TagArray      byte = 12
)

// Pos is a position value. Int selects the two-u8 encoding.
type Pos struct {
	Int  bool
	X, Y float32
}

// Array is an array value; Items are encoded with Elem.
type Array struct {
	Elem  byte
	Items []any
}

// Writer appends little-endian values to a buffer.
type Writer struct {
	buf []byte
}

func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int      { return len(w.buf) }

func (w *Writer) Raw(b []byte) *Writer { w.buf = append(w.buf, b...); return w }
func (w *Writer) U8(v uint8) *Writer   { w.buf = append(w.buf, v); return w }
func (w *Writer) I8(v int8) *Writer    { w.buf = append(w.buf, byte(v)); return w }
func (w *Writer) U16(v uint16) *Writer { w.buf = binary.LittleEndian.AppendUint16(w.buf, v); return w }
func (w *Writer) U32(v uint32) *Writer { w.buf = binary.LittleEndian.AppendUint32(w.buf, v); return w }
func (w *Writer) I32(v int32) *Writer  { return w.U32(uint32(v)) }
func (w *Writer) U64(v uint64) *Writer { w.buf = binary.LittleEndian.AppendUint64(w.buf, v); return w }
func (w *Writer) F32(v float32) *Writer {
	return w.U32(math.Float32bits(v))
}
func (w *Writer) F64(v float64) *Writer {
	return w.U64(math.Float64bits(v))
}

// Line writes s followed by a newline.
func (w *Writer) Line(s string) *Writer {
	w.buf = append(w.buf, s...)
	return w.U8('\n')
}

// Str16 writes a u16 length-prefixed string.
func (w *Writer) Str16(s string) *Writer {
	w.U16(uint16(len(s)))
	w.buf = append(w.buf, s...)
	return w
}

// PutU64 overwrites eight bytes at off.
func (w *Writer) PutU64(off int, v uint64) {
	binary.LittleEndian.PutUint64(w.buf[off:], v)
}

// Value writes a tag byte followed by the payload.
func (w *Writer) Value(tag byte, v any) *Writer {
	w.U8(tag)
	return w.Payload(tag, v)
}

// Payload writes a value of the given tag without the tag byte. It panics on
// a mismatched Go type, which is a bug in the calling test.
func (w *Writer) Payload(tag byte, v any) *Writer {
	switch tag {
	case TagUint8:
		return w.U8(v.(uint8))
	case TagUint16:
		return w.U16(v.(uint16))
	case TagUint32:
		return w.U32(v.(uint32))
	case TagUint64:
		return w.U64(v.(uint64))
	case TagFloat32:
		return w.F32(v.(float32))
	case TagFloat64:
		return w.F64(v.(float64))
	case TagPosition:
		p := v.(Pos)
		if p.Int {
			return w.U8(0).U8(uint8(p.X)).U8(uint8(p.Y))
		}
		return w.U8(1).F32(p.X).F32(p.Y)
	case TagBuffer:
		b := v.([]byte)
		return w.U16(uint16(len(b))).Raw(b)
	case TagString:
		return w.Str16(v.(string))
	case TagBufferLong:
		b := v.([]byte)
		return w.U32(uint32(len(b))).Raw(b)
	case TagStringLong:
		s := v.(string)
		return w.U32(uint32(len(s))).Raw([]byte(s))
	case TagArray:
		a := v.(Array)
		w.U8(a.Elem).U16(uint16(len(a.Items)))
		for _, item := range a.Items {
			w.Payload(a.Elem, item)
		}
		return w
	default:
		panic(fmt.Sprintf("sspmtest: unknown tag %d", tag))
	}
}

// NoteInt encodes a v1 note with u8 coordinates.
func NoteInt(ms uint32, x, y uint8) []byte {
	var w Writer
	return w.U32(ms).U8(0).U8(x).U8(y).Bytes()
}

// NoteFloat encodes a v1 note with f32 coordinates.
func NoteFloat(ms uint32, x, y float32) []byte {
	var w Writer
	return w.U32(ms).U8(1).F32(x).F32(y).Bytes()
}

// OggAudio returns n bytes of fake audio starting with the Ogg magic.
func OggAudio(n int) []byte {
	b := make([]byte, max(n, 5))
	copy(b, "OggS?")
	return b
}

// MP3Audio returns n bytes of fake audio starting with an ID3 tag.
func MP3Audio(n int) []byte {
	b := make([]byte, max(n, 5))
	copy(b, "ID3\x04\x00")
	return b
}
