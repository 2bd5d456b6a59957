package sspm

import (
	"bytes"
	"fmt"
)

// TypeTag identifies the wire encoding of a tagged value.
type TypeTag uint8

const (
	// TagNone means the tag byte is read from the stream.
	TagNone       TypeTag = 0
	TagUint8      TypeTag = 1
	TagUint16     TypeTag = 2
	TagUint32     TypeTag = 3
	TagUint64     TypeTag = 4
	TagFloat32    TypeTag = 5
	TagFloat64    TypeTag = 6
	TagPosition   TypeTag = 7
	TagBuffer     TypeTag = 8
	TagString     TypeTag = 9
	TagBufferLong TypeTag = 10
	TagStringLong TypeTag = 11
	TagArray      TypeTag = 12
)

func (t TypeTag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagUint8:
		return "u8"
	case TagUint16:
		return "u16"
	case TagUint32:
		return "u32"
	case TagUint64:
		return "u64"
	case TagFloat32:
		return "f32"
	case TagFloat64:
		return "f64"
	case TagPosition:
		return "position"
	case TagBuffer:
		return "buffer"
	case TagString:
		return "string"
	case TagBufferLong:
		return "buffer_long"
	case TagStringLong:
		return "string_long"
	case TagArray:
		return "array"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the twelve value encodings.
func (t TypeTag) Valid() bool {
	return t >= TagUint8 && t <= TagArray
}

// Position sub-encodings.
const (
	positionInt   uint8 = 0
	positionFloat uint8 = 1
)

// Position is a 2D coordinate. Integer is set when it was stored as two u8.
type Position struct {
	Integer bool
	X, Y    float64
}

// ArrayValue holds same-typed elements.
type ArrayValue struct {
	ElemTag TypeTag
	Values  []Value
}

// Value is a decoded tagged value. The dynamic type of Value depends on Tag:
// uint8, uint16, uint32, uint64, float32, float64, Position, []byte (Buffer
// and BufferLong), string (String and StringLong) or ArrayValue.
type Value struct {
	Tag   TypeTag
	Value any
}

// maxValueDepth bounds array nesting so hostile input cannot exhaust the stack.
const maxValueDepth = 32

// DecodeValue decodes one tagged value. With expected == TagNone the tag byte
// is read first.
func DecodeValue(c *Cursor, expected TypeTag) (Value, error) {
	return decodeValue(c, expected, 0)
}

func decodeValue(c *Cursor, tag TypeTag, depth int) (Value, error) {
	if tag == TagNone {
		b, err := c.ReadU8()
		if err != nil {
			return Value{}, err
		}
		tag = TypeTag(b)
	}

	var (
		v   any
		err error
	)
	switch tag {
	case TagUint8:
		v, err = c.ReadU8()
	case TagUint16:
		v, err = c.ReadU16()
	case TagUint32:
		v, err = c.ReadU32()
	case TagUint64:
		v, err = c.ReadU64()
	case TagFloat32:
		v, err = c.ReadF32()
	case TagFloat64:
		v, err = c.ReadF64()
	case TagPosition:
		v, err = decodePosition(c)
	case TagBuffer:
		var b []byte
		b, err = c.ReadPrefixed16()
		v = bytes.Clone(b)
	case TagString:
		var b []byte
		b, err = c.ReadPrefixed16()
		v = string(b)
	case TagBufferLong:
		var b []byte
		b, err = c.ReadPrefixed32()
		v = bytes.Clone(b)
	case TagStringLong:
		var b []byte
		b, err = c.ReadPrefixed32()
		v = string(b)
	case TagArray:
		v, err = decodeArray(c, depth)
	default:
		return Value{}, fmt.Errorf("%w: %d at offset %d", ErrUnknownTypeTag, uint8(tag), c.Offset())
	}
	if err != nil {
		return Value{}, err
	}
	return Value{Tag: tag, Value: v}, nil
}

func decodePosition(c *Cursor) (Position, error) {
	kind, err := c.ReadU8()
	if err != nil {
		return Position{}, err
	}
	switch kind {
	case positionInt:
		b, err := c.ReadN(2)
		if err != nil {
			return Position{}, err
		}
		return Position{Integer: true, X: float64(b[0]), Y: float64(b[1])}, nil
	case positionFloat:
		x, err := c.ReadF32()
		if err != nil {
			return Position{}, err
		}
		y, err := c.ReadF32()
		if err != nil {
			return Position{}, err
		}
		return Position{X: float64(x), Y: float64(y)}, nil
	default:
		return Position{}, fmt.Errorf("%w: position kind %d at offset %d", ErrUnknownTypeTag, kind, c.Offset()-1)
	}
}

func decodeArray(c *Cursor, depth int) (ArrayValue, error) {
	if depth >= maxValueDepth {
		return ArrayValue{}, fmt.Errorf("%w: arrays nested deeper than %d", ErrUnknownTypeTag, maxValueDepth)
	}
	elem, err := c.ReadU8()
	if err != nil {
		return ArrayValue{}, err
	}
	elemTag := TypeTag(elem)
	if !elemTag.Valid() {
		return ArrayValue{}, fmt.Errorf("%w: array element %d at offset %d", ErrUnknownTypeTag, elem, c.Offset()-1)
	}
	count, err := c.ReadU16()
	if err != nil {
		return ArrayValue{}, err
	}
	values := make([]Value, 0, min(int(count), c.Remaining()))
	for range count {
		v, err := decodeValue(c, elemTag, depth+1)
		if err != nil {
			return ArrayValue{}, err
		}
		values = append(values, v)
	}
	return ArrayValue{ElemTag: elemTag, Values: values}, nil
}

// Uint64 returns the value as an unsigned integer for the four integer tags.
func (v Value) Uint64() (uint64, bool) {
	switch t := v.Value.(type) {
	case uint8:
		return uint64(t), true
	case uint16:
		return uint64(t), true
	case uint32:
		return uint64(t), true
	case uint64:
		return t, true
	default:
		return 0, false
	}
}

// Float64 returns any numeric value as a float64.
func (v Value) Float64() (float64, bool) {
	switch t := v.Value.(type) {
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	if u, ok := v.Uint64(); ok {
		return float64(u), true
	}
	return 0, false
}

// Text returns the content of a String or StringLong value.
func (v Value) Text() (string, bool) {
	s, ok := v.Value.(string)
	return s, ok
}
