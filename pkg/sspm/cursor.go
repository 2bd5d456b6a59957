package sspm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Cursor reads little-endian values from an immutable byte slice.
// Every read fails with ErrTruncated instead of running past the end.
type Cursor struct {
	buf []byte
	off int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset is the absolute position of the next read.
func (c *Cursor) Offset() int { return c.off }

// Len is the size of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining is the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Seek moves the cursor to an absolute offset. Seeking to Len is allowed.
func (c *Cursor) Seek(off uint64) error {
	if off > uint64(len(c.buf)) {
		return fmt.Errorf("%w: seek to %d past end %d", ErrTruncated, off, len(c.buf))
	}
	c.off = int(off)
	return nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n uint64) error {
	if n > uint64(c.Remaining()) {
		return fmt.Errorf("%w: skip %d at offset %d, %d remaining", ErrTruncated, n, c.off, c.Remaining())
	}
	c.off += int(n)
	return nil
}

// ReadN returns the next n bytes without copying. The result aliases the
// underlying buffer.
func (c *Cursor) ReadN(n uint64) ([]byte, error) {
	if n > uint64(c.Remaining()) {
		return nil, fmt.Errorf("%w: read %d at offset %d, %d remaining", ErrTruncated, n, c.off, c.Remaining())
	}
	b := c.buf[c.off : c.off+int(n)]
	c.off += int(n)
	return b, nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadU8()
	return v != 0, err
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.ReadN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *Cursor) ReadF32() (float32, error) {
	u, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (c *Cursor) ReadF64() (float64, error) {
	u, err := c.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// ReadPrefixed16 reads a u16 length followed by that many bytes.
func (c *Cursor) ReadPrefixed16() ([]byte, error) {
	n, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	return c.ReadN(uint64(n))
}

// ReadPrefixed32 reads a u32 length followed by that many bytes.
func (c *Cursor) ReadPrefixed32() ([]byte, error) {
	n, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	return c.ReadN(uint64(n))
}

// ReadString16 reads a u16 length-prefixed UTF-8 string.
func (c *Cursor) ReadString16() (string, error) {
	b, err := c.ReadPrefixed16()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadLine returns the text up to the next '\n' and consumes the newline.
// Without a newline the rest of the buffer is returned.
func (c *Cursor) ReadLine() string {
	rest := c.buf[c.off:]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		c.off = len(c.buf)
		return string(rest)
	}
	c.off += i + 1
	return string(rest[:i])
}

// readLength reads a u64 length and checks the span fits in the buffer.
func (c *Cursor) readLength() (uint64, error) {
	n, err := c.ReadU64()
	if err != nil {
		return 0, err
	}
	if n > uint64(c.Remaining()) {
		return 0, fmt.Errorf("%w: block of %d bytes at offset %d, %d remaining", ErrTruncated, n, c.off, c.Remaining())
	}
	return n, nil
}

// Peek returns up to n bytes at the cursor without advancing.
func (c *Cursor) Peek(n int) []byte {
	end := c.off + min(n, c.Remaining())
	return c.buf[c.off:end]
}

// Window returns a cursor positioned at r.Offset that cannot read past the
// end of r. Offsets reported by the window stay absolute.
func (c *Cursor) Window(r Range) (*Cursor, error) {
	if !r.within(len(c.buf)) {
		return nil, fmt.Errorf("%w: block %d+%d outside %d byte file", ErrTruncated, r.Offset, r.Length, len(c.buf))
	}
	end := int(r.Offset + r.Length)
	return &Cursor{buf: c.buf[:end], off: int(r.Offset)}, nil
}
