package scd

import "encoding/binary"

// Cursor is a read position over an immutable byte slice. Fork returns an
// independent copy so lookahead never moves the original.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor starts a cursor at the beginning of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Fork returns a cursor at the same position that can be advanced freely.
func (c *Cursor) Fork() *Cursor {
	return &Cursor{data: c.data, pos: c.pos}
}

func (c *Cursor) Pos() int       { return c.pos }
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Skip moves forward n bytes, clamped to the end of the data.
func (c *Cursor) Skip(n int) {
	c.pos += n
	if c.pos > len(c.data) {
		c.pos = len(c.data)
	}
}

// ReadByte returns the next byte. ok is false at the end of the data.
func (c *Cursor) ReadByte() (byte, bool) {
	if c.pos >= len(c.data) {
		return 0, false
	}
	b := c.data[c.pos]
	c.pos++
	return b, true
}

// ReadUint16 reads a little endian word.
func (c *Cursor) ReadUint16() (uint16, bool) {
	if c.Remaining() < 2 {
		return 0, false
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, true
}

// PeekAt returns the byte offset bytes past the current position.
func (c *Cursor) PeekAt(offset int) (byte, bool) {
	i := c.pos + offset
	if offset < 0 || i >= len(c.data) {
		return 0, false
	}
	return c.data[i], true
}
