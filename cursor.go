package sea

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// A cursor is a monotone read position over an encoded stream. Every
// read is bounds-checked against the remaining input and advances the
// position; a short read reports ErrTruncated with the offending
// offset. The decoder never seeks backwards.
type cursor struct {
	data []byte
	off  int
}

// need returns a truncation error for a read of n bytes at the
// current offset.
func (c *cursor) need(n int) error {
	return errors.Wrapf(ErrTruncated, "sea: need %d bytes at offset %d, have %d", n, c.off, len(c.data)-c.off)
}

// bytes consumes and returns the next n bytes of the input.
func (c *cursor) bytes(n int) ([]byte, error) {
	if len(c.data)-c.off < n {
		return nil, c.need(n)
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

// skip advances the cursor past n bytes without reading them.
func (c *cursor) skip(n int) error {
	if len(c.data)-c.off < n {
		return c.need(n)
	}
	c.off += n
	return nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) i16() (int16, error) {
	v, err := c.u16()
	return int16(v), err
}
