package ptf

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// cursor is a bounds-checked forward reader over block content.
type cursor struct {
	buf   []byte
	off   int
	order binary.ByteOrder
}

func newCursor(buf []byte, order binary.ByteOrder) *cursor {
	return &cursor{buf: buf, order: order}
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) readN(n int) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortContent, n, c.off, c.remaining())
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) peekU8() (uint8, bool) {
	if c.remaining() < 1 {
		return 0, false
	}
	return c.buf[c.off], true
}

func (c *cursor) readU8() (uint8, error) {
	b, err := c.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) readU16() (uint16, error) {
	b, err := c.readN(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(b), nil
}

func (c *cursor) readU32() (uint32, error) {
	b, err := c.readN(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(b), nil
}

func (c *cursor) readU64() (uint64, error) {
	b, err := c.readN(8)
	if err != nil {
		return 0, err
	}
	return c.order.Uint64(b), nil
}

// readString reads a 32-bit length followed by that many bytes of text.
func (c *cursor) readString() (string, error) {
	n, err := c.readU32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(c.remaining()) {
		return "", fmt.Errorf("%w: string of %d bytes at offset %d, have %d", ErrShortContent, n, c.off, c.remaining())
	}
	b, err := c.readN(int(n))
	if err != nil {
		return "", err
	}
	return asciiText(b), nil
}

// readPath reads a 32-bit segment count followed by that many strings.
func (c *cursor) readPath() (string, error) {
	depth, err := c.readU32()
	if err != nil {
		return "", err
	}
	// every segment needs at least its length prefix
	if uint64(depth)*4 > uint64(c.remaining()) {
		return "", fmt.Errorf("%w: path of %d segments at offset %d, have %d bytes", ErrShortContent, depth, c.off, c.remaining())
	}
	segments := make([]string, 0, depth)
	for range depth {
		s, err := c.readString()
		if err != nil {
			return "", err
		}
		segments = append(segments, s)
	}
	return strings.Join(segments, PathSeparator), nil
}

// asciiText keeps the low seven bits of every byte, matching how the session
// text fields have been read so far.
func asciiText(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = c & 0x7f
	}
	return string(out)
}

// skip advances by up to n bytes.
func (c *cursor) skip(n int) {
	c.off += min(n, c.remaining())
}
