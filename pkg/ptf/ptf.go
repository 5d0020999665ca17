// Package ptf reads the tagged block container used by Pro Tools session files.
//
// A session is a short fixed header followed by a sequence of self-describing
// blocks. Every block starts with the marker byte 0x5a, followed by a 16-bit
// block type, a 32-bit content size and, as the first two content bytes, a
// 16-bit content type. Blocks nest: the content of a block may contain further
// blocks, interleaved with payload bytes whose layout is mostly unknown.
//
// The format has no public specification. Parse builds the block tree from a
// buffer and a Registry decodes the payload of content types whose layout has
// been worked out. Anything else stays available as raw bytes.
package ptf

import (
	"fmt"
	"strconv"
	"strings"
)

// Container constants must never change.
const (
	// Magic is the first byte of every unscrambled session.
	Magic byte = 0x03

	// Bitcode is the ASCII bit pattern stored in bytes 1..16.
	Bitcode = "0010111100101011"

	// Marker starts every block header.
	Marker byte = 0x5a

	// HeaderSize covers magic, bitcode, the byte order flag and two
	// unclassified bytes. The first block normally starts here.
	HeaderSize = 20

	// BlockHeaderSize is marker (1) + block type (2) + content size (4).
	BlockHeaderSize = 7

	// DefaultMaxDepth bounds block nesting.
	DefaultMaxDepth = 64
)

const (
	byteOrderOffset = 17
	minHeaderSize   = byteOrderOffset + 1
	contentTypeSize = 2
)

// BlockType identifies the structural role of a block.
type BlockType uint16

// Hex returns the code as it appears in a little-endian file, low byte first.
func (t BlockType) Hex() string {
	return hexCode(uint16(t))
}

// ContentType selects the decoding of a block's payload.
type ContentType uint16

// Hex returns the code as it appears in a little-endian file, low byte first.
// The reverse-engineering notes for the format use this notation because it
// is what a hex editor shows.
func (c ContentType) Hex() string {
	return hexCode(uint16(c))
}

func (c ContentType) String() string {
	return fmt.Sprintf("%s (%d)", c.Hex(), uint16(c))
}

func hexCode(v uint16) string {
	return fmt.Sprintf("0x%02x%02x", byte(v), byte(v>>8))
}

// ParseContentType accepts either the hex-editor notation ("0x0410", low byte
// first) or a plain decimal value ("4100").
func ParseContentType(s string) (ContentType, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		if len(hex) != 4 {
			return 0, fmt.Errorf("content type %q: want 4 hex digits", s)
		}
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return 0, fmt.Errorf("content type %q: %w", s, err)
		}
		// hex-editor order: first byte is the low byte
		return ContentType(uint16(v>>8) | uint16(v&0xff)<<8), nil
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("content type %q: %w", s, err)
	}
	return ContentType(v), nil
}

// MustParseContentType is ParseContentType for static tables.
func MustParseContentType(s string) ContentType {
	ct, err := ParseContentType(s)
	if err != nil {
		panic(err)
	}
	return ct
}
