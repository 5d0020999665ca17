package ptf

import (
	"encoding/binary"
	"fmt"
)

// Header is the fixed prefix of a session.
type Header struct {
	Magic     byte
	Bitcode   string
	BigEndian bool
	// Reserved holds bytes 18 and 19. Their meaning is unknown and they may be
	// absent in truncated captures.
	Reserved []byte
}

// ReadHeader validates the session prefix and resolves the byte order used by
// every multi-byte read in the rest of the file.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < minHeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(data))
	}
	if data[0] != Magic {
		return Header{}, fmt.Errorf("%w: got 0x%02x want 0x%02x", ErrInvalidMagic, data[0], Magic)
	}
	bitcode := string(data[1 : 1+len(Bitcode)])
	if bitcode != Bitcode {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidBitcode, bitcode)
	}
	h := Header{
		Magic:     data[0],
		Bitcode:   bitcode,
		BigEndian: data[byteOrderOffset] != 0,
	}
	end := min(len(data), HeaderSize)
	if end > minHeaderSize {
		h.Reserved = data[minHeaderSize:end:end]
	}
	return h, nil
}

// ByteOrder returns the order for all 16, 32 and 64-bit fields.
func (h Header) ByteOrder() binary.ByteOrder {
	if h.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ByteOrderName is "little-endian" or "big-endian".
func (h Header) ByteOrderName() string {
	if h.BigEndian {
		return "big-endian"
	}
	return "little-endian"
}
