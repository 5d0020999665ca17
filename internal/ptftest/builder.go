// Package ptftest builds synthetic session buffers for tests. It depends on
// nothing but the standard library so that package ptf's own tests can use
// it.
package ptftest

import (
	"bytes"
	"encoding/binary"
)

const bitcode = "0010111100101011"

// Encoder writes session structures in one byte order.
type Encoder struct {
	Order binary.ByteOrder
}

// LE and BE return encoders for the two byte orders a header can declare.
func LE() Encoder { return Encoder{Order: binary.LittleEndian} }
func BE() Encoder { return Encoder{Order: binary.BigEndian} }

func (e Encoder) bigEndian() bool {
	return e.Order == binary.BigEndian
}

// ShortHeader is magic, bitcode and the byte order flag: 18 bytes.
func (e Encoder) ShortHeader() []byte {
	h := make([]byte, 0, 18)
	h = append(h, 0x03)
	h = append(h, bitcode...)
	if e.bigEndian() {
		return append(h, 0x01)
	}
	return append(h, 0x00)
}

// Header is the full 20-byte header with zeroed reserved bytes.
func (e Encoder) Header() []byte {
	return append(e.ShortHeader(), 0x00, 0x00)
}

// Session is a full header followed by blocks.
func (e Encoder) Session(blocks ...[]byte) []byte {
	return Concat(append([][]byte{e.Header()}, blocks...)...)
}

// Block encodes marker, type, size and content type followed by body. The
// size covers the content type and the body.
func (e Encoder) Block(typ, contentType uint16, body ...[]byte) []byte {
	content := Concat(append([][]byte{e.U16(contentType)}, body...)...)
	return e.RawBlock(typ, uint32(len(content)), content)
}

// RawBlock writes a block header with an explicit size in front of content,
// which may disagree with the size.
func (e Encoder) RawBlock(typ uint16, size uint32, content []byte) []byte {
	out := make([]byte, 0, 7+len(content))
	out = append(out, 0x5a)
	out = append(out, e.U16(typ)...)
	out = append(out, e.U32(size)...)
	return append(out, content...)
}

func (e Encoder) U8(v uint8) []byte { return []byte{v} }

func (e Encoder) U16(v uint16) []byte {
	b := make([]byte, 2)
	e.Order.PutUint16(b, v)
	return b
}

func (e Encoder) U32(v uint32) []byte {
	b := make([]byte, 4)
	e.Order.PutUint32(b, v)
	return b
}

func (e Encoder) U64(v uint64) []byte {
	b := make([]byte, 8)
	e.Order.PutUint64(b, v)
	return b
}

// String is a 32-bit length followed by s.
func (e Encoder) String(s string) []byte {
	return append(e.U32(uint32(len(s))), s...)
}

// Path is a 32-bit segment count followed by one string per segment.
func (e Encoder) Path(segments ...string) []byte {
	out := e.U32(uint32(len(segments)))
	for _, s := range segments {
		out = append(out, e.String(s)...)
	}
	return out
}

// Dir is a directory entry of an audio file list.
func (e Encoder) Dir(counter uint32, name string) []byte {
	return Concat([]byte{0x01}, e.U32(counter), e.String(name), e.U32(0))
}

// File is a file entry of an audio file list.
func (e Encoder) File(fileType uint32, name string) []byte {
	return Concat([]byte{0x02}, e.U32(fileType), e.String(name), e.U32(0))
}

// AudioFiles is an audio content block (0x1004) with a file list child
// (0x103a) holding entries, terminated by a zero byte.
func (e Encoder) AudioFiles(count uint32, entries ...[]byte) []byte {
	list := e.Block(1, 0x103a, e.U32(uint32(len(entries))), Concat(entries...), []byte{0x00})
	return e.Block(2, 0x1004, e.U32(count), list)
}

// ProductInfo is a product info block (0x0003).
func (e Encoder) ProductInfo(product string, major, minor, patch uint32, version, os string) []byte {
	return e.Block(3, 0x0003,
		e.U8(0),
		e.String(product),
		e.U32(3),
		e.U32(major), e.U32(minor), e.U32(patch),
		e.String(version),
		e.U8(0),
		e.String("release"),
		e.U8(0),
		e.String("session"),
		e.U8(0),
		e.U8(1),
		e.String(os),
		e.U32(0),
		e.U8(0),
	)
}

// SessionSettings is a session settings block (0x1028).
func (e Encoder) SessionSettings(bits uint8, rate uint32) []byte {
	return e.Block(5, 0x1028,
		e.U8(3), e.U8(bits), e.U32(rate),
		e.U8(0), e.U32(0), e.U8(1),
		e.Path("Macintosh HD", "Settings"),
		e.String("io.pio"),
	)
}

// SessionInfo is a session info block (0x2067) pointing at dir/name.
func (e Encoder) SessionInfo(dir []string, name string) []byte {
	return e.Block(4, 0x2067,
		e.U32(1), e.U32(0x2a), e.U16(0), e.U64(0), e.U32(0x0a),
		e.String("a"), e.String("b"), e.String("c"), e.String("d"), e.String("e"),
		e.U64(0), e.U64(0), e.U64(0),
		e.Path(dir...),
		e.String(name),
		e.U32(0),
	)
}

// Sample is a small but complete session: product info, settings, session
// info, two audio files and an unregistered block carrying a stray marker
// byte.
func (e Encoder) Sample() []byte {
	return e.Session(
		e.ProductInfo("ProTools", 12, 8, 0, "12.8.0", "Mac OS X"),
		e.SessionSettings(24, 48000),
		e.SessionInfo([]string{"Users", "me", "Sessions"}, "song.ptx"),
		e.AudioFiles(2,
			e.Dir(0, "Audio Files"),
			e.File(0x57415645, "kick.wav"),
			e.File(0x57415645, "snare.wav"),
		),
		e.Block(1, 0x0999, []byte{0x01, 0x5a, 0xff, 0xff, 0x02}),
	)
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
