package ptf

import (
	"encoding/binary"
	"fmt"
)

// Logger receives parse diagnostics. internal/logger.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Options control block discovery.
type Options struct {
	// Strict rejects block headers whose type does not fit in one byte. Real
	// sessions only use small block types, so a larger value almost always
	// means a payload byte happened to equal the marker.
	Strict bool

	// MaxDepth bounds nesting. Content below the limit stays opaque.
	MaxDepth int

	// Descramble lets Open and OpenReaderAt undo the XOR obfuscation of raw
	// session files before parsing. Parse never descrambles.
	Descramble bool

	// Tables supplies the lookup tables for keys that need one.
	Tables LookupTables

	Logger Logger
}

// DefaultOptions returns strict parsing with descrambling enabled.
func DefaultOptions() Options {
	return Options{
		Strict:     true,
		MaxDepth:   DefaultMaxDepth,
		Descramble: true,
	}
}

// AnomalyKind classifies non-fatal structural problems.
type AnomalyKind int

const (
	// AnomalyUnfinished: no valid block where the next top-level block was
	// expected. Top-level scanning stops there.
	AnomalyUnfinished AnomalyKind = iota
	// AnomalyDepthLimit: a block sits at MaxDepth and its content was not
	// scanned for children.
	AnomalyDepthLimit
	// AnomalyShortHeader: the session carries the 18 mandatory header bytes
	// but the first block does not start at HeaderSize.
	AnomalyShortHeader
)

func (k AnomalyKind) String() string {
	switch k {
	case AnomalyUnfinished:
		return "unfinished block"
	case AnomalyDepthLimit:
		return "depth limit"
	case AnomalyShortHeader:
		return "short header"
	default:
		return fmt.Sprintf("anomaly(%d)", int(k))
	}
}

// Anomaly is a structural problem that did not stop the parse.
type Anomaly struct {
	Kind   AnomalyKind
	Offset int
	Detail string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s at %d: %s", a.Kind, a.Offset, a.Detail)
}

// Tree is the result of parsing one session buffer.
type Tree struct {
	Header Header
	Blocks []*Block
	// Anomalies lists structural problems in discovery order.
	Anomalies []Anomaly
	// Resyncs counts marker bytes inside block content that did not start
	// a valid child block.
	Resyncs int
	// Size is the length of the parsed buffer.
	Size int
	// Trailing holds the bytes from TrailingOffset to the end of the buffer
	// when top-level scanning stopped early. They belong to no block.
	Trailing       []byte
	TrailingOffset int

	order binary.ByteOrder
}

// ByteOrder is the order resolved from the header.
func (t *Tree) ByteOrder() binary.ByteOrder {
	return t.order
}

// Walk visits every block depth-first in position order.
func (t *Tree) Walk(fn func(*Block) bool) {
	for _, b := range t.Blocks {
		b.Walk(fn)
	}
}

// Count is the total number of blocks at every depth.
func (t *Tree) Count() int {
	n := 0
	for _, b := range t.Blocks {
		n += b.Count()
	}
	return n
}

// BlockAt returns the top-level block containing offset.
func (t *Tree) BlockAt(offset int) *Block {
	return blockAt(t.Blocks, offset)
}

// Decode dispatches b through the registry using the tree's byte order.
func (t *Tree) Decode(r *Registry, b *Block) Decoding {
	return r.Decode(b, t.order)
}

// Parse validates the header and builds the block tree. Only a header
// mismatch is an error; everything after the header is best effort and
// problems are reported through Tree.Anomalies.
func Parse(data []byte, opts Options) (*Tree, error) {
	hdr, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	p := &parser{
		data:  data,
		order: hdr.ByteOrder(),
		opts:  opts,
		tree: &Tree{
			Header: hdr,
			Size:   len(data),
			order:  hdr.ByteOrder(),
		},
	}
	p.scanTopLevel()
	return p.tree, nil
}

// ReadBlockAt reads the block whose marker is at offset, with its children,
// without scanning the rest of data. The block must end at or before upper;
// pass len(data) for a top-level block. Anomalies found inside the block are
// only reported through opts.Logger.
func ReadBlockAt(data []byte, order binary.ByteOrder, offset, upper int, opts Options) (*Block, bool) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	p := &parser{
		data:  data,
		order: order,
		opts:  opts,
		tree:  &Tree{Size: len(data), order: order},
	}
	return p.readBlockAt(offset, min(upper, len(data)), 0)
}

type parser struct {
	data  []byte
	order binary.ByteOrder
	opts  Options
	tree  *Tree
}

type blockHeader struct {
	typ         BlockType
	size        uint32
	contentType ContentType
}

// headerAt decodes and validates the block header at off. The whole block
// must fit below upper.
func (p *parser) headerAt(off, upper int) (blockHeader, bool) {
	if off < 0 || off >= upper || p.data[off] != Marker {
		return blockHeader{}, false
	}
	if off+BlockHeaderSize+contentTypeSize > upper {
		return blockHeader{}, false
	}
	h := blockHeader{
		typ:         BlockType(p.order.Uint16(p.data[off+1:])),
		size:        p.order.Uint32(p.data[off+3:]),
		contentType: ContentType(p.order.Uint16(p.data[off+BlockHeaderSize:])),
	}
	if p.opts.Strict && h.typ > 0xff {
		return blockHeader{}, false
	}
	if h.size < contentTypeSize {
		return blockHeader{}, false
	}
	if int64(off)+BlockHeaderSize+int64(h.size) > int64(upper) {
		return blockHeader{}, false
	}
	return h, true
}

// readBlockAt builds the block at off together with its children.
func (p *parser) readBlockAt(off, upper, depth int) (*Block, bool) {
	h, ok := p.headerAt(off, upper)
	if !ok {
		return nil, false
	}
	end := off + BlockHeaderSize + int(h.size)
	b := &Block{
		Position:    off,
		Type:        h.typ,
		Size:        h.size,
		ContentType: h.contentType,
		Depth:       depth,
		Content:     p.data[off+BlockHeaderSize : end : end],
	}
	if depth+1 >= p.opts.MaxDepth {
		if _, found := FindNextMarker(p.data, b.ContentStart(), end); found {
			p.anomaly(AnomalyDepthLimit, off, fmt.Sprintf("content of block %s left unscanned at depth %d", h.contentType, depth))
		}
		return b, true
	}
	p.scanChildren(b)
	return b, true
}

// scanChildren finds child blocks inside b's content. A marker byte that does
// not start a valid block is skipped one byte at a time so that payload data
// cannot desynchronise the rest of the parent.
func (p *parser) scanChildren(b *Block) {
	end := b.End()
	pos, ok := FindNextMarker(p.data, b.ContentStart(), end)
	for ok {
		child, valid := p.readBlockAt(pos, end, b.Depth+1)
		if valid {
			b.Children = append(b.Children, child)
			pos += child.TotalSize()
		} else {
			p.tree.Resyncs++
			if p.opts.Logger != nil {
				p.opts.Logger.Debug("resync", "offset", pos, "parent", b.Position)
			}
			pos++
		}
		pos, ok = FindNextMarker(p.data, pos, end)
	}
}

func (p *parser) scanTopLevel() {
	if len(p.data) <= minHeaderSize {
		return
	}
	off := p.firstBlockOffset()
	for off < len(p.data) {
		b, ok := p.readBlockAt(off, len(p.data), 0)
		if !ok {
			p.anomaly(AnomalyUnfinished, off, p.unfinishedDetail(off))
			p.tree.Trailing = p.data[off:len(p.data):len(p.data)]
			p.tree.TrailingOffset = off
			break
		}
		p.tree.Blocks = append(p.tree.Blocks, b)
		off += b.TotalSize()
	}
}

func (p *parser) unfinishedDetail(off int) string {
	if p.data[off] != Marker {
		return "no marker"
	}
	if off+BlockHeaderSize <= len(p.data) {
		size := int64(p.order.Uint32(p.data[off+3:]))
		left := int64(len(p.data) - off - BlockHeaderSize)
		if size > left {
			return fmt.Sprintf("declared size %d runs past end of session (%d bytes left)", size, left)
		}
	}
	return "invalid block header"
}

// firstBlockOffset returns HeaderSize unless the first block only decodes
// when the two unclassified header bytes are missing.
func (p *parser) firstBlockOffset() int {
	if _, ok := p.headerAt(HeaderSize, len(p.data)); ok {
		return HeaderSize
	}
	for off := minHeaderSize; off < HeaderSize; off++ {
		if _, ok := p.headerAt(off, len(p.data)); ok {
			p.anomaly(AnomalyShortHeader, off, fmt.Sprintf("first block at %d instead of %d", off, HeaderSize))
			return off
		}
	}
	return min(HeaderSize, len(p.data))
}

func (p *parser) anomaly(kind AnomalyKind, off int, detail string) {
	a := Anomaly{Kind: kind, Offset: off, Detail: detail}
	p.tree.Anomalies = append(p.tree.Anomalies, a)
	if p.opts.Logger != nil {
		p.opts.Logger.Warn(kind.String(), "offset", off, "detail", detail)
	}
}
