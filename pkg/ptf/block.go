package ptf

import "sort"

// Block is one tagged unit of the container. Content and Children are views
// into the parsed buffer and must not be modified.
type Block struct {
	Position    int
	Type        BlockType
	Size        uint32
	ContentType ContentType
	Depth       int
	// Content covers [Position+7, Position+7+Size). Its first two bytes hold
	// the content type.
	Content  []byte
	Children []*Block
}

// TotalSize is the block header plus the declared content size.
func (b *Block) TotalSize() int {
	return BlockHeaderSize + int(b.Size)
}

// ContentStart is the buffer offset of the first content byte.
func (b *Block) ContentStart() int {
	return b.Position + BlockHeaderSize
}

// End is the offset one past the last byte of the block.
func (b *Block) End() int {
	return b.Position + b.TotalSize()
}

// Contains reports whether offset falls inside the block, header included.
func (b *Block) Contains(offset int) bool {
	return offset >= b.Position && offset < b.End()
}

// Child returns the first direct child with the given content type.
func (b *Block) Child(ct ContentType) *Block {
	for _, c := range b.Children {
		if c.ContentType == ct {
			return c
		}
	}
	return nil
}

// ChildAt returns the direct child containing offset.
func (b *Block) ChildAt(offset int) *Block {
	return blockAt(b.Children, offset)
}

// Walk visits b and its descendants depth-first in position order. Returning
// false from fn skips the descendants of that block.
func (b *Block) Walk(fn func(*Block) bool) {
	if !fn(b) {
		return
	}
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// Count is the number of blocks in the subtree rooted at b.
func (b *Block) Count() int {
	n := 1
	for _, c := range b.Children {
		n += c.Count()
	}
	return n
}

// blockAt finds the block containing offset in a position-ordered,
// non-overlapping slice.
func blockAt(blocks []*Block, offset int) *Block {
	i := sort.Search(len(blocks), func(i int) bool {
		return blocks[i].End() > offset
	})
	if i < len(blocks) && blocks[i].Contains(offset) {
		return blocks[i]
	}
	return nil
}
