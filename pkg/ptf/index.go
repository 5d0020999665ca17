package ptf

import (
	"math"

	"github.com/tidwall/btree"
)

// Index orders every block of a tree by position so that byte offsets can be
// mapped back to the blocks that own them.
type Index struct {
	blocks *btree.BTreeG[*Block]
}

// NewIndex indexes all blocks of t at every depth.
func NewIndex(t *Tree) *Index {
	less := func(a, b *Block) bool {
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Depth < b.Depth
	}
	ix := &Index{blocks: btree.NewBTreeGOptions(less, btree.Options{NoLocks: false})}
	t.Walk(func(b *Block) bool {
		ix.blocks.Set(b)
		return true
	})
	return ix
}

func (ix *Index) Len() int {
	return ix.blocks.Len()
}

// Locate returns the chain of blocks containing offset, outermost first. The
// result is empty when offset lies in the header or outside every block.
func (ix *Index) Locate(offset int) []*Block {
	var chain []*Block
	pivot := &Block{Position: offset, Depth: math.MaxInt}
	// Children start after their parent, so walking down from the pivot
	// meets the innermost containing block first.
	ix.blocks.Descend(pivot, func(b *Block) bool {
		if !b.Contains(offset) {
			// top-level blocks are contiguous; nothing before this one can
			// contain offset either
			return b.Depth > 0
		}
		chain = append(chain, b)
		return b.Depth > 0
	})
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Innermost returns the deepest block containing offset, or nil.
func (ix *Index) Innermost(offset int) *Block {
	chain := ix.Locate(offset)
	if len(chain) == 0 {
		return nil
	}
	return chain[len(chain)-1]
}

// At returns the block whose marker is at position, or nil.
func (ix *Index) At(position int) *Block {
	var found *Block
	ix.blocks.Ascend(&Block{Position: position, Depth: math.MinInt}, func(b *Block) bool {
		if b.Position == position {
			found = b
		}
		return false
	})
	return found
}

// After returns the first block whose marker lies beyond position, or nil.
func (ix *Index) After(position int) *Block {
	var found *Block
	ix.blocks.Ascend(&Block{Position: position + 1, Depth: math.MinInt}, func(b *Block) bool {
		found = b
		return false
	})
	return found
}
