package ptf

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Checksum is the xxhash of the block content.
func (b *Block) Checksum() uint64 {
	return xxhash.Sum64(b.Content)
}

// Fingerprint digests the header and the shape of the tree: position, type,
// size, content type and depth of every block in walk order, plus the
// anomaly count. Parsing the same bytes with the same options always gives
// the same fingerprint.
func (t *Tree) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	if t.Header.BigEndian {
		put(1)
	} else {
		put(0)
	}
	put(uint64(t.Size))
	t.Walk(func(b *Block) bool {
		put(uint64(b.Position))
		put(uint64(b.Type)<<32 | uint64(b.ContentType))
		put(uint64(b.Size))
		put(uint64(b.Depth))
		return true
	})
	put(uint64(len(t.Anomalies)))
	put(uint64(t.Resyncs))
	return d.Sum64()
}
