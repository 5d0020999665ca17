package ptf

import (
	"cmp"
	"slices"
)

// TypeStats aggregates the blocks of one content type.
type TypeStats struct {
	ContentType ContentType `json:"content_type" yaml:"content_type"`
	Hex         string      `json:"hex" yaml:"hex"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Count       int         `json:"count" yaml:"count"`
	Bytes       int         `json:"bytes" yaml:"bytes"`
	Decoded     int         `json:"decoded" yaml:"decoded"`
	Partial     int         `json:"partial" yaml:"partial"`
	Raw         int         `json:"raw" yaml:"raw"`
}

// Stats summarises a parsed tree.
type Stats struct {
	TopLevel  int         `json:"top_level_blocks" yaml:"top_level_blocks"`
	Total     int         `json:"total_blocks" yaml:"total_blocks"`
	MaxDepth  int         `json:"max_depth" yaml:"max_depth"`
	Resyncs   int         `json:"resyncs" yaml:"resyncs"`
	Anomalies int         `json:"anomalies" yaml:"anomalies"`
	Trailing  int         `json:"trailing_bytes" yaml:"trailing_bytes"`
	Types     []TypeStats `json:"content_types" yaml:"content_types"`
}

// CollectStats counts blocks per content type and classifies how each one
// decodes through r. Types are ordered by count, then by code.
func CollectStats(t *Tree, r *Registry) Stats {
	s := Stats{
		TopLevel:  len(t.Blocks),
		Resyncs:   t.Resyncs,
		Anomalies: len(t.Anomalies),
		Trailing:  len(t.Trailing),
	}
	byType := make(map[ContentType]*TypeStats)
	t.Walk(func(b *Block) bool {
		s.Total++
		s.MaxDepth = max(s.MaxDepth, b.Depth)
		ts, ok := byType[b.ContentType]
		if !ok {
			ts = &TypeStats{
				ContentType: b.ContentType,
				Hex:         b.ContentType.Hex(),
				Description: r.Describe(b.ContentType),
			}
			byType[b.ContentType] = ts
		}
		ts.Count++
		ts.Bytes += b.TotalSize()
		d := t.Decode(r, b)
		switch {
		case d.Mode == ModeRaw:
			ts.Raw++
		case d.Complete:
			ts.Decoded++
		default:
			ts.Partial++
		}
		return true
	})
	s.Types = make([]TypeStats, 0, len(byType))
	for _, ts := range byType {
		s.Types = append(s.Types, *ts)
	}
	slices.SortFunc(s.Types, func(a, b TypeStats) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.ContentType, b.ContentType)
	})
	return s
}
