package ptf

import (
	"encoding/binary"
	"fmt"
	"slices"
	"sync"
)

// Parser decodes content types whose shape a flat layout cannot express. It
// sees the whole block, children included.
type Parser func(b *Block, order binary.ByteOrder) ([]Field, error)

// Entry is the registry record for one content type. Parser takes precedence
// over Layout; an entry with neither only names the content type.
type Entry struct {
	Description string
	Layout      Layout
	Parser      Parser
}

// Mode is the decoding path the entry selects.
func (e Entry) Mode() DecodeMode {
	switch {
	case e.Parser != nil:
		return ModeCustom
	case len(e.Layout) > 0:
		return ModeLayout
	default:
		return ModeRaw
	}
}

// DecodeMode is the path a block took through the registry.
type DecodeMode int

const (
	ModeRaw DecodeMode = iota
	ModeLayout
	ModeCustom
)

func (m DecodeMode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeLayout:
		return "layout"
	case ModeCustom:
		return "custom"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Decoding is the registry's view of one block payload.
type Decoding struct {
	Mode        DecodeMode
	Description string
	Fields      []Field
	// Complete is false when a layout or parser failed part way. Fields then
	// holds what was decoded before the failure.
	Complete bool
	Err      error
	// Raw holds the content bytes no field accounts for: everything for raw
	// blocks, the rest after a failed field, or trailing bytes after a full
	// layout decode. RawOffset is its offset within the content.
	Raw       []byte
	RawOffset int
}

// Registry maps content types to decoding directives. It is immutable once
// built and safe for concurrent use.
type Registry struct {
	entries map[ContentType]Entry
}

// NewRegistry copies entries into a new registry.
func NewRegistry(entries map[ContentType]Entry) *Registry {
	m := make(map[ContentType]Entry, len(entries))
	for ct, e := range entries {
		m[ct] = e
	}
	return &Registry{entries: m}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return NewRegistry(defaultEntries())
})

// DefaultRegistry returns the process-wide registry of known content types.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

func (r *Registry) Lookup(ct ContentType) (Entry, bool) {
	e, ok := r.entries[ct]
	return e, ok
}

// Describe returns the description of ct, or "" when it is unknown.
func (r *Registry) Describe(ct ContentType) string {
	return r.entries[ct].Description
}

// ContentTypes lists the registered codes in ascending order.
func (r *Registry) ContentTypes() []ContentType {
	out := make([]ContentType, 0, len(r.entries))
	for ct := range r.entries {
		out = append(out, ct)
	}
	slices.Sort(out)
	return out
}

// Len is the number of registered content types.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Decode runs exactly one of the custom parser, the layout decoder or the raw
// fallback for b.
func (r *Registry) Decode(b *Block, order binary.ByteOrder) Decoding {
	e, _ := r.Lookup(b.ContentType)
	d := Decoding{
		Mode:        e.Mode(),
		Description: e.Description,
	}
	switch d.Mode {
	case ModeCustom:
		fields, err := runParser(e.Parser, b, order)
		d.Fields = fields
		d.Err = err
		d.Complete = err == nil
		if err != nil {
			d.Raw = b.Content
		}
	case ModeLayout:
		fields, n, err := DecodeLayout(b.Content, e.Layout, order)
		d.Fields = fields
		d.Err = err
		d.Complete = err == nil
		if n < len(b.Content) {
			d.Raw = b.Content[n:]
			d.RawOffset = n
		}
	default:
		d.Complete = true
		d.Raw = b.Content
	}
	return d
}

func runParser(p Parser, b *Block, order binary.ByteOrder) (fields []Field, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parser for %s panicked: %v", b.ContentType, rec)
		}
	}()
	return p(b, order)
}
