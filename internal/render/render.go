// Package render turns parsed sessions into text, JSON, YAML and tables.
package render

import (
	"github.com/zamaudio/ptformat/pkg/ptf"
)

// DefaultHexWidth is the number of bytes per hex dump row.
const DefaultHexWidth = 24

// Source is one parsed session and where it came from.
type Source struct {
	Name        string
	Tree        *ptf.Tree
	Descrambled bool
}

// Options shared by all renderers.
type Options struct {
	Registry *ptf.Registry
	// FullHex keeps the hex dump of decoded blocks next to their fields.
	FullHex  bool
	HexWidth int
	Color    bool
}

func (o Options) registry() *ptf.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return ptf.DefaultRegistry()
}

func (o Options) hexWidth() int {
	if o.HexWidth > 0 {
		return o.HexWidth
	}
	return DefaultHexWidth
}
