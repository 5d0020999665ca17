package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/zamaudio/ptformat/pkg/ptf"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

// StatsTable prints per content type counts and how they decode.
func StatsTable(w io.Writer, name string, s ptf.Stats) {
	t := newTable(w, name)
	t.AppendHeader(table.Row{"Content type", "Value", "Description", "Blocks", "Bytes", "Decoded", "Partial", "Raw"})
	for _, ts := range s.Types {
		t.AppendRow(table.Row{ts.Hex, uint16(ts.ContentType), ts.Description, ts.Count, ts.Bytes, ts.Decoded, ts.Partial, ts.Raw})
	}
	t.AppendFooter(table.Row{"", "", "top level / total", fmt.Sprintf("%d / %d", s.TopLevel, s.Total), "", "", "", ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
	_, _ = fmt.Fprintf(w, "max depth %d, resyncs %d, anomalies %d, unparsed bytes %d\n", s.MaxDepth, s.Resyncs, s.Anomalies, s.Trailing)
}

// TypesTable lists the registry.
func TypesTable(w io.Writer, reg *ptf.Registry) {
	t := newTable(w, "")
	t.AppendHeader(table.Row{"Content type", "Value", "Decoding", "Fields", "Description"})
	for _, ct := range reg.ContentTypes() {
		e, _ := reg.Lookup(ct)
		fields := ""
		if e.Mode() == ptf.ModeLayout {
			visible := 0
			for _, f := range e.Layout {
				if !f.Omit {
					visible++
				}
			}
			fields = fmt.Sprintf("%d (min %d bytes)", visible, e.Layout.MinSize())
		}
		t.AppendRow(table.Row{ct.Hex(), uint16(ct), e.Mode().String(), fields, e.Description})
	}
	t.Render()
}

// ChainTable prints the blocks containing an offset, outermost first.
func ChainTable(w io.Writer, offset int, chain []*ptf.Block, reg *ptf.Registry) {
	t := newTable(w, fmt.Sprintf("offset %d (0x%x)", offset, offset))
	t.AppendHeader(table.Row{"Depth", "Position", "Block type", "Content type", "Size", "Offset in block", "Description"})
	for _, b := range chain {
		t.AppendRow(table.Row{
			b.Depth, b.Position, b.Type.Hex(), b.ContentType.Hex(), b.Size,
			offset - b.Position, reg.Describe(b.ContentType),
		})
	}
	t.Render()
}
