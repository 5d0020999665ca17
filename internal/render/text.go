package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/zamaudio/ptformat/pkg/ptf"
)

type textStyle struct {
	heading, label, warn, muted *color.Color
}

func newTextStyle(enabled bool) textStyle {
	s := textStyle{
		heading: color.New(color.FgCyan, color.Bold),
		label:   color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		muted:   color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{s.heading, s.label, s.warn, s.muted} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// textWriter accumulates the first write error so rendering code can stay
// linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) line(indent int, s string) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, "%s%s\n", strings.Repeat("  ", indent), s)
}

// Text writes the session overview followed by the nested block description.
func Text(w io.Writer, src Source, opts Options) error {
	tw := &textWriter{w: w}
	st := newTextStyle(opts.Color)
	tree := src.Tree
	reg := opts.registry()

	if src.Name != "" {
		tw.line(0, st.heading.Sprint(src.Name))
	}
	tw.line(0, "bitcode "+tree.Header.Bitcode)
	tw.line(0, "byte order "+tree.Header.ByteOrderName())
	if src.Descrambled {
		tw.line(0, "descrambled yes")
	}
	tw.line(0, fmt.Sprintf("number of top level blocks %d", len(tree.Blocks)))
	tw.line(0, fmt.Sprintf("total amount of blocks %d", tree.Count()))
	writeSummary(tw, st, ptf.Summarize(tree, reg))

	tw.line(0, "Description:")
	tree.Walk(func(b *ptf.Block) bool {
		writeBlock(tw, st, tree, b, opts)
		return true
	})
	if tw.err != nil {
		return tw.err
	}
	if err := WriteAnomalies(w, tree, opts.Color); err != nil {
		return err
	}
	return WriteTrailing(w, tree, opts.hexWidth())
}

func writeSummary(tw *textWriter, st textStyle, s ptf.Summary) {
	if s.Empty() {
		return
	}
	kv := func(k, v string) {
		if v != "" {
			tw.line(0, st.label.Sprint(k+":")+" "+v)
		}
	}
	kv("product", strings.TrimSpace(s.Product+" "+s.Version))
	kv("operating system", s.OperatingSystem)
	if s.SampleRate != 0 {
		kv("sample rate", fmt.Sprintf("%d Hz, %d bit", s.SampleRate, s.BitDepth))
	}
	kv("session", s.SessionPath)
	for _, f := range s.AudioFiles {
		kv("audio file", f.String())
	}
}

// BlockLines renders the heading, decoded fields and hex rows of one block
// without its children.
func BlockLines(tree *ptf.Tree, b *ptf.Block, opts Options) []string {
	d := tree.Decode(opts.registry(), b)
	heading := fmt.Sprintf("Content type %s %s", b.ContentType, d.Description)
	lines := []string{
		fmt.Sprintf("Block type %s (%d)", b.Type.Hex(), b.Type),
		fmt.Sprintf("Block size %d", b.Size),
		strings.TrimRight(heading, " "),
	}
	for _, f := range d.Fields {
		lines = append(lines, f.String())
	}
	width := opts.hexWidth()
	switch {
	case d.Mode == ptf.ModeRaw || opts.FullHex:
		lines = append(lines, HexDump(b.Content, width)...)
	case !d.Complete:
		lines = append(lines, fmt.Sprintf("(incomplete at offset %d: %v)", d.RawOffset, d.Err))
		lines = append(lines, HexDump(d.Raw, width)...)
	case len(d.Raw) > 0:
		lines = append(lines, fmt.Sprintf("(%d trailing bytes at offset %d)", len(d.Raw), d.RawOffset))
		lines = append(lines, HexDump(d.Raw, width)...)
	}
	return lines
}

func writeBlock(tw *textWriter, st textStyle, tree *ptf.Tree, b *ptf.Block, opts Options) {
	lines := BlockLines(tree, b, opts)
	for i, l := range lines {
		if i < 3 {
			l = st.heading.Sprint(l)
		}
		tw.line(b.Depth, l)
	}
}

// WriteTrailing dumps the bytes after the last top-level block that could
// be read, if any.
func WriteTrailing(w io.Writer, tree *ptf.Tree, width int) error {
	if len(tree.Trailing) == 0 {
		return nil
	}
	tw := &textWriter{w: w}
	tw.line(0, fmt.Sprintf("%d unparsed bytes at offset %d", len(tree.Trailing), tree.TrailingOffset))
	for _, row := range HexDump(tree.Trailing, width) {
		tw.line(1, row)
	}
	return tw.err
}

// WriteAnomalies lists the structural problems of tree, if any.
func WriteAnomalies(w io.Writer, tree *ptf.Tree, colored bool) error {
	if len(tree.Anomalies) == 0 && tree.Resyncs == 0 {
		return nil
	}
	st := newTextStyle(colored)
	tw := &textWriter{w: w}
	if tree.Resyncs > 0 {
		tw.line(0, st.muted.Sprintf("resynchronised %d times inside block content", tree.Resyncs))
	}
	for _, a := range tree.Anomalies {
		tw.line(0, st.warn.Sprint("warning: "+a.String()))
	}
	return tw.err
}
