package render

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/zamaudio/ptformat/pkg/ptf"
)

// Report is the machine-readable form of a parsed session.
type Report struct {
	ID          string          `json:"id" yaml:"id"`
	Source      string          `json:"source,omitempty" yaml:"source,omitempty"`
	Header      HeaderReport    `json:"header" yaml:"header"`
	Descrambled bool            `json:"descrambled" yaml:"descrambled"`
	Fingerprint string          `json:"fingerprint" yaml:"fingerprint"`
	Summary     ptf.Summary     `json:"summary" yaml:"summary"`
	Stats       ptf.Stats       `json:"stats" yaml:"stats"`
	Blocks      []BlockReport   `json:"blocks" yaml:"blocks"`
	Anomalies   []AnomalyReport `json:"anomalies,omitempty" yaml:"anomalies,omitempty"`
	Trailing    *TrailingReport `json:"trailing,omitempty" yaml:"trailing,omitempty"`
}

// TrailingReport carries the bytes no top-level block accounts for.
type TrailingReport struct {
	Offset int    `json:"offset" yaml:"offset"`
	Size   int    `json:"size" yaml:"size"`
	Raw    string `json:"raw" yaml:"raw"`
}

type HeaderReport struct {
	Bitcode   string `json:"bitcode" yaml:"bitcode"`
	ByteOrder string `json:"byte_order" yaml:"byte_order"`
	Size      int    `json:"size" yaml:"size"`
}

type BlockReport struct {
	Position       int           `json:"position" yaml:"position"`
	Type           uint16        `json:"type" yaml:"type"`
	TypeHex        string        `json:"type_hex" yaml:"type_hex"`
	Size           uint32        `json:"size" yaml:"size"`
	TotalSize      int           `json:"total_size" yaml:"total_size"`
	ContentType    uint16        `json:"content_type" yaml:"content_type"`
	ContentTypeHex string        `json:"content_type_hex" yaml:"content_type_hex"`
	Description    string        `json:"description,omitempty" yaml:"description,omitempty"`
	Decoding       string        `json:"decoding" yaml:"decoding"`
	Complete       bool          `json:"complete" yaml:"complete"`
	Error          string        `json:"error,omitempty" yaml:"error,omitempty"`
	Fields         []FieldReport `json:"fields,omitempty" yaml:"fields,omitempty"`
	Raw            string        `json:"raw,omitempty" yaml:"raw,omitempty"`
	RawOffset      int           `json:"raw_offset,omitempty" yaml:"raw_offset,omitempty"`
	Checksum       string        `json:"checksum" yaml:"checksum"`
	Children       []BlockReport `json:"children,omitempty" yaml:"children,omitempty"`
}

type FieldReport struct {
	Name   string `json:"name" yaml:"name"`
	Kind   string `json:"kind" yaml:"kind"`
	Offset int    `json:"offset" yaml:"offset"`
	Value  any    `json:"value" yaml:"value"`
}

type AnomalyReport struct {
	Kind   string `json:"kind" yaml:"kind"`
	Offset int    `json:"offset" yaml:"offset"`
	Detail string `json:"detail" yaml:"detail"`
}

// BuildReport decodes every block of src. Raw bytes are included for raw
// blocks, for the undecoded part of other blocks, and for all blocks when
// opts.FullHex is set.
func BuildReport(src Source, opts Options) Report {
	reg := opts.registry()
	tree := src.Tree
	r := Report{
		ID:     uuid.NewString(),
		Source: src.Name,
		Header: HeaderReport{
			Bitcode:   tree.Header.Bitcode,
			ByteOrder: tree.Header.ByteOrderName(),
			Size:      tree.Size,
		},
		Descrambled: src.Descrambled,
		Fingerprint: fmt.Sprintf("%016x", tree.Fingerprint()),
		Summary:     ptf.Summarize(tree, reg),
		Stats:       ptf.CollectStats(tree, reg),
		Blocks:      make([]BlockReport, 0, len(tree.Blocks)),
	}
	for _, b := range tree.Blocks {
		r.Blocks = append(r.Blocks, blockReport(tree, b, reg, opts.FullHex))
	}
	if len(tree.Trailing) > 0 {
		r.Trailing = &TrailingReport{
			Offset: tree.TrailingOffset,
			Size:   len(tree.Trailing),
			Raw:    hex.EncodeToString(tree.Trailing),
		}
	}
	for _, a := range tree.Anomalies {
		r.Anomalies = append(r.Anomalies, AnomalyReport{Kind: a.Kind.String(), Offset: a.Offset, Detail: a.Detail})
	}
	return r
}

func blockReport(tree *ptf.Tree, b *ptf.Block, reg *ptf.Registry, fullHex bool) BlockReport {
	d := tree.Decode(reg, b)
	br := BlockReport{
		Position:       b.Position,
		Type:           uint16(b.Type),
		TypeHex:        b.Type.Hex(),
		Size:           b.Size,
		TotalSize:      b.TotalSize(),
		ContentType:    uint16(b.ContentType),
		ContentTypeHex: b.ContentType.Hex(),
		Description:    d.Description,
		Decoding:       d.Mode.String(),
		Complete:       d.Complete,
		Checksum:       fmt.Sprintf("%016x", b.Checksum()),
	}
	if d.Err != nil {
		br.Error = d.Err.Error()
	}
	for _, f := range d.Fields {
		br.Fields = append(br.Fields, FieldReport{Name: f.Name, Kind: f.Kind.String(), Offset: f.Offset, Value: f.Value})
	}
	switch {
	case fullHex:
		br.Raw = hex.EncodeToString(b.Content)
	case len(d.Raw) > 0:
		br.Raw = hex.EncodeToString(d.Raw)
		br.RawOffset = d.RawOffset
	}
	for _, c := range b.Children {
		br.Children = append(br.Children, blockReport(tree, c, reg, fullHex))
	}
	return br
}

// JSON writes reports as indented JSON: a single object for one report, an
// array otherwise.
func JSON(w io.Writer, reports ...Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	return enc.Encode(reports)
}

// YAML writes reports as a stream of YAML documents.
func YAML(w io.Writer, reports ...Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return enc.Close()
}
