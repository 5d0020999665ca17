package render

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/zamaudio/ptformat/internal/ptftest"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

func sampleSource(t *testing.T, data []byte) Source {
	t.Helper()
	tree, err := ptf.Parse(data, ptf.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return Source{Name: "sample.ptf", Tree: tree}
}

func TestHexDump(t *testing.T) {
	t.Parallel()

	data := make([]byte, 30)
	for i := range data {
		data[i] = byte('A' + i)
	}
	data[1] = 0x00
	rows := HexDump(data, 24)
	if len(rows) != 2 {
		t.Fatalf("rows: got %d want 2", len(rows))
	}
	if !strings.HasPrefix(rows[0], "41 00 43 ") {
		t.Fatalf("row 0: %q", rows[0])
	}
	if !strings.HasSuffix(rows[0], hexDivider+"A.CDEFGHIJKLMNOPQRSTUVWX") {
		t.Fatalf("row 0 ascii: %q", rows[0])
	}
	if len(rows[1]) != 24*3+len(hexDivider)+6 {
		t.Fatalf("row 1 not padded: %q", rows[1])
	}
	if got := HexDump(nil, 24); len(got) != 0 {
		t.Fatalf("empty input: got %v", got)
	}
	if got := HexDump([]byte{1, 2, 3}, 0); len(got) != 1 {
		t.Fatalf("default width: got %v", got)
	}
}

func TestTextSample(t *testing.T) {
	t.Parallel()

	src := sampleSource(t, ptftest.LE().Sample())
	var buf bytes.Buffer
	if err := Text(&buf, src, Options{}); err != nil {
		t.Fatalf("text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"sample.ptf\n",
		"byte order little-endian\n",
		"number of top level blocks 5\n",
		"total amount of blocks 6\n",
		"product: ProTools 12.8.0\n",
		"sample rate: 48000 Hz, 24 bit\n",
		"session: Users/me/Sessions/song.ptx\n",
		"Description:\n",
		"Block type 0x0300 (3)\n",
		"Content type 0x0300 (3) product info, including version\n",
		"Product name: \t ProTools\n",
		"audio file: \t path: Audio Files/kick.wav, fileType: 1463899717 (WAVE)\n",
		"  Block type 0x0100 (1)\n",
		"  Content type 0x3a10 (4154) audio file list\n",
		"Content type 0x9909 (2457)\n",
		"99 09 01 5a ff ff 02 ",
		hexDivider + "...Z...\n",
		"resynchronised 1 times",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colour codes without colour")
	}
	// decoded blocks show no hex unless asked
	if strings.Contains(out, "03 00 00 08 00 00 00") {
		t.Fatalf("product info hex shown without full hex")
	}

	buf.Reset()
	if err := Text(&buf, src, Options{FullHex: true, HexWidth: 8}); err != nil {
		t.Fatalf("text: %v", err)
	}
	if !strings.Contains(buf.String(), "03 00 00 08 00 00 00 50 "+hexDivider+"....") {
		t.Fatalf("full hex missing product info dump:\n%s", buf.String())
	}
}

func TestTextIncompleteAndAnomalies(t *testing.T) {
	t.Parallel()

	e := ptftest.LE()
	data := ptftest.Concat(e.ShortHeader(), e.RawBlock(2, 4, []byte{0x03, 0x00, 0xaa, 0xbb}), []byte{0x00})
	src := sampleSource(t, data)
	var buf bytes.Buffer
	if err := Text(&buf, src, Options{Color: true}); err != nil {
		t.Fatalf("text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"unknown: \t 170",
		"(incomplete at offset 3: ",
		"bb ",
		"warning: short header at 18",
		"warning: unfinished block at 29: no marker",
		"\x1b[",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestReportJSONAndYAML(t *testing.T) {
	t.Parallel()

	src := sampleSource(t, ptftest.BE().Sample())
	r := BuildReport(src, Options{})
	if r.ID == "" || r.Header.ByteOrder != "big-endian" || len(r.Blocks) != 5 {
		t.Fatalf("report: id %q order %s blocks %d", r.ID, r.Header.ByteOrder, len(r.Blocks))
	}
	if other := BuildReport(src, Options{}); other.ID == r.ID || other.Fingerprint != r.Fingerprint {
		t.Fatalf("ids must differ and fingerprints match")
	}
	files := r.Blocks[3]
	if files.Decoding != "custom" || len(files.Children) != 1 || files.Raw != "" {
		t.Fatalf("audio files block: %+v", files)
	}
	unknown := r.Blocks[4]
	if unknown.Decoding != "raw" || unknown.Raw != "0999015affff02" {
		t.Fatalf("raw block: decoding %s raw %q", unknown.Decoding, unknown.Raw)
	}

	var jbuf bytes.Buffer
	if err := JSON(&jbuf, r); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded struct {
		ID      string `json:"id"`
		Summary struct {
			SampleRate int `json:"sample_rate"`
			AudioFiles []struct {
				Path string `json:"path"`
			} `json:"audio_files"`
		} `json:"summary"`
		Blocks []struct {
			ContentTypeHex string `json:"content_type_hex"`
			Fields         []struct {
				Name  string `json:"name"`
				Value any    `json:"value"`
			} `json:"fields"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal(jbuf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != r.ID || decoded.Summary.SampleRate != 48000 || len(decoded.Summary.AudioFiles) != 2 {
		t.Fatalf("json round trip: %+v", decoded)
	}
	if decoded.Blocks[0].ContentTypeHex != "0x0300" || decoded.Blocks[0].Fields[1].Value != "ProTools" {
		t.Fatalf("json product block: %+v", decoded.Blocks[0])
	}

	var ybuf bytes.Buffer
	if err := YAML(&ybuf, r, r); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	dec := yaml.NewDecoder(&ybuf)
	docs := 0
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			break
		}
		if doc["id"] != r.ID {
			t.Fatalf("yaml doc id: got %v", doc["id"])
		}
		docs++
	}
	if docs != 2 {
		t.Fatalf("yaml documents: got %d want 2", docs)
	}
}

func TestTables(t *testing.T) {
	t.Parallel()

	src := sampleSource(t, ptftest.LE().Sample())
	var buf bytes.Buffer
	StatsTable(&buf, "sample.ptf", ptf.CollectStats(src.Tree, ptf.DefaultRegistry()))
	out := buf.String()
	for _, want := range []string{"sample.ptf", "0x0410", "audio content list", "5 / 6", "resyncs 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("stats table missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	TypesTable(&buf, ptf.DefaultRegistry())
	for _, want := range []string{"0x6720", "session info, path of session", "layout", "custom"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("types table missing %q", want)
		}
	}

	buf.Reset()
	ix := ptf.NewIndex(src.Tree)
	list := src.Tree.Blocks[3].Children[0]
	ChainTable(&buf, list.Position+9, ix.Locate(list.Position+9), ptf.DefaultRegistry())
	if !strings.Contains(buf.String(), "0x3a10") || !strings.Contains(buf.String(), "0x0410") {
		t.Fatalf("chain table:\n%s", buf.String())
	}
}

func TestTruncatedLastBlockShownRaw(t *testing.T) {
	t.Parallel()

	e := ptftest.LE()
	first := e.Block(1, 0x2511, e.U32(9))
	second := e.Block(1, 0x1003, e.Block(1, 0x1001, []byte("CHILDPAYLOAD")), []byte("SECONDPAYLOAD"))
	full := e.Session(first, second)
	src := sampleSource(t, full[:len(full)-4])
	off := ptf.HeaderSize + len(first)

	var buf bytes.Buffer
	if err := Text(&buf, src, Options{HexWidth: 256}); err != nil {
		t.Fatalf("text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		fmt.Sprintf("unparsed bytes at offset %d", off),
		"CHILDPAYLOAD",
		"SECONDPAYL",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	r := BuildReport(src, Options{})
	if r.Trailing == nil || r.Trailing.Offset != off {
		t.Fatalf("trailing report: got %+v want offset %d", r.Trailing, off)
	}
	if !strings.Contains(r.Trailing.Raw, hex.EncodeToString([]byte("CHILDPAYLOAD"))) {
		t.Fatalf("trailing raw lacks child payload: %s", r.Trailing.Raw)
	}
	if r.Stats.Trailing != len(src.Tree.Trailing) {
		t.Fatalf("stats trailing: got %d want %d", r.Stats.Trailing, len(src.Tree.Trailing))
	}
}
