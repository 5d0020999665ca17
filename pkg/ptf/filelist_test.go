package ptf

import (
	"errors"
	"testing"

	"github.com/zamaudio/ptformat/internal/ptftest"
)

func TestParseAudioFileListPaths(t *testing.T) {
	t.Parallel()

	for _, e := range []ptftest.Encoder{ptftest.LE(), ptftest.BE()} {
		block := e.AudioFiles(4,
			e.Dir(0, "Macintosh HD"),
			e.Dir(1, "Sessions"),
			e.File(0x57415645, "one.wav"),
			e.File(0x57415645, "two.wav"),
			e.Dir(2, "Imported"),
			e.File(0x41494646, "three.aif"),
			e.Dir(3, "Other"),
			e.Dir(4, "Nested"),
			e.File(0, "four.wav"),
		)
		tree, err := Parse(e.Session(block), DefaultOptions())
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		list := tree.Blocks[0].Child(ContentAudioFileList)
		if list == nil {
			t.Fatalf("file list child missing")
		}
		refs, err := ParseAudioFileList(list.Content, tree.ByteOrder())
		if err != nil {
			t.Fatalf("parse list: %v", err)
		}
		want := []FileRef{
			{Path: "Macintosh HD/Sessions/one.wav", FileType: 0x57415645},
			{Path: "Macintosh HD/Sessions/two.wav", FileType: 0x57415645},
			{Path: "Imported/three.aif", FileType: 0x41494646},
			{Path: "Other/Nested/four.wav", FileType: 0},
		}
		if len(refs) != len(want) {
			t.Fatalf("refs: got %v want %v", refs, want)
		}
		for i := range want {
			if refs[i] != want[i] {
				t.Fatalf("ref %d: got %+v want %+v", i, refs[i], want[i])
			}
		}
		if got := refs[0].TypeTag(); got != "WAVE" {
			t.Fatalf("type tag: got %q want WAVE", got)
		}
		if got := refs[3].TypeTag(); got != "" {
			t.Fatalf("type tag of zero: got %q", got)
		}
	}
}

func TestParseAudioFileListStops(t *testing.T) {
	t.Parallel()

	e := ptftest.LE()
	prefix := ptftest.Concat(e.U16(uint16(ContentAudioFileList)), e.U32(0))

	t.Run("unknown discriminator", func(t *testing.T) {
		t.Parallel()
		content := ptftest.Concat(prefix, e.File(1, "a.wav"), []byte{0x07}, e.File(1, "b.wav"))
		refs, err := ParseAudioFileList(content, e.Order)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(refs) != 1 || refs[0].Path != "/a.wav" {
			t.Fatalf("refs: got %v", refs)
		}
	})

	t.Run("end of content", func(t *testing.T) {
		t.Parallel()
		content := ptftest.Concat(prefix, e.Dir(0, "d"), e.File(1, "a.wav"))
		refs, err := ParseAudioFileList(content, e.Order)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if len(refs) != 1 || refs[0].Path != "d/a.wav" {
			t.Fatalf("refs: got %v", refs)
		}
	})

	t.Run("truncated name", func(t *testing.T) {
		t.Parallel()
		file := e.File(1, "b.wav")
		content := ptftest.Concat(prefix, e.File(1, "a.wav"), file[:len(file)-7])
		refs, err := ParseAudioFileList(content, e.Order)
		if !errors.Is(err, ErrShortContent) {
			t.Fatalf("err: got %v want ErrShortContent", err)
		}
		if len(refs) != 1 {
			t.Fatalf("refs before truncation: got %v", refs)
		}
	})

	t.Run("no prefix", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseAudioFileList([]byte{0x3a, 0x10}, e.Order); !errors.Is(err, ErrShortContent) {
			t.Fatalf("err: got %v want ErrShortContent", err)
		}
	})
}

func TestAudioFilesWithoutList(t *testing.T) {
	t.Parallel()

	e := ptftest.LE()
	tree, err := Parse(e.Session(e.Block(2, uint16(ContentAudioFiles), e.U32(0))), DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	d := tree.Decode(DefaultRegistry(), tree.Blocks[0])
	if !d.Complete || len(d.Fields) != 1 {
		t.Fatalf("decoding: %+v", d)
	}
}
