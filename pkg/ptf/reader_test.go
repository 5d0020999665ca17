package ptf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zamaudio/ptformat/internal/ptftest"
)

func TestOpenMapsPlainSession(t *testing.T) {
	t.Parallel()

	data := ptftest.BE().Sample()
	path := filepath.Join(t.TempDir(), "session.ptf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			t.Fatalf("close: %v", cerr)
		}
	}()
	if f.Descrambled {
		t.Fatalf("plain session marked descrambled")
	}
	if !bytes.Equal(f.Data, data) {
		t.Fatalf("data mismatch")
	}
	if !f.Tree.Header.BigEndian || len(f.Tree.Blocks) != 5 {
		t.Fatalf("tree: big-endian %v blocks %d", f.Tree.Header.BigEndian, len(f.Tree.Blocks))
	}
}

func TestOpenDescramblesRawSession(t *testing.T) {
	t.Parallel()

	plain := plainSession()
	raw := scramble(t, plain, 0x00, 0x2d, nil)
	path := filepath.Join(t.TempDir(), "session.ptf")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()
	if !f.Descrambled || !bytes.Equal(f.Data, plain) {
		t.Fatalf("raw session not descrambled")
	}
	if f.mapping != nil {
		t.Fatalf("mapping kept after descrambling")
	}

	opts := DefaultOptions()
	opts.Descramble = false
	if _, err := Open(path, opts); !errors.Is(err, ErrInvalidBitcode) {
		t.Fatalf("open without descrambling: got %v", err)
	}
}

func TestOpenReaderAt(t *testing.T) {
	t.Parallel()

	data := ptftest.LE().Sample()
	f, err := OpenReaderAt(bytes.NewReader(data), int64(len(data)), DefaultOptions())
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	if f.mapping != nil {
		t.Fatalf("OpenReaderAt should not mmap")
	}
	if f.Tree.Count() != 6 {
		t.Fatalf("blocks: got %d want 6", f.Tree.Count())
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := OpenReaderAt(bytes.NewReader(data), -1, DefaultOptions()); err == nil {
		t.Fatalf("negative size accepted")
	}
	if _, err := OpenReaderAt(bytes.NewReader(data[:10]), 20, DefaultOptions()); err == nil {
		t.Fatalf("short reader accepted")
	}
}

func TestOpenMissingAndTiny(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "missing.ptf"), DefaultOptions()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing: got %v", err)
	}
	tiny := filepath.Join(dir, "tiny.ptf")
	if err := os.WriteFile(tiny, []byte{0x03, '0'}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(tiny, DefaultOptions()); !errors.Is(err, ErrShortHeader) {
		t.Fatalf("tiny: got %v", err)
	}
}
