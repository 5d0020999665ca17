package ptf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// File is a parsed session together with the buffer backing it.
type File struct {
	Data []byte
	Tree *Tree
	// Descrambled is set when Data was produced by Unxor rather than read
	// as is.
	Descrambled bool

	mapping []byte
}

const maxInt = int64(int(^uint(0) >> 1))

// Open maps a session read-only and parses it. When mmap is unavailable it
// falls back to ReadAt-based loading. A scrambled session is descrambled into
// memory when opts.Descramble is set; the mapping is released right away in
// that case. The returned file must be closed.
func Open(path string, opts Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > maxInt {
		return nil, fmt.Errorf("%s: %d bytes cannot be indexed", path, size64)
	}
	size := int(size64)
	if size < minHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortHeader, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		sf, parseErr := load(data, opts)
		if parseErr != nil || sf.Descrambled {
			_ = unix.Munmap(data)
			return sf, parseErr
		}
		sf.mapping = data
		return sf, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return load(data, opts)
}

// OpenReaderAt loads and parses a session from a random-access reader
// without mmap.
func OpenReaderAt(r io.ReaderAt, size int64, opts Options) (*File, error) {
	if size < 0 || size > maxInt {
		return nil, fmt.Errorf("session size %d out of range", size)
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return load(data, opts)
}

// Load parses an in-memory session, descrambling it first when opts allow.
func Load(data []byte, opts Options) (*File, error) {
	return load(data, opts)
}

func load(data []byte, opts Options) (*File, error) {
	plain, descrambled := data, false
	if opts.Descramble {
		var err error
		plain, descrambled, err = Prepare(data, opts.Tables)
		if err != nil {
			return nil, err
		}
	}
	tree, err := Parse(plain, opts)
	if err != nil {
		return nil, err
	}
	return &File{Data: plain, Tree: tree, Descrambled: descrambled}, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Close releases the mapping, if any. Blocks from the tree must not be used
// afterwards.
func (f *File) Close() error {
	if f == nil || f.mapping == nil {
		return nil
	}
	err := unix.Munmap(f.mapping)
	f.mapping = nil
	f.Data = nil
	f.Tree = nil
	return err
}
