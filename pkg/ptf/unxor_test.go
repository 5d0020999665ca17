package ptf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zamaudio/ptformat/internal/ptftest"
)

// scramble applies the key stream for (c0, c1) to plain. The plain bytes at
// the key offset must be zero so that the scrambled file carries the key.
func scramble(t *testing.T, plain []byte, c0, c1 byte, tables LookupTables) []byte {
	t.Helper()
	key, err := keyStream(c0, c1, tables)
	if err != nil {
		t.Fatalf("key stream: %v", err)
	}
	out := make([]byte, len(plain))
	for i, b := range plain {
		out[i] = b ^ key[i%len(key)]
	}
	if out[keyOffset] != c0 || out[keyOffset+1] != c1 {
		t.Fatalf("scrambled key bytes: got %02x %02x want %02x %02x", out[keyOffset], out[keyOffset+1], c0, c1)
	}
	return out
}

// plainSession pads a sample session so that the key offset holds zeros.
func plainSession() []byte {
	e := ptftest.LE()
	pad := e.Block(1, 0x2511, make([]byte, 80))
	return e.Session(pad, e.Block(1, 0x1003, e.U32(1)), e.AudioFiles(1, e.Dir(0, "d"), e.File(1, "f.wav")))
}

func TestUnxorSchemes(t *testing.T) {
	t.Parallel()

	var lut [keyRun]byte
	for i := range lut {
		lut[i] = byte(i % 4)
	}
	tables := LookupTables{0x35: lut}

	tests := []struct {
		name   string
		c0, c1 byte
	}{
		{"0x00", 0x00, 0x1b},
		{"0x80", 0x80, 0x07},
		{"0x40", 0x40, 0x35},
		{"0xc0", 0xc0, 0x35},
	}
	plain := plainSession()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			raw := scramble(t, plain, tt.c0, tt.c1, tables)
			if !Scrambled(raw) {
				t.Fatalf("scrambled session not detected")
			}
			got, err := Unxor(raw, tables)
			if err != nil {
				t.Fatalf("unxor: %v", err)
			}
			if !bytes.Equal(got, plain) {
				t.Fatalf("unxor output differs from plain session")
			}
			out, descrambled, err := Prepare(raw, tables)
			if err != nil || !descrambled || !bytes.Equal(out, plain) {
				t.Fatalf("prepare: descrambled %v err %v", descrambled, err)
			}
		})
	}
}

func TestKeyStreamShape(t *testing.T) {
	t.Parallel()

	key, err := keyStream(0x00, 0x03, nil)
	if err != nil {
		t.Fatalf("key stream: %v", err)
	}
	if len(key) != keyRun || key[0] != 0 || key[1] != 3 || key[2] != 6 || key[63] != 189 {
		t.Fatalf("0x00 key: len %d %v", len(key), key[:4])
	}

	key, err = keyStream(0x80, 0x81, nil)
	if err != nil {
		t.Fatalf("key stream: %v", err)
	}
	if len(key) != keyPeriod {
		t.Fatalf("0x80 key length: got %d", len(key))
	}
	// restarts at c0 every run; first and third runs are flipped
	if key[0] != 0x00 || key[64] != 0x80 || key[128] != 0x00 || key[192] != 0x80 {
		t.Fatalf("0x80 key run starts: %02x %02x %02x %02x", key[0], key[64], key[128], key[192])
	}
	if key[65] != 0x81 || key[66] != 0x82 {
		t.Fatalf("0x80 key increments: %02x %02x", key[65], key[66])
	}
}

func TestUnxorErrors(t *testing.T) {
	t.Parallel()

	raw := make([]byte, 0x80)
	raw[keyOffset] = 0x40
	raw[keyOffset+1] = 0x12
	_, err := Unxor(raw, nil)
	if !errors.Is(err, ErrMissingTable) {
		t.Fatalf("missing table: got %v", err)
	}

	raw[keyOffset] = 0x11
	if _, err := Unxor(raw, nil); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("unknown key: got %v", err)
	}

	if _, err := Unxor(make([]byte, keyOffset), nil); !errors.Is(err, ErrShortHeader) {
		t.Fatalf("short: got %v", err)
	}

	// descrambles fine but is not a session
	raw[keyOffset] = 0x00
	if _, _, err := Prepare(raw, nil); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("prepare garbage: got %v", err)
	}
}

func TestPreparePlainSession(t *testing.T) {
	t.Parallel()

	plain := plainSession()
	out, descrambled, err := Prepare(plain, nil)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if descrambled || &out[0] != &plain[0] {
		t.Fatalf("plain session was copied or descrambled")
	}
	if Scrambled(plain) {
		t.Fatalf("plain session reported as scrambled")
	}
	if _, _, err := Prepare([]byte{0x03}, nil); !errors.Is(err, ErrShortHeader) {
		t.Fatalf("tiny input: got %v", err)
	}
}
