package ptf

import "fmt"

const (
	// keyOffset locates the two key bytes of a scrambled session.
	keyOffset = 0x40

	keyRun    = 64
	keyPeriod = 256
)

// LookupTables holds the per-key tables the 0x40 and 0xc0 schemes need,
// indexed by the second key byte. Each table has one entry per position of a
// 64-byte run; entries are 0..3.
type LookupTables map[byte][keyRun]byte

// Unxor reverses the XOR scrambling of a raw session and returns a new
// buffer. The key is the pair of bytes at 0x40 and 0x41. Schemes 0x00 and
// 0x80 need nothing else; 0x40 and 0xc0 also need a table from tables, and
// ErrMissingTable names the index when it is absent.
func Unxor(raw []byte, tables LookupTables) ([]byte, error) {
	if len(raw) < keyOffset+2 {
		return nil, fmt.Errorf("%w: %d bytes, key at 0x%x", ErrShortHeader, len(raw), keyOffset)
	}
	key, err := keyStream(raw[keyOffset], raw[keyOffset+1], tables)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(raw))
	for j, c := range raw {
		out[j] = c ^ key[j%len(key)]
	}
	return out, nil
}

// keyStream builds the repeating XOR key for the key pair (c0, c1).
func keyStream(c0, c1 byte, tables LookupTables) ([]byte, error) {
	switch c0 {
	case 0x00:
		key := make([]byte, keyRun)
		key[0], key[1] = c0, c1
		for i := 2; i < keyRun; i++ {
			key[i] = key[i-1] + c1 - c0
		}
		return key, nil
	case 0x80:
		key := periodicKey(c0, c1)
		for i := range keyRun {
			key[i] ^= 0x80
			key[2*keyRun+i] ^= 0x80
		}
		return key, nil
	case 0x40, 0xc0:
		lut, ok := tables[c1]
		if !ok {
			return nil, fmt.Errorf("%w: index 0x%02x (key 0x%02x)", ErrMissingTable, c1, c0)
		}
		key := periodicKey(c0, c1)
		for i := range keyRun {
			key[i] ^= lut[i] * 0x40
			inv := byte(3)
			if lut[i] == 3 {
				inv = 1
			}
			key[2*keyRun+i] ^= inv * 0x40
			key[3*keyRun+i] ^= 0x80
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownKey, c0)
	}
}

// periodicKey restarts the additive sequence at c0 every 64 bytes.
func periodicKey(c0, c1 byte) []byte {
	key := make([]byte, keyPeriod)
	key[0], key[1] = c0, c1
	for i := 2; i < keyPeriod; i++ {
		if i%keyRun == 0 {
			key[i] = c0
		} else {
			key[i] = key[i-1] + c1 - c0
		}
	}
	return key
}

// Scrambled reports whether data looks like a raw session: it does not carry
// a valid plain header but is long enough to hold the key bytes.
func Scrambled(data []byte) bool {
	if _, err := ReadHeader(data); err == nil {
		return false
	}
	return len(data) >= keyOffset+2
}

// Prepare returns data unchanged when it already starts with a valid header,
// otherwise the descrambled buffer. The result is checked with ReadHeader, so
// a buffer that is neither fails with the header error.
func Prepare(data []byte, tables LookupTables) (out []byte, descrambled bool, err error) {
	if !Scrambled(data) {
		if _, err := ReadHeader(data); err != nil {
			return nil, false, err
		}
		return data, false, nil
	}
	plain, err := Unxor(data, tables)
	if err != nil {
		return nil, false, err
	}
	if _, err := ReadHeader(plain); err != nil {
		return nil, false, fmt.Errorf("descrambled session: %w", err)
	}
	return plain, true, nil
}
