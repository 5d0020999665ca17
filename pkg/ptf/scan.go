package ptf

import "bytes"

// FindNextMarker returns the first offset in [from, upper) holding the block
// marker. upper is clamped to len(data).
func FindNextMarker(data []byte, from, upper int) (int, bool) {
	upper = min(upper, len(data))
	if from < 0 {
		from = 0
	}
	if from >= upper {
		return 0, false
	}
	i := bytes.IndexByte(data[from:upper], Marker)
	if i < 0 {
		return 0, false
	}
	return from + i, true
}
