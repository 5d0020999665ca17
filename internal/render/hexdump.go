package render

import (
	"strings"
)

const hexDivider = "    "

// HexDump formats b as rows of width bytes: two hex digits and a space per
// byte, padded to the full row, a divider, then the printable ASCII view.
func HexDump(b []byte, width int) []string {
	if width <= 0 {
		width = DefaultHexWidth
	}
	rows := make([]string, 0, (len(b)+width-1)/width)
	for start := 0; start < len(b); start += width {
		row := b[start:min(start+width, len(b))]
		var hex, text strings.Builder
		for _, c := range row {
			hex.WriteByte(hexDigits[c>>4])
			hex.WriteByte(hexDigits[c&0x0f])
			hex.WriteByte(' ')
			if c >= 32 && c <= 126 {
				text.WriteByte(c)
			} else {
				text.WriteByte('.')
			}
		}
		rows = append(rows, padRight(hex.String(), width*3)+hexDivider+text.String())
	}
	return rows
}

const hexDigits = "0123456789abcdef"

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
