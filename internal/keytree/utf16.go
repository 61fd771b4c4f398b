package keytree

import (
	"strings"
	"unicode/utf8"

	"github.com/cerata/regf/internal/cellfmt"
)

// decodeUTF16LE converts raw UTF-16LE bytes to UTF-8 without an intermediate
// []uint16 allocation, taking an ASCII fast path since most registry names
// (keys, values, vendor strings) fall entirely in the Basic Latin range.
func decodeUTF16LE(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	allASCII := len(data)%2 == 0
	if allASCII {
		for i := 0; i < len(data); i += 2 {
			if data[i+1] != 0 || data[i] >= cellfmt.UTF16ASCIIThreshold {
				allASCII = false
				break
			}
		}
	}
	if allASCII {
		var b strings.Builder
		b.Grow(len(data) / 2)
		for i := 0; i < len(data); i += 2 {
			b.WriteByte(data[i])
		}
		return b.String()
	}

	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i+1 < len(data); i += 2 {
		r := rune(data[i]) | rune(data[i+1])<<8
		if r >= cellfmt.UTF16HighSurrogateStart && r <= cellfmt.UTF16HighSurrogateEnd && i+3 < len(data) {
			r2 := rune(data[i+2]) | rune(data[i+3])<<8
			if r2 >= cellfmt.UTF16LowSurrogateStart && r2 <= cellfmt.UTF16LowSurrogateEnd {
				r = cellfmt.UTF16SurrogateBase + ((r - cellfmt.UTF16HighSurrogateStart) << 10) + (r2 - cellfmt.UTF16LowSurrogateStart)
				i += 2
			}
		}
		if !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		b.WriteRune(r)
	}
	return b.String()
}
