package wire

import "fmt"

// ErrBoundsCheck is returned by the Checked* readers when an offset or
// required width would run past the end of the buffer.
var ErrBoundsCheck = fmt.Errorf("wire: buffer bounds exceeded")

// CheckedReadU16 reads a little-endian uint16 at off, reporting an error
// instead of panicking when off is out of range.
func CheckedReadU16(b []byte, off int) (uint16, error) {
	s, ok := Slice(b, off, 2)
	if !ok {
		return 0, fmt.Errorf("%w: u16 at %d (len %d)", ErrBoundsCheck, off, len(b))
	}
	return U16LE(s), nil
}

// CheckedReadU32 reads a little-endian uint32 at off, reporting an error
// instead of panicking when off is out of range.
func CheckedReadU32(b []byte, off int) (uint32, error) {
	s, ok := Slice(b, off, 4)
	if !ok {
		return 0, fmt.Errorf("%w: u32 at %d (len %d)", ErrBoundsCheck, off, len(b))
	}
	return U32LE(s), nil
}

// CheckedReadU64 reads a little-endian uint64 at off, reporting an error
// instead of panicking when off is out of range.
func CheckedReadU64(b []byte, off int) (uint64, error) {
	s, ok := Slice(b, off, 8)
	if !ok {
		return 0, fmt.Errorf("%w: u64 at %d (len %d)", ErrBoundsCheck, off, len(b))
	}
	return U64LE(s), nil
}
