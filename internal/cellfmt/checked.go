package cellfmt

import (
	"fmt"

	"github.com/cerata/regf/internal/wire"
)

// CheckedReadU16, CheckedReadU32 and CheckedReadU64 decode little-endian
// integers with bounds checking, returning an error that matches
// ErrBoundsCheck and ErrTruncated (wrapping the underlying
// wire.ErrBoundsCheck) instead of panicking on short buffers.
func CheckedReadU16(b []byte, off int) (uint16, error) {
	v, err := wire.CheckedReadU16(b, off)
	if err != nil {
		return 0, wrapBoundsErr(err)
	}
	return v, nil
}

func CheckedReadU32(b []byte, off int) (uint32, error) {
	v, err := wire.CheckedReadU32(b, off)
	if err != nil {
		return 0, wrapBoundsErr(err)
	}
	return v, nil
}

func CheckedReadU64(b []byte, off int) (uint64, error) {
	v, err := wire.CheckedReadU64(b, off)
	if err != nil {
		return 0, wrapBoundsErr(err)
	}
	return v, nil
}

// ReadNameBytes slices the variable-length name field starting at base out
// of b, bounds-checking nameLen against an overflow-safe end offset. NK and
// VK records both trail a fixed header with exactly this shape, so both
// decoders call here instead of keeping their own copy of the arithmetic.
func ReadNameBytes(b []byte, base int, nameLen uint16) ([]byte, error) {
	end, ok := wire.AddOverflowSafe(base, int(nameLen))
	if !ok || end > len(b) {
		return nil, fmt.Errorf("name: %w (need %d bytes from %d, have %d)",
			ErrTruncated, nameLen, base, len(b))
	}
	return b[base:end], nil
}

func wrapBoundsErr(err error) error {
	return &boundsError{err: err}
}

type boundsError struct{ err error }

func (e *boundsError) Error() string { return e.err.Error() }
func (e *boundsError) Unwrap() []error {
	return []error{e.err, ErrBoundsCheck, ErrTruncated}
}
