package cellfmt

import (
	"errors"
	"fmt"

	"github.com/cerata/regf/internal/wire"
)

// Cell represents a single allocation (free or in-use) within an HBIN.
//
// Cell header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Signed size. Negative => allocated, positive => free.
//	              The absolute value includes the 4-byte header.
//	0x04    ...   Payload. First two bytes form the record tag when allocated.
type Cell struct {
	Offset int  // Offset relative to the start of the hive data slice
	Size   int  // Total size including header
	Free   bool // True when the cell is marked as free
	Tag    [SignatureSize]byte
	Data   []byte // Payload bytes (alias of underlying buffer)
}

// DecodeCellHeader reads the signed 4-byte HCELL_INDEX size prefix from head
// and returns the total cell size (header included) and whether the cell is
// currently allocated (negative size) or free (positive size). This is the
// single place the sign/negation rule lives; cellstore reads through the
// IOCache a header at a time and calls this directly instead of keeping its
// own copy of the same three lines.
func DecodeCellHeader(head []byte) (size int, allocated bool, err error) {
	if len(head) < CellHeaderSize {
		return 0, false, fmt.Errorf("cell: %w", ErrTruncated)
	}
	raw := wire.I32LE(head)
	if raw == 0 {
		return 0, false, errors.New("cell: zero length")
	}
	allocated = raw < 0
	size = int(raw)
	if allocated {
		size = -size
	}
	return size, allocated, nil
}

// tagOf returns the two-byte record signature at the start of a cell payload,
// or the zero value when the payload is shorter than a signature.
func tagOf(payload []byte) [SignatureSize]byte {
	var tag [SignatureSize]byte
	if len(payload) >= SignatureSize {
		tag[0], tag[1] = payload[0], payload[1]
	}
	return tag
}

// NextCell decodes the cell at offset within the HBIN and returns the cell plus
// the offset of the following cell within the same HBIN. The caller must ensure
// offset points to the start of a cell header.
func NextCell(b []byte, h HBIN, off int) (Cell, int, error) {
	if off < 0 || off+CellHeaderSize > len(b) {
		return Cell{}, 0, fmt.Errorf("cell: %w", ErrTruncated)
	}
	if !h.Contains(off) {
		return Cell{}, 0, fmt.Errorf("cell: offset %d outside hbin", off)
	}
	size, allocated, err := DecodeCellHeader(b[off:])
	if err != nil {
		return Cell{}, 0, err
	}
	if size < CellHeaderSize {
		return Cell{}, 0, fmt.Errorf("cell: declared size too small (%d)", size)
	}
	next := off + size
	if next > int(h.FileOffset)+int(h.Size) {
		return Cell{}, 0, fmt.Errorf("cell: %w", ErrTruncated)
	}
	payload := b[off+CellHeaderSize : off+size]
	return Cell{
		Offset: off,
		Size:   size,
		Free:   !allocated,
		Tag:    tagOf(payload),
		Data:   payload,
	}, next, nil
}

// ParseCell is a convenience wrapper that decodes the first cell in b. It is
// retained for callers that operate on individual cells without iterating an
// entire HBIN.
func ParseCell(b []byte) (Cell, error) {
	size, allocated, err := DecodeCellHeader(b)
	if err != nil {
		return Cell{}, err
	}
	if size < CellHeaderSize || size > len(b) {
		return Cell{}, fmt.Errorf("cell: %w", ErrTruncated)
	}
	payload := b[CellHeaderSize:size]
	return Cell{
		Offset: 0,
		Size:   size,
		Free:   !allocated,
		Tag:    tagOf(payload),
		Data:   payload,
	}, nil
}
