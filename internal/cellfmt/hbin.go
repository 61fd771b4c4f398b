package cellfmt

import (
	"bytes"
	"fmt"

	"github.com/cerata/regf/internal/wire"
)

// HBIN describes a hive bin. Each HBIN begins with a 0x20-byte header with the
// following structure (little-endian):
//
//	Offset  Size  Field
//	0x00    4     'h' 'b' 'i' 'n'
//	0x04    4     Offset of this HBIN (relative to start of hive-bins data)
//	0x08    4     Size of HBIN, multiple of 0x1000
//	0x0C    4     Reserved / unknown
//	...
//	0x1C    4     Next HBIN offset (often equal to size)
//
// We only retain the fields necessary to iterate over cells safely.
type HBIN struct {
	FileOffset uint32
	Size       uint32
}

// Contains reports whether off, a cell offset within the same buffer the
// HBIN header was decoded from, falls inside this bin's cell area (i.e.
// after the 0x20-byte header and before the bin's declared end). NextCell
// uses this instead of repeating the FileOffset/Size arithmetic inline.
func (h HBIN) Contains(off int) bool {
	start := int(h.FileOffset) + HBINHeaderSize
	end := int(h.FileOffset) + int(h.Size)
	return off >= start && off < end
}

// DecodeHBINHeader parses the 0x20-byte HBIN header held in head, validating
// only what fits in that header-sized slice: signature and declared size.
// It does not assume head holds anything past the header, which is what
// lets hivebins.Build read one header at a time through an IOCache rather
// than requiring the whole bin (or hive) resident in memory.
func DecodeHBINHeader(head []byte) (HBIN, error) {
	if len(head) < HBINHeaderSize {
		return HBIN{}, fmt.Errorf("hbin: %w", ErrTruncated)
	}
	if !bytes.Equal(head[:HBINSignatureSize], HBINSignature) {
		return HBIN{}, fmt.Errorf("hbin: %w", ErrSignatureMismatch)
	}
	size := wire.U32LE(head[HBINSizeOffset:])
	if size == 0 || size%HBINAlignment != 0 {
		return HBIN{}, fmt.Errorf("hbin: invalid size %d", size)
	}
	return HBIN{
		FileOffset: wire.U32LE(head[HBINFileOffsetField:]),
		Size:       size,
	}, nil
}

// NextHBIN validates the HBIN header located at off within b, where b holds
// this bin in full (not just its header), and returns the header along
// with the offset of the subsequent HBIN.
func NextHBIN(b []byte, off int) (HBIN, int, error) {
	if off < 0 || off+HBINHeaderSize > len(b) {
		return HBIN{}, 0, fmt.Errorf("hbin: %w", ErrTruncated)
	}
	hbin, err := DecodeHBINHeader(b[off : off+HBINHeaderSize])
	if err != nil {
		return HBIN{}, 0, err
	}
	next := off + int(hbin.Size)
	if next > len(b) {
		return HBIN{}, 0, fmt.Errorf("hbin: %w", ErrTruncated)
	}
	return hbin, next, nil
}
