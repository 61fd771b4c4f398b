// Package hivebuild constructs synthetic REGF hive byte images for tests.
// It generalizes the teacher's internal/format/*_test.go technique of
// patching raw byte slices at named offsets into a reusable, multi-cell
// builder, so table-driven tests can assemble whole miniature hives (a
// root key, a handful of subkeys and values, an lh/lf/li/ri subkey list,
// a db big-data chain) instead of hand-rolling offsets per test.
package hivebuild

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/cerata/regf/internal/cellfmt"
)

// Builder assembles a single contiguous HBIN (suitable for every test this
// module needs: one bin, explicit forward-offset wiring) preceded by a
// REGF base block. Cells are appended in whatever order the caller likes;
// children are typically built before the parent that references them so
// their returned offsets can be wired into the parent's fields.
type Builder struct {
	majorVersion uint32
	minorVersion uint32
	fileType     uint32
	fileFormat   uint32
	rootOffset   uint32
	hiveName     string
	badChecksum  bool
	seq1, seq2   uint32

	cells []byte // HBIN payload area, i.e. bytes following the 32-byte HBIN header
}

// New returns a Builder with the spec's default, supported version (1.5)
// and matching primary/secondary sequence numbers (a "clean" hive).
func New() *Builder {
	return &Builder{
		majorVersion: cellfmt.RegfSupportedMajorVersion,
		minorVersion: 5,
		fileType:     cellfmt.RegfExpectedType,
		fileFormat:   cellfmt.RegfExpectedFormat,
		seq1:         1,
		seq2:         1,
	}
}

// Version overrides the REGF major/minor version fields.
func (b *Builder) Version(major, minor uint32) *Builder {
	b.majorVersion, b.minorVersion = major, minor
	return b
}

// FileKind overrides the REGF file type/format fields (normally 0 and 1).
func (b *Builder) FileKind(fileType, fileFormat uint32) *Builder {
	b.fileType, b.fileFormat = fileType, fileFormat
	return b
}

// Dirty sets mismatched primary/secondary sequence numbers, simulating an
// uncleanly-shut-down hive (spec §4.1 "dirty hive" advisory).
func (b *Builder) Dirty() *Builder {
	b.seq1, b.seq2 = 5, 4
	return b
}

// BadChecksum corrupts the stored header checksum, exercising the
// CorruptedChecksum advisory path (spec S2) without affecting anything
// else about the image.
func (b *Builder) BadChecksum() *Builder {
	b.badChecksum = true
	return b
}

// Name sets the informational hive name (spec §3, UTF-16LE at byte 48).
func (b *Builder) Name(name string) *Builder {
	b.hiveName = name
	return b
}

// RootOffset sets the base block's root-cell offset explicitly. SetRoot is
// the common case (wiring a just-built NK cell as the root); RootOffset is
// for tests that want to point at an invalid or dangling offset.
func (b *Builder) RootOffset(off uint32) *Builder {
	b.rootOffset = off
	return b
}

// SetRoot wires a previously-built cell's offset (e.g. from NK) as the
// hive's root.
func (b *Builder) SetRoot(off uint32) *Builder {
	b.rootOffset = off
	return b
}

// align8 rounds n up to the next multiple of cellfmt.CellAlignment.
func align8(n int) int {
	rem := n % cellfmt.CellAlignment
	if rem == 0 {
		return n
	}
	return n + (cellfmt.CellAlignment - rem)
}

// AddCell appends an allocated cell containing payload and returns its
// hive-relative offset (the value an NK/VK/list "HCELL_INDEX" field would
// carry, i.e. relative to the first byte after the REGF header). The cell
// is padded to an 8-byte boundary with zero bytes, matching on-disk
// alignment; decoders only ever read the declared-length prefix of a
// payload, so the padding is inert.
func (b *Builder) AddCell(payload []byte) uint32 {
	total := align8(cellfmt.CellHeaderSize + len(payload))
	offset := uint32(cellfmt.HBINHeaderSize + len(b.cells))

	cell := make([]byte, total)
	binary.LittleEndian.PutUint32(cell[0:4], uint32(int32(-total)))
	copy(cell[cellfmt.CellHeaderSize:], payload)
	b.cells = append(b.cells, cell...)
	return offset
}

// AddFreeCell appends a free (unallocated) cell of the given total size
// (including its own 4-byte header), for tests exercising the "free cell
// where an allocated one was expected" rejection path.
func (b *Builder) AddFreeCell(size int) uint32 {
	size = align8(size)
	offset := uint32(cellfmt.HBINHeaderSize + len(b.cells))
	cell := make([]byte, size)
	binary.LittleEndian.PutUint32(cell[0:4], uint32(int32(size)))
	b.cells = append(b.cells, cell...)
	return offset
}

// RawCell is a convenience for tests that want a plain data cell (e.g. an
// inline REG_BINARY payload or a db segment) with no record signature.
func (b *Builder) RawCell(data []byte) uint32 {
	return b.AddCell(data)
}

// Bytes renders the full REGF image: the 4096-byte base block followed by
// one HBIN containing every cell added so far.
func (b *Builder) Bytes() []byte {
	hbinPayloadSize := len(b.cells)
	hbinTotal := align4096(cellfmt.HBINHeaderSize + hbinPayloadSize)

	hbin := make([]byte, hbinTotal)
	copy(hbin[0:4], cellfmt.HBINSignature)
	binary.LittleEndian.PutUint32(hbin[cellfmt.HBINFileOffsetField:], 0)
	binary.LittleEndian.PutUint32(hbin[cellfmt.HBINSizeOffset:], uint32(hbinTotal))
	copy(hbin[cellfmt.HBINHeaderSize:], b.cells)

	header := make([]byte, cellfmt.HeaderSize)
	copy(header[:cellfmt.REGFSignatureSize], cellfmt.REGFSignature)
	binary.LittleEndian.PutUint32(header[cellfmt.REGFPrimarySeqOffset:], b.seq1)
	binary.LittleEndian.PutUint32(header[cellfmt.REGFSecondarySeqOffset:], b.seq2)
	binary.LittleEndian.PutUint32(header[cellfmt.REGFMajorVersionOffset:], b.majorVersion)
	binary.LittleEndian.PutUint32(header[cellfmt.REGFMinorVersionOffset:], b.minorVersion)
	binary.LittleEndian.PutUint32(header[cellfmt.REGFTypeOffset:], b.fileType)
	binary.LittleEndian.PutUint32(header[cellfmt.REGFFormatOffset:], b.fileFormat)
	binary.LittleEndian.PutUint32(header[cellfmt.REGFRootCellOffset:], b.rootOffset)
	binary.LittleEndian.PutUint32(header[cellfmt.REGFDataSizeOffset:], uint32(hbinTotal))
	binary.LittleEndian.PutUint32(header[cellfmt.REGFClusterOffset:], 1)
	if b.hiveName != "" {
		units := utf16.Encode([]rune(b.hiveName))
		for i, u := range units {
			off := cellfmt.REGFFileNameOffset + i*2
			if off+2 > cellfmt.REGFFileNameOffset+cellfmt.REGFFileNameSize {
				break
			}
			binary.LittleEndian.PutUint16(header[off:], u)
		}
	}

	sum := cellfmt.HeaderChecksum(header[:cellfmt.REGFChecksumRegionLen])
	if b.badChecksum {
		sum ^= 1
	}
	binary.LittleEndian.PutUint32(header[cellfmt.REGFCheckSumOffset:], sum)

	out := make([]byte, 0, len(header)+len(hbin))
	out = append(out, header...)
	out = append(out, hbin...)
	return out
}

func align4096(n int) int {
	const page = cellfmt.HBINAlignment
	rem := n % page
	if rem == 0 {
		return n
	}
	return n + (page - rem)
}
