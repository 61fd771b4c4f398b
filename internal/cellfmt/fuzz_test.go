package cellfmt

import (
	"encoding/binary"
	"testing"
)

// These fuzz targets exercise the decoders that run directly on untrusted
// bytes before any offset/bounds validation from higher layers has had a
// chance to run (spec §1: "the decoder operates exclusively on untrusted
// bytes"). None of them should ever panic, regardless of input.

func FuzzParseHeader(f *testing.F) {
	f.Add(validHeaderBytes())
	f.Add(make([]byte, HeaderSize))
	f.Add([]byte("short"))
	f.Fuzz(func(t *testing.T, b []byte) {
		_, _ = ParseHeader(b)
	})
}

func FuzzParseCell(f *testing.F) {
	buf := make([]byte, 16)
	size := int32(-16) // allocated cell, 16 bytes
	binary.LittleEndian.PutUint32(buf[0:4], uint32(size))
	copy(buf[4:], NKSignature)
	f.Add(buf)
	f.Add([]byte{0, 0, 0, 0})
	f.Fuzz(func(t *testing.T, b []byte) {
		_, _ = ParseCell(b)
	})
}

func FuzzDecodeNK(f *testing.F) {
	name := []byte("ROOT")
	buf := make([]byte, NKFixedHeaderSize+len(name))
	copy(buf, NKSignature)
	binary.LittleEndian.PutUint16(buf[NKFlagsOffset:], NKFlagRoot)
	binary.LittleEndian.PutUint32(buf[NKParentOffset:], InvalidOffset)
	binary.LittleEndian.PutUint32(buf[NKSubkeyListOffset:], InvalidOffset)
	binary.LittleEndian.PutUint32(buf[NKVolSubkeyListOffset:], InvalidOffset)
	binary.LittleEndian.PutUint32(buf[NKValueListOffset:], InvalidOffset)
	binary.LittleEndian.PutUint32(buf[NKSecurityOffset:], InvalidOffset)
	binary.LittleEndian.PutUint32(buf[NKClassNameOffset:], InvalidOffset)
	binary.LittleEndian.PutUint16(buf[NKNameLenOffset:], uint16(len(name)))
	copy(buf[NKNameOffset:], name)
	f.Add(buf)
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, b []byte) {
		_, _ = DecodeNK(b)
	})
}

func FuzzDecodeVK(f *testing.F) {
	name := []byte("Value")
	buf := make([]byte, VKFixedHeaderSize+len(name))
	copy(buf, VKSignature)
	binary.LittleEndian.PutUint16(buf[VKNameLenOffset:], uint16(len(name)))
	binary.LittleEndian.PutUint32(buf[VKDataLenOffset:], VKDataInlineBit|4)
	binary.LittleEndian.PutUint32(buf[VKTypeOffset:], RegDword)
	copy(buf[VKNameOffset:], name)
	f.Add(buf)
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, b []byte) {
		_, _ = DecodeVK(b)
	})
}

func FuzzDecodeSubkeyListEntries(f *testing.F) {
	buf := make([]byte, ListHeaderSize+LFEntrySize)
	copy(buf, LHSignature)
	binary.LittleEndian.PutUint16(buf[IdxCountOffset:], 1)
	binary.LittleEndian.PutUint32(buf[ListHeaderSize:], 0x20)
	binary.LittleEndian.PutUint32(buf[ListHeaderSize+4:], 0xDEADBEEF)
	f.Add(buf, uint32(1))
	f.Add([]byte{}, uint32(0))
	f.Fuzz(func(t *testing.T, b []byte, expected uint32) {
		_, _ = DecodeSubkeyListEntries(b, expected)
	})
}

func FuzzDecodeRIList(f *testing.F) {
	buf := make([]byte, ListHeaderSize+OffsetFieldSize)
	copy(buf, RISignature)
	binary.LittleEndian.PutUint16(buf[IdxCountOffset:], 1)
	binary.LittleEndian.PutUint32(buf[ListHeaderSize:], 0x40)
	f.Add(buf)
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, b []byte) {
		_, _ = DecodeRIList(b)
	})
}

func FuzzDecodeDB(f *testing.F) {
	buf := make([]byte, DBHeaderSize)
	copy(buf, DBSignature)
	binary.LittleEndian.PutUint16(buf[DBNumBlocksOffset:], 2)
	binary.LittleEndian.PutUint32(buf[DBBlocklistOffset:], 0x60)
	f.Add(buf)
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, b []byte) {
		_, _ = DecodeDB(b)
	})
}

func FuzzDecodeSK(f *testing.F) {
	buf := make([]byte, SKHeaderSize+16)
	copy(buf, SKSignature)
	binary.LittleEndian.PutUint32(buf[SKFlinkOffset:], 0x100)
	binary.LittleEndian.PutUint32(buf[SKBlinkOffset:], 0x100)
	binary.LittleEndian.PutUint32(buf[SKReferenceCountOffset:], 1)
	binary.LittleEndian.PutUint32(buf[SKDescriptorLengthOffset:], 16)
	f.Add(buf, 0)
	f.Add([]byte{}, 0)
	f.Fuzz(func(t *testing.T, b []byte, cellOff int) {
		_, _, _, _ = DecodeSK(b, cellOff)
	})
}

func validHeaderBytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[:REGFSignatureSize], REGFSignature)
	binary.LittleEndian.PutUint32(b[REGFPrimarySeqOffset:], 1)
	binary.LittleEndian.PutUint32(b[REGFSecondarySeqOffset:], 1)
	binary.LittleEndian.PutUint32(b[REGFMajorVersionOffset:], RegfSupportedMajorVersion)
	binary.LittleEndian.PutUint32(b[REGFMinorVersionOffset:], 5)
	binary.LittleEndian.PutUint32(b[REGFTypeOffset:], RegfExpectedType)
	binary.LittleEndian.PutUint32(b[REGFFormatOffset:], RegfExpectedFormat)
	binary.LittleEndian.PutUint32(b[REGFRootCellOffset:], 0x20)
	binary.LittleEndian.PutUint32(b[REGFDataSizeOffset:], 4096)
	binary.LittleEndian.PutUint32(b[REGFClusterOffset:], 1)
	sum := HeaderChecksum(b[:REGFChecksumRegionLen])
	binary.LittleEndian.PutUint32(b[REGFCheckSumOffset:], sum)
	return b
}
