package cellfmt

import (
	"encoding/binary"
	"testing"
)

func TestParseHeader(t *testing.T) {
	buf := make([]byte, HeaderSize)
	copy(buf, REGFSignature)
	binary.LittleEndian.PutUint32(buf[REGFPrimarySeqOffset:], 5)
	binary.LittleEndian.PutUint32(buf[REGFSecondarySeqOffset:], 5)
	binary.LittleEndian.PutUint32(buf[REGFMajorVersionOffset:], 1)
	binary.LittleEndian.PutUint32(buf[REGFMinorVersionOffset:], 5)
	binary.LittleEndian.PutUint32(buf[REGFTypeOffset:], 0)
	binary.LittleEndian.PutUint32(buf[REGFFormatOffset:], 1)
	binary.LittleEndian.PutUint32(buf[REGFRootCellOffset:], 0x20)
	binary.LittleEndian.PutUint32(buf[REGFDataSizeOffset:], 0x1000)

	h, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.PrimarySequence != 5 || h.SecondarySequence != 5 {
		t.Fatalf("unexpected sequence numbers: %+v", h)
	}
	if h.MajorVersion != 1 || h.MinorVersion != 5 {
		t.Fatalf("unexpected version: %+v", h)
	}
	if h.Type != 0 || h.Format != 1 {
		t.Fatalf("unexpected type/format: %+v", h)
	}
	if h.RootCellOffset != 0x20 || h.HiveBinsDataSize != 0x1000 {
		t.Fatalf("unexpected offsets: %+v", h)
	}
}

func TestParseHeader_BadSignature(t *testing.T) {
	buf := make([]byte, HeaderSize)
	copy(buf, []byte{'n', 'o', 'p', 'e'})
	if _, err := ParseHeader(buf); err == nil {
		t.Fatalf("expected signature mismatch error")
	}
}

func TestParseHeader_Truncated(t *testing.T) {
	buf := make([]byte, 10)
	if _, err := ParseHeader(buf); err == nil {
		t.Fatalf("expected truncation error")
	}
}
