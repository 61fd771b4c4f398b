package cellfmt

import (
	"encoding/binary"
	"testing"
)

func buildLFLH(sig []byte, entries [][2]uint32) []byte {
	buf := make([]byte, ListHeaderSize+len(entries)*LFEntrySize)
	copy(buf, sig)
	binary.LittleEndian.PutUint16(buf[IdxCountOffset:], uint16(len(entries)))
	for i, e := range entries {
		base := ListHeaderSize + i*LFEntrySize
		binary.LittleEndian.PutUint32(buf[base:], e[0])
		binary.LittleEndian.PutUint32(buf[base+4:], e[1])
	}
	return buf
}

func TestDecodeSubkeyListEntries_LH(t *testing.T) {
	buf := buildLFLH(LHSignature, [][2]uint32{{0x100, 0xAAAA}, {0x200, 0xBBBB}})
	entries, err := DecodeSubkeyListEntries(buf, 2)
	if err != nil {
		t.Fatalf("DecodeSubkeyListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if !entries[0].Hashed || !entries[0].HasHint || entries[0].Hint != 0xAAAA {
		t.Fatalf("unexpected entry 0: %+v", entries[0])
	}
	if entries[1].Offset != 0x200 {
		t.Fatalf("unexpected entry 1 offset: %+v", entries[1])
	}
}

func TestDecodeSubkeyListEntries_LF(t *testing.T) {
	buf := buildLFLH(LFSignature, [][2]uint32{{0x100, 0x41424344}})
	entries, err := DecodeSubkeyListEntries(buf, 1)
	if err != nil {
		t.Fatalf("DecodeSubkeyListEntries: %v", err)
	}
	if entries[0].Hashed {
		t.Fatalf("lf entries should not be marked Hashed")
	}
	if entries[0].Hint != 0x41424344 {
		t.Fatalf("unexpected hint: %x", entries[0].Hint)
	}
}

func TestDecodeSubkeyListEntries_LI(t *testing.T) {
	buf := make([]byte, ListHeaderSize+2*OffsetFieldSize)
	copy(buf, LISignature)
	binary.LittleEndian.PutUint16(buf[IdxCountOffset:], 2)
	binary.LittleEndian.PutUint32(buf[ListHeaderSize:], 0x10)
	binary.LittleEndian.PutUint32(buf[ListHeaderSize+OffsetFieldSize:], 0x20)

	entries, err := DecodeSubkeyListEntries(buf, 2)
	if err != nil {
		t.Fatalf("DecodeSubkeyListEntries: %v", err)
	}
	if len(entries) != 2 || entries[0].HasHint {
		t.Fatalf("li entries should carry no hint: %+v", entries)
	}
	if entries[0].Offset != 0x10 || entries[1].Offset != 0x20 {
		t.Fatalf("unexpected offsets: %+v", entries)
	}
}

func TestDecodeSubkeyListEntries_UnknownSignature(t *testing.T) {
	buf := buildLFLH([]byte{'z', 'z'}, [][2]uint32{{1, 2}})
	if _, err := DecodeSubkeyListEntries(buf, 1); err == nil {
		t.Fatalf("expected unsupported-signature error")
	}
}

func TestDecodeSubkeyListEntries_TruncatedBody(t *testing.T) {
	buf := buildLFLH(LHSignature, [][2]uint32{{1, 2}})
	buf = buf[:len(buf)-1]
	if _, err := DecodeSubkeyListEntries(buf, 1); err == nil {
		t.Fatalf("expected truncation error")
	}
}

func TestIsRIListAndDecodeRIList(t *testing.T) {
	buf := make([]byte, ListHeaderSize+2*OffsetFieldSize)
	copy(buf, RISignature)
	binary.LittleEndian.PutUint16(buf[IdxCountOffset:], 2)
	binary.LittleEndian.PutUint32(buf[ListHeaderSize:], 0x400)
	binary.LittleEndian.PutUint32(buf[ListHeaderSize+OffsetFieldSize:], 0x800)

	if !IsRIList(buf) {
		t.Fatalf("expected IsRIList true")
	}
	offs, err := DecodeRIList(buf)
	if err != nil {
		t.Fatalf("DecodeRIList: %v", err)
	}
	if len(offs) != 2 || offs[0] != 0x400 || offs[1] != 0x800 {
		t.Fatalf("unexpected offsets: %+v", offs)
	}
}

func TestDecodeValueList(t *testing.T) {
	buf := make([]byte, 2*OffsetFieldSize)
	binary.LittleEndian.PutUint32(buf[0:], 0x50)
	binary.LittleEndian.PutUint32(buf[OffsetFieldSize:], 0x60)

	offs, err := DecodeValueList(buf, 2)
	if err != nil {
		t.Fatalf("DecodeValueList: %v", err)
	}
	if len(offs) != 2 || offs[0] != 0x50 || offs[1] != 0x60 {
		t.Fatalf("unexpected offsets: %+v", offs)
	}

	if offs, err := DecodeValueList(nil, 0); err != nil || offs != nil {
		t.Fatalf("zero-count value list should be (nil, nil), got (%v, %v)", offs, err)
	}
}
