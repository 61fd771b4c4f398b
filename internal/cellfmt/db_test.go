package cellfmt

import (
	"encoding/binary"
	"testing"
)

func TestDecodeDB(t *testing.T) {
	buf := make([]byte, DBHeaderSize)
	copy(buf, DBSignature)
	binary.LittleEndian.PutUint16(buf[DBNumBlocksOffset:], 3)
	binary.LittleEndian.PutUint32(buf[DBBlocklistOffset:], 0x900)

	db, err := DecodeDB(buf)
	if err != nil {
		t.Fatalf("DecodeDB: %v", err)
	}
	if db.NumBlocks != 3 || db.BlocklistOffset != 0x900 {
		t.Fatalf("unexpected db record: %+v", db)
	}
	if !IsDBRecord(buf) {
		t.Fatalf("expected IsDBRecord true")
	}
}

func TestDecodeDB_BadSignature(t *testing.T) {
	buf := make([]byte, DBHeaderSize)
	copy(buf, []byte{'x', 'x'})
	if _, err := DecodeDB(buf); err == nil {
		t.Fatalf("expected signature mismatch error")
	}
	if IsDBRecord(buf) {
		t.Fatalf("expected IsDBRecord false")
	}
}

func TestDecodeDB_Truncated(t *testing.T) {
	buf := make([]byte, 3)
	copy(buf, DBSignature)
	if _, err := DecodeDB(buf); err == nil {
		t.Fatalf("expected truncation error")
	}
}
