package cellfmt

import (
	"encoding/binary"
	"testing"
)

func TestDecodeVK_InlineData(t *testing.T) {
	name := []byte("Val")
	data := []byte{0xDE, 0xAD, 0xBE}
	buf := make([]byte, VKFixedHeaderSize+len(name))
	copy(buf, VKSignature)
	binary.LittleEndian.PutUint16(buf[VKNameLenOffset:], uint16(len(name)))
	var tmp [4]byte
	copy(tmp[:], data)
	binary.LittleEndian.PutUint32(buf[VKDataOffOffset:], binary.LittleEndian.Uint32(tmp[:]))
	binary.LittleEndian.PutUint32(buf[VKDataLenOffset:], uint32(len(data))|VKDataInlineBit)
	binary.LittleEndian.PutUint32(buf[VKTypeOffset:], RegBinary)
	binary.LittleEndian.PutUint16(buf[VKFlagsOffset:], VKFlagASCIIName)
	copy(buf[VKNameOffset:], name)

	vk, err := DecodeVK(buf)
	if err != nil {
		t.Fatalf("DecodeVK: %v", err)
	}
	if !vk.DataInline() {
		t.Fatalf("expected inline data")
	}
	if vk.InlineLength() != 3 {
		t.Fatalf("got inline length %d, want 3", vk.InlineLength())
	}
	if !vk.NameIsASCII() || string(vk.NameRaw) != "Val" {
		t.Fatalf("unexpected name: %+v", vk)
	}
}

func TestDecodeVK_ExternalData(t *testing.T) {
	buf := make([]byte, VKFixedHeaderSize)
	copy(buf, VKSignature)
	binary.LittleEndian.PutUint32(buf[VKDataLenOffset:], 128)
	binary.LittleEndian.PutUint32(buf[VKDataOffOffset:], 0x1000)
	binary.LittleEndian.PutUint32(buf[VKTypeOffset:], RegSz)

	vk, err := DecodeVK(buf)
	if err != nil {
		t.Fatalf("DecodeVK: %v", err)
	}
	if vk.DataInline() {
		t.Fatalf("expected external data, not inline")
	}
	if vk.InlineLength() != 128 {
		t.Fatalf("got length %d, want 128", vk.InlineLength())
	}
	if vk.DataOffset != 0x1000 {
		t.Fatalf("got data offset %x, want 0x1000", vk.DataOffset)
	}
}

func TestDecodeVK_DataLenExceedsLimit(t *testing.T) {
	buf := make([]byte, VKFixedHeaderSize)
	copy(buf, VKSignature)
	binary.LittleEndian.PutUint32(buf[VKDataLenOffset:], MaxValueDataLen+1)
	if _, err := DecodeVK(buf); err == nil {
		t.Fatalf("expected sanity-limit error for oversized data length")
	}
}

func TestDecodeVK_Truncated(t *testing.T) {
	buf := make([]byte, 2)
	copy(buf, VKSignature)
	if _, err := DecodeVK(buf); err == nil {
		t.Fatalf("expected truncation error")
	}
}
