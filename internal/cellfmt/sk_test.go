package cellfmt

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestDecodeSK(t *testing.T) {
	descriptor := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	buf := make([]byte, SKHeaderSize+len(descriptor))
	copy(buf, SKSignature)
	binary.LittleEndian.PutUint32(buf[SKFlinkOffset:], 0x1000)
	binary.LittleEndian.PutUint32(buf[SKBlinkOffset:], 0x2000)
	binary.LittleEndian.PutUint32(buf[SKReferenceCountOffset:], 7)
	binary.LittleEndian.PutUint32(buf[SKDescriptorLengthOffset:], uint32(len(descriptor)))
	copy(buf[SKDescriptorOffset:], descriptor)

	rec, start, length, err := DecodeSK(buf, 0x5000)
	if err != nil {
		t.Fatalf("DecodeSK: %v", err)
	}
	if rec.Flink != 0x1000 || rec.Blink != 0x2000 || rec.ReferenceCount != 7 {
		t.Fatalf("unexpected sk record: %+v", rec)
	}
	if start != 0x5000+SKDescriptorOffset || length != len(descriptor) {
		t.Fatalf("unexpected descriptor bounds: start=%d length=%d", start, length)
	}
	got := buf[start-0x5000 : start-0x5000+length]
	if !bytes.Equal(got, descriptor) {
		t.Fatalf("descriptor bytes mismatch: %x", got)
	}
}

func TestDecodeSK_DescriptorLengthOverruns(t *testing.T) {
	buf := make([]byte, SKHeaderSize)
	copy(buf, SKSignature)
	binary.LittleEndian.PutUint32(buf[SKDescriptorLengthOffset:], 1000)
	if _, _, _, err := DecodeSK(buf, 0); err == nil {
		t.Fatalf("expected truncation error for overrunning descriptor length")
	}
}

func TestDecodeSK_Truncated(t *testing.T) {
	buf := make([]byte, 3)
	copy(buf, SKSignature)
	if _, _, _, err := DecodeSK(buf, 0); err == nil {
		t.Fatalf("expected truncation error")
	}
}
