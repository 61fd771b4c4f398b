package cellfmt

import (
	"encoding/binary"
	"testing"
)

func TestNextHBIN(t *testing.T) {
	buf := make([]byte, 0x1000)
	copy(buf, HBINSignature)
	binary.LittleEndian.PutUint32(buf[HBINFileOffsetField:], 0)
	binary.LittleEndian.PutUint32(buf[HBINSizeOffset:], 0x1000)

	hbin, next, err := NextHBIN(buf, 0)
	if err != nil {
		t.Fatalf("NextHBIN: %v", err)
	}
	if hbin.Size != 0x1000 || next != 0x1000 {
		t.Fatalf("unexpected hbin: %+v next=%d", hbin, next)
	}
}

func TestNextHBIN_BadSignature(t *testing.T) {
	buf := make([]byte, 0x1000)
	copy(buf, []byte{'x', 'x', 'x', 'x'})
	if _, _, err := NextHBIN(buf, 0); err == nil {
		t.Fatalf("expected signature mismatch error")
	}
}

func TestNextHBIN_UnalignedSizeRejected(t *testing.T) {
	buf := make([]byte, 0x1000)
	copy(buf, HBINSignature)
	binary.LittleEndian.PutUint32(buf[HBINSizeOffset:], 0x123) // not a multiple of 0x1000
	if _, _, err := NextHBIN(buf, 0); err == nil {
		t.Fatalf("expected error for misaligned hbin size")
	}
}

func TestNextHBIN_ZeroSizeRejected(t *testing.T) {
	buf := make([]byte, 0x1000)
	copy(buf, HBINSignature)
	if _, _, err := NextHBIN(buf, 0); err == nil {
		t.Fatalf("expected error for zero hbin size")
	}
}
