package cellfmt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cerata/regf/internal/wire"
)

func decodeLI(b []byte, count uint32) ([]uint32, error) {
	if len(b) < int(count)*OffsetFieldSize {
		return nil, fmt.Errorf("li list: %w", ErrTruncated)
	}
	out := make([]uint32, count)
	for i := range count {
		out[i] = wire.U32LE(b[i*OffsetFieldSize:])
	}
	return out, nil
}

// SubkeyEntry is one element of an lf/lh/li subkey list: the offset of the
// child NK cell, plus whatever name hint the list kind carries alongside it
// (a 4-byte literal name prefix for lf, a 32-bit hash for lh, nothing for
// li). HasHint distinguishes "no hint" (li) from "hint is zero" (lf/lh).
type SubkeyEntry struct {
	Offset  uint32
	Hint    uint32
	Hashed  bool // true for lh (Hint is a hash), false for lf (Hint is a literal 4-byte prefix)
	HasHint bool
}

// DecodeSubkeyListEntries decodes an lf/lh/li subkey list, keeping the lf
// literal-prefix / lh hash alongside each offset, needed for the §4.4
// name-hash fast path during lookup.
func DecodeSubkeyListEntries(b []byte, expected uint32) ([]SubkeyEntry, error) {
	if len(b) < ListHeaderSize {
		return nil, fmt.Errorf("subkey list: %w", ErrTruncated)
	}
	sig := b[:SignatureSize]
	count := uint32(wire.U16LE(b[SignatureSize:ListHeaderSize]))
	if expected != 0 && expected < count {
		count = expected
	}
	body := b[ListHeaderSize:]
	switch {
	case bytes.Equal(sig, LISignature):
		offs, err := decodeLI(body, count)
		if err != nil {
			return nil, err
		}
		out := make([]SubkeyEntry, len(offs))
		for i, o := range offs {
			out[i] = SubkeyEntry{Offset: o}
		}
		return out, nil
	case bytes.Equal(sig, LFSignature), bytes.Equal(sig, LHSignature):
		if len(body) < int(count)*LFEntrySize {
			return nil, fmt.Errorf("lf/lh list: %w", ErrTruncated)
		}
		hashed := bytes.Equal(sig, LHSignature)
		out := make([]SubkeyEntry, count)
		for i := range count {
			start := int(i) * LFEntrySize
			out[i] = SubkeyEntry{
				Offset:  wire.U32LE(body[start:]),
				Hint:    wire.U32LE(body[start+4:]),
				Hashed:  hashed,
				HasHint: true,
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("subkey list: %w", ErrUnsupported)
	}
}

// IsRIList checks if a byte slice contains an RI (indirect) subkey list.
// RI lists are used when a key has many subkeys (>~100) and contain offsets
// to multiple LF/LH lists rather than direct NK offsets.
func IsRIList(b []byte) bool {
	if len(b) < SignatureSize {
		return false
	}
	return bytes.Equal(b[:SignatureSize], RISignature)
}

// DecodeRIList decodes an RI (indirect) subkey list and returns the offsets
// to the constituent LF/LH lists. The caller must fetch and decode each sub-list.
// RI structure: signature (SignatureSize bytes) + count (2 bytes) + array of offsets (OffsetFieldSize bytes each).
func DecodeRIList(b []byte) ([]uint32, error) {
	if len(b) < ListHeaderSize {
		return nil, fmt.Errorf("ri list: %w", ErrTruncated)
	}
	sig := b[:SignatureSize]
	if !bytes.Equal(sig, RISignature) {
		return nil, errors.New("ri list: invalid signature")
	}
	count := wire.U16LE(b[SignatureSize:ListHeaderSize])
	if len(b) < ListHeaderSize+int(count)*OffsetFieldSize {
		return nil, fmt.Errorf("ri list: %w", ErrTruncated)
	}
	// Each entry is an OffsetFieldSize-byte offset to an LF/LH list
	offsets := make([]uint32, count)
	for i := range count {
		offsets[i] = wire.U32LE(b[ListHeaderSize+i*OffsetFieldSize:])
	}
	return offsets, nil
}

// DecodeValueList decodes a value list containing offsets to VK records.
func DecodeValueList(b []byte, count uint32) ([]uint32, error) {
	need := int(count) * OffsetFieldSize
	if need == 0 {
		return nil, nil
	}
	if len(b) < need {
		return nil, fmt.Errorf("value list: %w", ErrTruncated)
	}
	out := make([]uint32, count)
	for i := range count {
		out[i] = wire.U32LE(b[i*OffsetFieldSize:])
	}
	return out, nil
}
