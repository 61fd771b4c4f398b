package cellfmt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cerata/regf/internal/wire"
)

// SKRecord captures the fields of a security-key cell, excluding the
// descriptor bytes themselves (see DecodeSK for the descriptor slice).
// The Flink/Blink ring is exposed as raw offsets only; nothing in this
// package follows them automatically, and no ACL interpretation is
// attempted on the descriptor.
type SKRecord struct {
	Flink          uint32
	Blink          uint32
	ReferenceCount uint32
}

// DecodeSK returns the SK header fields plus the absolute offset (relative
// to the hive buffer) and length of the security descriptor stored in the
// cell. Many tools simply copy the descriptor region verbatim, so it is
// exposed without attempting to parse the ACL.
//
// SK layout (_CM_KEY_SECURITY):
//
//	Offset  Size  Description
//	0x00    2     's' 'k' signature
//	0x02    2     Reserved (unused)
//	0x04    4     Flink - forward link in security descriptor list
//	0x08    4     Blink - backward link in security descriptor list
//	0x0C    4     ReferenceCount - number of keys using this descriptor
//	0x10    4     DescriptorLength - length of descriptor data in bytes
//	0x14    ...   Descriptor - SECURITY_DESCRIPTOR_RELATIVE data (inline)
func DecodeSK(b []byte, cellOff int) (SKRecord, int, int, error) {
	if len(b) < SKMinSize {
		return SKRecord{}, 0, 0, fmt.Errorf("sk: %w", ErrTruncated)
	}
	if !bytes.Equal(b[:SignatureSize], SKSignature) {
		return SKRecord{}, 0, 0, fmt.Errorf("sk: %w", ErrSignatureMismatch)
	}
	rec := SKRecord{
		Flink:          wire.U32LE(b[SKFlinkOffset:]),
		Blink:          wire.U32LE(b[SKBlinkOffset:]),
		ReferenceCount: wire.U32LE(b[SKReferenceCountOffset:]),
	}
	length := int(wire.U32LE(b[SKDescriptorLengthOffset:]))
	if length < 0 {
		return SKRecord{}, 0, 0, errors.New("sk: negative descriptor length")
	}
	// Descriptor data starts inline at offset 0x14
	startAbs := cellOff + SKDescriptorOffset
	end := startAbs + length
	if end > cellOff+len(b) {
		return SKRecord{}, 0, 0, fmt.Errorf("sk: %w", ErrTruncated)
	}
	return rec, startAbs, length, nil
}
