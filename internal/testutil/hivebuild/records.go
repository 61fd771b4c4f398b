package hivebuild

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/cerata/regf/internal/cellfmt"
)

// ASCIIName encodes s as raw 8-bit bytes (the "compressed name" form; the
// caller is responsible for setting NKFlagCompressedName/VKFlagASCIIName).
func ASCIIName(s string) []byte { return []byte(s) }

// UTF16Name encodes s as UTF-16LE bytes, NUL-unterminated (matching the
// on-disk convention: the name length field carries the exact byte count,
// no NUL terminator is stored for NK/VK names).
func UTF16Name(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[i*2:], u)
	}
	return out
}

// NKOpts configures NamedKey. Zero-valued offsets default to
// cellfmt.InvalidOffset (0xFFFFFFFF) except where noted, matching an
// on-disk key with no subkeys/values/class/security.
type NKOpts struct {
	Root        bool
	Compressed  bool // name stored as 8-bit bytes rather than UTF-16LE
	Name        string
	LastWrite   uint64
	Parent      uint32
	SubkeyCount uint32
	SubkeyList  uint32
	ValueCount  uint32
	ValueList   uint32
	Security    uint32
	ClassOffset uint32
	ClassLen    uint16
}

// NamedKey builds and appends an `nk` cell, returning its offset. Any of
// SubkeyList/ValueList/Security/ClassOffset left zero is encoded as
// cellfmt.InvalidOffset (no such list/class/security attached).
func (b *Builder) NamedKey(o NKOpts) uint32 {
	name := UTF16Name(o.Name)
	var flags uint16
	if o.Root {
		flags |= cellfmt.NKFlagRoot
	}
	if o.Compressed {
		flags |= cellfmt.NKFlagCompressedName
		name = ASCIIName(o.Name)
	}

	subkeyList := orInvalid(o.SubkeyList)
	valueList := orInvalid(o.ValueList)
	security := orInvalid(o.Security)
	classOff := orInvalid(o.ClassOffset)

	payload := make([]byte, cellfmt.NKFixedHeaderSize+len(name))
	copy(payload, cellfmt.NKSignature)
	binary.LittleEndian.PutUint16(payload[cellfmt.NKFlagsOffset:], flags)
	binary.LittleEndian.PutUint64(payload[cellfmt.NKLastWriteOffset:], o.LastWrite)
	binary.LittleEndian.PutUint32(payload[cellfmt.NKParentOffset:], o.Parent)
	binary.LittleEndian.PutUint32(payload[cellfmt.NKSubkeyCountOffset:], o.SubkeyCount)
	binary.LittleEndian.PutUint32(payload[cellfmt.NKSubkeyListOffset:], subkeyList)
	binary.LittleEndian.PutUint32(payload[cellfmt.NKVolSubkeyListOffset:], cellfmt.InvalidOffset)
	binary.LittleEndian.PutUint32(payload[cellfmt.NKValueCountOffset:], o.ValueCount)
	binary.LittleEndian.PutUint32(payload[cellfmt.NKValueListOffset:], valueList)
	binary.LittleEndian.PutUint32(payload[cellfmt.NKSecurityOffset:], security)
	binary.LittleEndian.PutUint32(payload[cellfmt.NKClassNameOffset:], classOff)
	binary.LittleEndian.PutUint16(payload[cellfmt.NKNameLenOffset:], uint16(len(name)))
	binary.LittleEndian.PutUint16(payload[cellfmt.NKClassLenOffset:], o.ClassLen)
	copy(payload[cellfmt.NKNameOffset:], name)

	return b.AddCell(payload)
}

func orInvalid(v uint32) uint32 {
	if v == 0 {
		return cellfmt.InvalidOffset
	}
	return v
}

// VKOpts configures ValueKey.
type VKOpts struct {
	Name       string
	ASCIIName  bool
	Type       uint32
	Inline     []byte // up to 4 bytes; sets the inline-data bit automatically
	DataLen    uint32 // used only when Inline is nil
	DataOffset uint32 // used only when Inline is nil
}

// ValueKey builds and appends a `vk` cell, returning its offset.
func (b *Builder) ValueKey(o VKOpts) uint32 {
	name := UTF16Name(o.Name)
	var flags uint16
	if o.ASCIIName {
		flags |= cellfmt.VKFlagASCIIName
		name = ASCIIName(o.Name)
	}

	var dataLen, dataOff uint32
	if o.Inline != nil {
		n := len(o.Inline)
		if n > 4 {
			n = 4
		}
		var buf [4]byte
		copy(buf[:], o.Inline[:n])
		dataOff = binary.LittleEndian.Uint32(buf[:])
		dataLen = uint32(n) | cellfmt.VKDataInlineBit
	} else {
		dataLen = o.DataLen
		dataOff = o.DataOffset
	}

	payload := make([]byte, cellfmt.VKFixedHeaderSize+len(name))
	copy(payload, cellfmt.VKSignature)
	binary.LittleEndian.PutUint16(payload[cellfmt.VKNameLenOffset:], uint16(len(name)))
	binary.LittleEndian.PutUint32(payload[cellfmt.VKDataLenOffset:], dataLen)
	binary.LittleEndian.PutUint32(payload[cellfmt.VKDataOffOffset:], dataOff)
	binary.LittleEndian.PutUint32(payload[cellfmt.VKTypeOffset:], o.Type)
	binary.LittleEndian.PutUint16(payload[cellfmt.VKFlagsOffset:], flags)
	copy(payload[cellfmt.VKNameOffset:], name)

	return b.AddCell(payload)
}

// LHEntry is one bucket of an `lh` subkey list: a child NK offset plus its
// precomputed name hash.
type LHEntry struct {
	Offset uint32
	Hash   uint32
}

// LH builds an `lh` (hashed) subkey list cell.
func (b *Builder) LH(entries []LHEntry) uint32 {
	payload := make([]byte, cellfmt.ListHeaderSize+len(entries)*cellfmt.LFEntrySize)
	copy(payload, cellfmt.LHSignature)
	binary.LittleEndian.PutUint16(payload[cellfmt.IdxCountOffset:], uint16(len(entries)))
	for i, e := range entries {
		base := cellfmt.ListHeaderSize + i*cellfmt.LFEntrySize
		binary.LittleEndian.PutUint32(payload[base:], e.Offset)
		binary.LittleEndian.PutUint32(payload[base+4:], e.Hash)
	}
	return b.AddCell(payload)
}

// LFEntry is one bucket of an `lf` subkey list: a child NK offset plus the
// literal first 4 bytes of its name (used as a coarse pre-filter hint by
// real registry tools; this module's lookup path re-derives a hash and
// falls back to full comparison regardless, so LF entries may carry zero
// hints in tests).
type LFEntry struct {
	Offset uint32
	Hint   uint32
}

// LF builds an `lf` (literal-prefix) subkey list cell.
func (b *Builder) LF(entries []LFEntry) uint32 {
	payload := make([]byte, cellfmt.ListHeaderSize+len(entries)*cellfmt.LFEntrySize)
	copy(payload, cellfmt.LFSignature)
	binary.LittleEndian.PutUint16(payload[cellfmt.IdxCountOffset:], uint16(len(entries)))
	for i, e := range entries {
		base := cellfmt.ListHeaderSize + i*cellfmt.LFEntrySize
		binary.LittleEndian.PutUint32(payload[base:], e.Offset)
		binary.LittleEndian.PutUint32(payload[base+4:], e.Hint)
	}
	return b.AddCell(payload)
}

// LI builds an `li` (plain offset array) subkey list cell.
func (b *Builder) LI(offsets []uint32) uint32 {
	payload := make([]byte, cellfmt.ListHeaderSize+len(offsets)*cellfmt.OffsetFieldSize)
	copy(payload, cellfmt.LISignature)
	binary.LittleEndian.PutUint16(payload[cellfmt.IdxCountOffset:], uint16(len(offsets)))
	for i, o := range offsets {
		binary.LittleEndian.PutUint32(payload[cellfmt.ListHeaderSize+i*cellfmt.OffsetFieldSize:], o)
	}
	return b.AddCell(payload)
}

// RI builds an `ri` (index-of-indices) subkey list cell, each entry
// pointing at a further lf/lh/li/ri cell.
func (b *Builder) RI(offsets []uint32) uint32 {
	payload := make([]byte, cellfmt.ListHeaderSize+len(offsets)*cellfmt.OffsetFieldSize)
	copy(payload, cellfmt.RISignature)
	binary.LittleEndian.PutUint16(payload[cellfmt.IdxCountOffset:], uint16(len(offsets)))
	for i, o := range offsets {
		binary.LittleEndian.PutUint32(payload[cellfmt.ListHeaderSize+i*cellfmt.OffsetFieldSize:], o)
	}
	return b.AddCell(payload)
}

// ValueList builds the value-offset vector an NK's ValueList field points
// at: a bare array of VK cell offsets, with no header of its own.
func (b *Builder) ValueList(offsets []uint32) uint32 {
	payload := make([]byte, len(offsets)*cellfmt.OffsetFieldSize)
	for i, o := range offsets {
		binary.LittleEndian.PutUint32(payload[i*cellfmt.OffsetFieldSize:], o)
	}
	return b.AddCell(payload)
}

// BigData builds a complete `db` big-data chain for segments (each
// already-built as a raw data cell via RawCell) and returns the `db`
// cell's offset, suitable as a VK's DataOffset with DataLen equal to the
// chain's total logical length.
func (b *Builder) BigData(segments []uint32) uint32 {
	blocklist := b.ValueList(segments)
	payload := make([]byte, cellfmt.DBHeaderSize)
	copy(payload, cellfmt.DBSignature)
	binary.LittleEndian.PutUint16(payload[cellfmt.DBNumBlocksOffset:], uint16(len(segments)))
	binary.LittleEndian.PutUint32(payload[cellfmt.DBBlocklistOffset:], blocklist)
	return b.AddCell(payload)
}

// SecurityKey builds an `sk` cell holding a raw, unparsed security
// descriptor blob plus its ring links (spec §3 [EXPANSION]).
func (b *Builder) SecurityKey(flink, blink, refCount uint32, descriptor []byte) uint32 {
	payload := make([]byte, cellfmt.SKHeaderSize+len(descriptor))
	copy(payload, cellfmt.SKSignature)
	binary.LittleEndian.PutUint32(payload[cellfmt.SKFlinkOffset:], flink)
	binary.LittleEndian.PutUint32(payload[cellfmt.SKBlinkOffset:], blink)
	binary.LittleEndian.PutUint32(payload[cellfmt.SKReferenceCountOffset:], refCount)
	binary.LittleEndian.PutUint32(payload[cellfmt.SKDescriptorLengthOffset:], uint32(len(descriptor)))
	copy(payload[cellfmt.SKDescriptorOffset:], descriptor)
	return b.AddCell(payload)
}
