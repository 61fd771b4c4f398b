package keytree

import (
	"context"
	"encoding/binary"

	"github.com/cerata/regf/internal/cellfmt"
)

// Value is a decoded VK cell: a registry value's name/type metadata plus a
// lazy, possibly-big-data-backed data reader (spec §4.6).
type Value struct {
	tree      *Tree
	id        ValueID
	rec       cellfmt.VKRecord
	corrupted bool
	data      []byte
	dataErr   error
	resolved  bool
}

// ID returns this value's cell offset.
func (v *Value) ID() ValueID { return v.id }

// Name decodes and returns the value's name ("" for the default value).
func (v *Value) Name() (string, error) {
	return v.tree.decodeName(v.rec.NameRaw, v.rec.NameIsASCII())
}

// TypeCode returns the raw registry type (REG_* constant or an
// implementation-defined numeric code for unrecognized types; spec §9
// Open Question (b)).
func (v *Value) TypeCode() uint32 { return v.rec.Type }

// DataSize returns the value's logical data length.
func (v *Value) DataSize() int { return v.rec.InlineLength() }

// IsInline reports whether the data is stored in the VK record itself.
func (v *Value) IsInline() bool { return v.rec.DataInline() }

// IsCorrupted reports whether ReadData encountered truncated or
// out-of-range big-data segments. Only meaningful after ReadData has run.
func (v *Value) IsCorrupted() bool { return v.corrupted }

// ReadData returns the value's raw bytes, resolving inline storage, a
// direct cell reference, or a `db` big-data chain as needed (spec
// §4.6.1). The result is cached: subsequent calls are free. On a
// corruption, the partial bytes read so far are returned alongside the
// error, per §7's propagation policy for localized value damage.
func (v *Value) ReadData(ctx context.Context) ([]byte, error) {
	if v.resolved {
		return v.data, v.dataErr
	}
	data, err := v.resolveData(ctx)
	v.data, v.dataErr, v.resolved = data, err, true
	if err != nil {
		v.corrupted = true
	}
	return data, err
}

func (v *Value) resolveData(ctx context.Context) ([]byte, error) {
	if v.rec.DataInline() {
		n := v.rec.InlineLength()
		if n > 4 {
			n = 4
		}
		if n < 0 {
			n = 0
		}
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], v.rec.DataOffset)
		out := make([]byte, n)
		copy(out, buf[:n])
		return out, nil
	}

	length := int(v.rec.DataLength & cellfmt.VKDataLengthMask)
	if length == 0 {
		return nil, nil
	}
	if v.tree.maxValue > 0 && int64(length) > v.tree.maxValue {
		return nil, ErrLengthExceedsMaximum
	}
	cell, err := v.tree.store.CellAt(ctx, v.rec.DataOffset)
	if err != nil {
		return nil, err
	}
	if cellfmt.IsDBRecord(cell.Data) {
		return v.readBigData(ctx, cell.Data, length)
	}
	if length > len(cell.Data) {
		return cell.Data, ErrCorrupt
	}
	return cell.Data[:length], nil
}

// readBigData reassembles a `db`-backed value: every non-terminal segment
// contributes exactly cellfmt.DBChunkSize bytes, the last contributes the
// remainder (spec §4.6.1, testable property 6).
func (v *Value) readBigData(ctx context.Context, dbPayload []byte, total int) ([]byte, error) {
	db, err := cellfmt.DecodeDB(dbPayload)
	if err != nil {
		return nil, err
	}
	if db.NumBlocks < cellfmt.DBMinBlockCount {
		return nil, ErrCorrupt
	}
	listCell, err := v.tree.store.CellAt(ctx, db.BlocklistOffset)
	if err != nil {
		return nil, err
	}
	need := int(db.NumBlocks) * cellfmt.OffsetFieldSize
	if need > len(listCell.Data) {
		return nil, ErrCorrupt
	}

	out := make([]byte, 0, total)
	remaining := total
	for i := 0; i < int(db.NumBlocks) && remaining > 0; i++ {
		segOff := leU32(listCell.Data[i*cellfmt.OffsetFieldSize:])
		segCell, err := v.tree.store.CellAt(ctx, segOff)
		if err != nil {
			return out, ErrCorrupt
		}
		want := cellfmt.DBChunkSize
		if remaining < want {
			want = remaining
		}
		if want > len(segCell.Data) {
			out = append(out, segCell.Data...)
			remaining -= len(segCell.Data)
			return out, ErrCorrupt
		}
		out = append(out, segCell.Data[:want]...)
		remaining -= want
	}
	if remaining > 0 {
		return out, ErrCorrupt
	}
	return out, nil
}

func leU32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// AsU32 decodes a REG_DWORD_LITTLE_ENDIAN/REG_DWORD_BIG_ENDIAN value.
func (v *Value) AsU32(ctx context.Context) (uint32, error) {
	if v.rec.Type != cellfmt.RegDword && v.rec.Type != cellfmt.RegDwordBE {
		return 0, ErrTypeMismatch
	}
	if v.DataSize() != 4 {
		return 0, ErrTypeMismatch
	}
	data, err := v.ReadData(ctx)
	if err != nil || len(data) < 4 {
		return 0, ErrCorrupt
	}
	if v.rec.Type == cellfmt.RegDwordBE {
		return uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]), nil
	}
	return uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24, nil
}

// AsU64 decodes a REG_QWORD_LITTLE_ENDIAN value.
func (v *Value) AsU64(ctx context.Context) (uint64, error) {
	if v.rec.Type != cellfmt.RegQword || v.DataSize() != 8 {
		return 0, ErrTypeMismatch
	}
	data, err := v.ReadData(ctx)
	if err != nil || len(data) < 8 {
		return 0, ErrCorrupt
	}
	var x uint64
	for i := 7; i >= 0; i-- {
		x = x<<8 | uint64(data[i])
	}
	return x, nil
}

// AsStringUTF16 decodes REG_SZ/REG_EXPAND_SZ/REG_LINK value data. A
// trailing UTF-16 NUL is stripped; an odd byte length truncates the final
// byte. Per spec §9 Open Question (c), a 4-byte inline payload that
// decodes to an empty wide string is tolerated for REG_SZ/REG_EXPAND_SZ
// even though the field nominally declared more bytes than the string
// itself needs.
func (v *Value) AsStringUTF16(ctx context.Context) (string, error) {
	switch v.rec.Type {
	case cellfmt.RegSz, cellfmt.RegExpandSz, cellfmt.RegLink:
	default:
		return "", ErrTypeMismatch
	}
	data, err := v.ReadData(ctx)
	if err != nil {
		return "", err
	}
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	if len(data) >= 2 && data[0] == 0 && data[1] == 0 {
		return "", nil
	}
	if len(data) >= 2 && data[len(data)-2] == 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-2]
	}
	return decodeUTF16LE(data), nil
}

// AsMultiString decodes a REG_MULTI_SZ value: UTF-16LE strings separated
// by NULs, terminating at the first empty string or end-of-data (spec
// §4.6.2).
func (v *Value) AsMultiString(ctx context.Context) ([]string, error) {
	if v.rec.Type != cellfmt.RegMultiSz {
		return nil, ErrTypeMismatch
	}
	data, err := v.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	var out []string
	start := 0
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			if i == start {
				break
			}
			out = append(out, decodeUTF16LE(data[start:i]))
			start = i + 2
		}
	}
	if start < len(data) {
		out = append(out, decodeUTF16LE(data[start:]))
	}
	return out, nil
}
