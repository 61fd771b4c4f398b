package regf

import (
	"context"

	"github.com/cerata/regf/internal/keytree"
)

// Value is a handle to a decoded VK cell: a registry value's name/type
// metadata plus a lazy, possibly big-data-backed data reader (spec §4.6).
type Value struct {
	inner *keytree.Value
}

func wrapValue(v *keytree.Value) *Value {
	if v == nil {
		return nil
	}
	return &Value{inner: v}
}

// ID returns this value's cell offset.
func (v *Value) ID() ValueID { return v.inner.ID() }

// Name decodes and returns the value's name ("" for the default value).
func (v *Value) Name() (string, error) {
	s, err := v.inner.Name()
	return s, wrapErr(err)
}

// TypeCode returns the value's declared registry type.
func (v *Value) TypeCode() RegType { return RegType(v.inner.TypeCode()) }

// DataSize returns the value's logical data length.
func (v *Value) DataSize() int { return v.inner.DataSize() }

// IsInline reports whether the data is stored in the VK record itself.
func (v *Value) IsInline() bool { return v.inner.IsInline() }

// IsCorrupted reports whether ReadData encountered truncated or
// out-of-range big-data segments. Only meaningful after ReadData has run.
func (v *Value) IsCorrupted() bool { return v.inner.IsCorrupted() }

// ReadData returns the value's raw bytes, resolving inline storage, a
// direct cell reference, or a `db` big-data chain as needed (spec
// §4.6.1). The result is cached: subsequent calls are free. On corruption,
// the partial bytes read so far are returned alongside the error, per
// §7's propagation policy for localized value damage.
func (v *Value) ReadData(ctx context.Context) ([]byte, error) {
	b, err := v.inner.ReadData(ctx)
	return b, wrapErr(err)
}

// AsU32 decodes a REG_DWORD/REG_DWORD_BIG_ENDIAN value.
func (v *Value) AsU32(ctx context.Context) (uint32, error) {
	n, err := v.inner.AsU32(ctx)
	return n, wrapErr(err)
}

// AsU64 decodes a REG_QWORD value.
func (v *Value) AsU64(ctx context.Context) (uint64, error) {
	n, err := v.inner.AsU64(ctx)
	return n, wrapErr(err)
}

// AsStringUTF16 decodes REG_SZ/REG_EXPAND_SZ/REG_LINK value data.
func (v *Value) AsStringUTF16(ctx context.Context) (string, error) {
	s, err := v.inner.AsStringUTF16(ctx)
	return s, wrapErr(err)
}

// AsMultiString decodes a REG_MULTI_SZ value.
func (v *Value) AsMultiString(ctx context.Context) ([]string, error) {
	s, err := v.inner.AsMultiString(ctx)
	return s, wrapErr(err)
}
