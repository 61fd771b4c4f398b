package regf

import (
	"context"
	"time"

	"github.com/cerata/regf/internal/keytree"
)

// Key is a handle to a decoded NK cell: a registry key's metadata plus
// lazy accessors for its subkeys, values, class name, and security
// descriptor. Key handles are views bound to the owning Hive; they become
// invalid once the hive is closed.
type Key struct {
	inner *keytree.Key
}

func wrapKey(k *keytree.Key) *Key {
	if k == nil {
		return nil
	}
	return &Key{inner: k}
}

// ID returns this key's cell offset, usable as a stable handle.
func (k *Key) ID() NodeID { return k.inner.ID() }

// Name decodes and returns the key's name.
func (k *Key) Name() (string, error) {
	s, err := k.inner.Name()
	return s, wrapErr(err)
}

// IsRoot reports whether this key is the hive's root.
func (k *Key) IsRoot() bool { return k.inner.IsRoot() }

// LastWritten returns the key's last-modified timestamp.
func (k *Key) LastWritten() time.Time { return k.inner.LastWritten() }

// SubkeyCount returns the NK's declared subkey count. It may exceed the
// number actually enumerable if the key is corrupted; use
// len(Subkeys()) for the count actually readable.
func (k *Key) SubkeyCount() uint32 { return k.inner.SubkeyCount() }

// ValueCount returns the NK's declared value count.
func (k *Key) ValueCount() uint32 { return k.inner.ValueCount() }

// IsCorrupted reports whether this key's subkey list, value list, or any
// child resolved so far was found malformed. It only reflects accesses
// already performed; call Subkeys/Values first to force a full check.
func (k *Key) IsCorrupted() bool { return k.inner.IsCorrupted() }

// ParentID returns the raw parent-key cell offset.
func (k *Key) ParentID() NodeID { return k.inner.ParentID() }

// Parent resolves and returns the parent key, or (nil, nil) if this key is
// the root.
func (k *Key) Parent(ctx context.Context) (*Key, error) {
	p, err := k.inner.Parent(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}
	return wrapKey(p), nil
}

// ClassName resolves and decodes the key's optional class name, returning
// ("", nil) if none is present.
func (k *Key) ClassName(ctx context.Context) (string, error) {
	s, err := k.inner.ClassName(ctx)
	return s, wrapErr(err)
}

// SecurityDescriptor resolves the SK cell referenced by this key, exposing
// the raw SECURITY_DESCRIPTOR_RELATIVE bytes and ring links without
// attempting any ACL interpretation (spec §3 [EXPANSION]). Returns
// (nil, nil) when the key has no security offset.
func (k *Key) SecurityDescriptor(ctx context.Context) (*SecurityDescriptor, error) {
	sd, err := k.inner.SecurityDescriptor(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}
	if sd == nil {
		return nil, nil
	}
	return &SecurityDescriptor{
		Flink:          sd.Flink,
		Blink:          sd.Blink,
		ReferenceCount: sd.ReferenceCount,
		Descriptor:     sd.Descriptor,
	}, nil
}

// Subkeys returns the ordered list of this key's direct children. A
// mismatch between the NK's declared subkey count and the number actually
// enumerable marks the key corrupted but still returns whatever entries
// were readable (spec §4.5).
func (k *Key) Subkeys(ctx context.Context) ([]NodeID, error) {
	ids, err := k.inner.Subkeys(ctx)
	return ids, wrapErr(err)
}

// Subkey returns the child at logical index i (0-based), or ErrNotFound if
// i is out of range.
func (k *Key) Subkey(ctx context.Context, i int) (*Key, error) {
	s, err := k.inner.Subkey(ctx, i)
	if err != nil {
		return nil, wrapErr(err)
	}
	return wrapKey(s), nil
}

// SubkeyByName looks up a direct child by name, case-insensitively.
// Returns (nil, nil) — not an error — when no child matches (spec §7:
// NotFound is a zero result, not an error).
func (k *Key) SubkeyByName(ctx context.Context, name string) (*Key, error) {
	s, err := k.inner.SubkeyByName(ctx, name)
	if err != nil {
		return nil, wrapErr(err)
	}
	return wrapKey(s), nil
}

// Values returns this key's value handles in on-disk order.
func (k *Key) Values(ctx context.Context) ([]ValueID, error) {
	ids, err := k.inner.Values(ctx)
	return ids, wrapErr(err)
}

// Value returns the value at logical index i (0-based), or ErrNotFound if
// out of range.
func (k *Key) Value(ctx context.Context, i int) (*Value, error) {
	v, err := k.inner.Value(ctx, i)
	if err != nil {
		return nil, wrapErr(err)
	}
	return wrapValue(v), nil
}

// ValueByName looks up a value by name, case-insensitively, on this key.
// Use "" for the key's unnamed/default value. Returns (nil, nil) — not an
// error — when no value matches.
func (k *Key) ValueByName(ctx context.Context, name string) (*Value, error) {
	v, err := k.inner.ValueByName(ctx, name)
	if err != nil {
		return nil, wrapErr(err)
	}
	return wrapValue(v), nil
}
