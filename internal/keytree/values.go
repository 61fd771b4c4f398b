package keytree

import (
	"context"

	"github.com/cerata/regf/internal/cellfmt"
)

// Values returns this key's value handles in on-disk order. Entries holding
// InvalidOffset are skipped and mark the key corrupted, per §4.6: a broken
// entry in the value list does not hide the rest. Other offsets are
// returned without being resolved; one that is out of range surfaces as an
// error from Value.
func (k *Key) Values(ctx context.Context) ([]ValueID, error) {
	if k.rec.ValueCount == 0 || k.rec.ValueListOffset == cellfmt.InvalidOffset {
		return nil, nil
	}
	cell, err := k.tree.store.CellAt(ctx, k.rec.ValueListOffset)
	if err != nil || cell.Free {
		k.corrupted = true
		return nil, nil
	}
	offsets, err := cellfmt.DecodeValueList(cell.Data, k.rec.ValueCount)
	if err != nil {
		k.corrupted = true
		return nil, nil
	}
	out := make([]ValueID, 0, len(offsets))
	for _, off := range offsets {
		if off == cellfmt.InvalidOffset {
			k.corrupted = true
			continue
		}
		out = append(out, ValueID(off))
	}
	return out, nil
}

// Value returns the value at logical index i (0-based), or ErrNotFound if
// out of range.
func (k *Key) Value(ctx context.Context, i int) (*Value, error) {
	ids, err := k.Values(ctx)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(ids) {
		return nil, ErrNotFound
	}
	return k.tree.value(ctx, ids[i])
}

// ValueByName looks up a value by name, case-insensitively, on this key.
// Use "" for the key's unnamed/default value. Returns (nil, nil) — not an
// error — when no value matches.
func (k *Key) ValueByName(ctx context.Context, name string) (*Value, error) {
	ids, err := k.Values(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if k.tree.aborted() {
			return nil, ErrAborted
		}
		v, err := k.tree.value(ctx, id)
		if err != nil {
			continue
		}
		vn, err := v.Name()
		if err != nil {
			continue
		}
		if equalFold(vn, name) {
			return v, nil
		}
	}
	return nil, nil
}

// Value resolves id to a decoded VK record. The cell must be allocated and
// carry the `vk` signature; any other outcome is ErrCorrupt.
func (t *Tree) Value(ctx context.Context, id ValueID) (*Value, error) {
	return t.value(ctx, id)
}

// value resolves id to a decoded VK record.
func (t *Tree) value(ctx context.Context, id ValueID) (*Value, error) {
	cell, err := t.store.CellAt(ctx, uint32(id))
	if err != nil {
		return nil, err
	}
	if cell.Free || cell.Tag != [2]byte{'v', 'k'} {
		return nil, ErrCorrupt
	}
	rec, err := cellfmt.DecodeVK(cell.Data)
	if err != nil {
		return nil, ErrCorrupt
	}
	return &Value{tree: t, id: id, rec: rec}, nil
}
