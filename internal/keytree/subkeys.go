package keytree

import (
	"context"

	"github.com/cerata/regf/internal/cellfmt"
)

// collectSubkeyList resolves a subkey-list cell (lf/lh/li, recursing through
// ri index-of-indices) into a flat, ordered slice of entries. depth bounds
// `ri` recursion at the spec's cap of 32; crossing it is reported as a
// localized corruption rather than an error, matching the propagation
// policy for subkey-list damage (§7: failures local to one key's subkey
// list do not fail the parent operation).
func (t *Tree) collectSubkeyList(ctx context.Context, offset uint32, expected uint32, depth int) ([]cellfmt.SubkeyEntry, bool) {
	if depth > maxSubkeyListDepth {
		return nil, true
	}
	if offset == cellfmt.InvalidOffset {
		return nil, false
	}
	cell, err := t.store.CellAt(ctx, offset)
	if err != nil || cell.Free {
		return nil, true
	}
	if cellfmt.IsRIList(cell.Data) {
		riOffsets, err := cellfmt.DecodeRIList(cell.Data)
		if err != nil {
			return nil, true
		}
		var out []cellfmt.SubkeyEntry
		corrupted := false
		for _, ro := range riOffsets {
			if t.aborted() {
				corrupted = true
				break
			}
			sub, c := t.collectSubkeyList(ctx, ro, 0, depth+1)
			out = append(out, sub...)
			corrupted = corrupted || c
		}
		return out, corrupted
	}
	entries, err := cellfmt.DecodeSubkeyListEntries(cell.Data, expected)
	if err != nil {
		return nil, true
	}
	return entries, expected != 0 && uint32(len(entries)) != expected
}

// Subkeys returns the ordered list of this key's direct children. A
// mismatch between the NK's declared subkey count and the number actually
// enumerable marks the key corrupted but still returns whatever entries
// were readable (spec §4.5).
func (k *Key) Subkeys(ctx context.Context) ([]NodeID, error) {
	if k.rec.SubkeyCount == 0 || k.rec.SubkeyListOffset == cellfmt.InvalidOffset {
		return nil, nil
	}
	entries, corrupted := k.tree.collectSubkeyList(ctx, k.rec.SubkeyListOffset, k.rec.SubkeyCount, 0)
	if uint32(len(entries)) != k.rec.SubkeyCount {
		corrupted = true
	}
	if corrupted {
		k.corrupted = true
	}
	ids := make([]NodeID, len(entries))
	for i, e := range entries {
		ids[i] = NodeID(e.Offset)
	}
	return ids, nil
}

// Subkey returns the child at logical index i (0-based), or ErrNotFound if
// i is out of range.
func (k *Key) Subkey(ctx context.Context, i int) (*Key, error) {
	ids, err := k.Subkeys(ctx)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(ids) {
		return nil, ErrNotFound
	}
	return k.tree.Key(ctx, ids[i])
}

// SubkeyByName looks up a direct child by name, case-insensitively. When
// the underlying list is `lh`, non-matching hash buckets are skipped
// without decoding their name; any match is confirmed (or a hash collision
// rejected) by a full name comparison, so is_corrupted/comparison semantics
// never depend on the hash alone. Returns (nil, nil) — not an error — when
// no child matches, per §7's "NotFound is a zero result, not an error".
func (k *Key) SubkeyByName(ctx context.Context, name string) (*Key, error) {
	if k.rec.SubkeyCount == 0 || k.rec.SubkeyListOffset == cellfmt.InvalidOffset {
		return nil, nil
	}
	entries, corrupted := k.tree.collectSubkeyList(ctx, k.rec.SubkeyListOffset, k.rec.SubkeyCount, 0)
	if uint32(len(entries)) != k.rec.SubkeyCount {
		corrupted = true
	}
	if corrupted {
		k.corrupted = true
	}
	units := utf16Units(name)
	wantHash := lhHash(units)
	for _, e := range entries {
		if k.tree.aborted() {
			return nil, ErrAborted
		}
		if e.HasHint && e.Hashed && e.Hint != wantHash {
			continue
		}
		child, err := k.tree.Key(ctx, NodeID(e.Offset))
		if err != nil {
			continue
		}
		childName, err := child.Name()
		if err != nil {
			continue
		}
		if equalFold(childName, name) {
			return child, nil
		}
	}
	return nil, nil
}

// utf16Units widens a UTF-8 string to its UTF-16 code units (no surrogate
// pairing needed here: only used to feed the same hash function the kernel
// applies to on-disk UTF-16 names).
func utf16Units(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		if r > 0xFFFF {
			r = 0xFFFD
		}
		out = append(out, uint16(r))
	}
	return out
}
