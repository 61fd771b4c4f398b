package keytree

import (
	"context"
	"time"

	"github.com/cerata/regf/internal/cellfmt"
)

// Key is a decoded NK cell: a registry key's metadata plus lazy accessors
// for its subkeys, values, class name, and security descriptor. Key
// handles are views bound to the owning Tree/Store; they become invalid
// once the hive is closed.
type Key struct {
	tree      *Tree
	id        NodeID
	rec       cellfmt.NKRecord
	corrupted bool
}

// ID returns this key's cell offset, usable as a stable handle.
func (k *Key) ID() NodeID { return k.id }

// Name decodes and returns the key's name.
func (k *Key) Name() (string, error) {
	return k.tree.decodeName(k.rec.NameRaw, k.rec.NameIsCompressed())
}

// IsRoot reports whether this key is the hive's root (NK flag 0x0002).
func (k *Key) IsRoot() bool { return k.rec.IsRoot() }

// LastWritten returns the key's last-modified timestamp.
func (k *Key) LastWritten() time.Time { return cellfmt.FiletimeToTime(k.rec.LastWriteRaw) }

// SubkeyCount returns the NK's declared subkey count. It may exceed the
// number actually enumerable if the key is corrupted; use len(Subkeys())
// for the count actually readable.
func (k *Key) SubkeyCount() uint32 { return k.rec.SubkeyCount }

// ValueCount returns the NK's declared value count.
func (k *Key) ValueCount() uint32 { return k.rec.ValueCount }

// IsCorrupted reports whether this key's subkey list, value list, or any
// child resolved so far was found malformed. It only reflects accesses
// already performed; call Subkeys/Values first to force a full check.
func (k *Key) IsCorrupted() bool { return k.corrupted }

// ParentID returns the raw parent-key cell offset. Resolution always goes
// through the Tree (see Parent), never a stored reference.
func (k *Key) ParentID() NodeID { return NodeID(k.rec.ParentOffset) }

// Parent resolves and returns the parent key, or (nil, nil) if this key is
// the root (no parent).
func (k *Key) Parent(ctx context.Context) (*Key, error) {
	if k.rec.IsRoot() || k.rec.ParentOffset == cellfmt.InvalidOffset {
		return nil, nil
	}
	return k.tree.Key(ctx, NodeID(k.rec.ParentOffset))
}

// ClassName resolves and decodes the key's optional class name, returning
// ("", nil) if none is present. Class data is always stored as UTF-16LE
// (the ASCII/compressed-name flag only governs the key's own name).
func (k *Key) ClassName(ctx context.Context) (string, error) {
	if k.rec.ClassLength == 0 || k.rec.ClassNameOffset == cellfmt.InvalidOffset {
		return "", nil
	}
	cell, err := k.tree.store.CellAt(ctx, k.rec.ClassNameOffset)
	if err != nil {
		k.corrupted = true
		return "", nil
	}
	n := int(k.rec.ClassLength)
	if n > len(cell.Data) {
		k.corrupted = true
		n = len(cell.Data)
	}
	return decodeUTF16LE(cell.Data[:n]), nil
}

// SecurityDescriptor resolves the SK cell referenced by this key, exposing
// the raw SECURITY_DESCRIPTOR_RELATIVE bytes and ring links without
// attempting any ACL interpretation (spec §3 [EXPANSION], §1 non-goals).
// Returns (nil, nil) when the key has no security offset.
func (k *Key) SecurityDescriptor(ctx context.Context) (*SecurityDescriptor, error) {
	if k.rec.SecurityOffset == cellfmt.InvalidOffset {
		return nil, nil
	}
	cell, err := k.tree.store.CellAt(ctx, k.rec.SecurityOffset)
	if err != nil || cell.Free || cell.Tag != [2]byte{'s', 'k'} {
		k.corrupted = true
		return nil, nil
	}
	rec, descStart, descLen, err := cellfmt.DecodeSK(cell.Data, 0)
	if err != nil {
		k.corrupted = true
		return nil, nil
	}
	if descStart < 0 || descStart+descLen > len(cell.Data) {
		k.corrupted = true
		return nil, nil
	}
	blob := make([]byte, descLen)
	copy(blob, cell.Data[descStart:descStart+descLen])
	return &SecurityDescriptor{
		Flink:          rec.Flink,
		Blink:          rec.Blink,
		ReferenceCount: rec.ReferenceCount,
		Descriptor:     blob,
	}, nil
}

// SecurityDescriptor is the raw, unparsed content of an `sk` cell.
type SecurityDescriptor struct {
	Flink          uint32
	Blink          uint32
	ReferenceCount uint32
	Descriptor     []byte
}
