// Package keytree assembles the low-level cell decoders in internal/cellfmt
// into the navigable key/value graph: named keys, their subkey and value
// lists, big-data reassembly, path lookup, and bounded traversal.
package keytree

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/cerata/regf/internal/cellfmt"
	"github.com/cerata/regf/internal/cellstore"
)

// maxSubkeyListDepth bounds `ri` index-of-indices recursion (spec §4.5/§9).
const maxSubkeyListDepth = 32

// maxPathComponents bounds the number of `\`-separated segments a
// FindByPath call will walk, regardless of input (spec §9).
const maxPathComponents = 256

// CodepageDecoder is the external collaborator used to translate
// compressed (8-bit) NK/VK names to UTF-8. The core never hardcodes a
// codepage table; see internal/codepage for the module's default.
type CodepageDecoder interface {
	Decode(codepage uint32, b []byte) (string, error)
}

// Tree is the high-level navigator over a decoded hive's cell graph: root
// key, child-by-name, and path lookup (spec §4.7), built on top of a
// cellstore.Store.
type Tree struct {
	store      *cellstore.Store
	cp         CodepageDecoder
	codepage   uint32
	rootOffset uint32
	maxValue   int64
	abort      atomic.Bool
}

// New builds a Tree over an already-open cellstore.Store. rootOffset is the
// hive-relative root-cell offset from the base block (spec §3).
func New(store *cellstore.Store, cp CodepageDecoder, codepage uint32, rootOffset uint32) *Tree {
	return &Tree{store: store, cp: cp, codepage: codepage, rootOffset: rootOffset}
}

// SetMaxValueSize bounds the reassembled length ReadData will produce for
// any single value; zero (the default) leaves it unbounded beyond what the
// VK's own declared length already implies (spec §5: "any decoded length
// exceeding a configurable maximum fails before allocation").
func (t *Tree) SetMaxValueSize(n int64) { t.maxValue = n }

// Abort requests cancellation of any in-flight traversal. Checked at
// subkey/value iteration boundaries (spec §5); already-returned results are
// unaffected, but further calls may return ErrAborted.
func (t *Tree) Abort() { t.abort.Store(true) }

func (t *Tree) aborted() bool { return t.abort.Load() }

// Root returns the root key of the hive.
func (t *Tree) Root(ctx context.Context) (*Key, error) {
	return t.Key(ctx, NodeID(t.rootOffset))
}

// Key resolves id to a decoded NK record. The cell must be allocated and
// carry the `nk` signature; any other outcome is a propagating error since
// it means the containing cell itself cannot be interpreted (spec §7).
func (t *Tree) Key(ctx context.Context, id NodeID) (*Key, error) {
	cell, err := t.store.CellAt(ctx, uint32(id))
	if err != nil {
		return nil, err
	}
	if cell.Free {
		return nil, ErrCorrupt
	}
	if cell.Tag != [2]byte{'n', 'k'} {
		return nil, ErrCorrupt
	}
	rec, err := cellfmt.DecodeNK(cell.Data)
	if err != nil {
		return nil, ErrCorrupt
	}
	return &Key{tree: t, id: id, rec: rec}, nil
}

// decodeName converts a raw NK/VK name to UTF-8: compressed names go
// through the codepage decoder, wide names through UTF-16LE.
func (t *Tree) decodeName(raw []byte, compressed bool) (string, error) {
	if !compressed {
		return decodeUTF16LE(raw), nil
	}
	if t.cp == nil {
		return string(raw), nil
	}
	s, err := t.cp.Decode(t.codepage, raw)
	if err != nil {
		return string(raw), nil
	}
	return s, nil
}

// FindByPath resolves a `\`-separated sequence of key names starting from
// the root. A leading backslash is tolerated and stripped; an empty path
// returns the root itself (spec §4.7). Returns (nil, nil) for "no such
// key" and a non-nil error only for I/O or structural failures.
func (t *Tree) FindByPath(ctx context.Context, path string) (*Key, error) {
	root, err := t.Root(ctx)
	if err != nil {
		return nil, err
	}
	path = strings.TrimPrefix(path, `\`)
	if path == "" {
		return root, nil
	}
	parts := strings.Split(path, `\`)
	if len(parts) > maxPathComponents {
		return nil, ErrCorrupt
	}
	cur := root
	for _, part := range parts {
		if part == "" {
			continue
		}
		if t.aborted() {
			return nil, ErrAborted
		}
		next, err := cur.SubkeyByName(ctx, part)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		cur = next
	}
	return cur, nil
}

// Walk performs a pre-order traversal of the subtree rooted at id, invoking
// fn for every key reached. Traversal checks the abort flag at each subkey
// boundary (spec §5/§4.8). Cycle-safety does not depend on a visited set in
// the well-formed case (offsets are validated and the graph is a tree by
// construction), but an adversarial hive can still alias the same cell
// offset from two different subkey-list slots; a set of visited cell
// offsets turns a would-be infinite walk into an ErrCorrupt error instead
// of a hang.
func (t *Tree) Walk(ctx context.Context, id NodeID, fn func(*Key) error) error {
	visited := make(map[uint32]struct{})
	return t.walk(ctx, id, fn, visited)
}

func (t *Tree) walk(ctx context.Context, id NodeID, fn func(*Key) error, visited map[uint32]struct{}) error {
	if t.aborted() {
		return ErrAborted
	}
	if _, seen := visited[uint32(id)]; seen {
		return ErrCorrupt
	}
	visited[uint32(id)] = struct{}{}

	key, err := t.Key(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(key); err != nil {
		return err
	}
	children, err := key.Subkeys(ctx)
	if err != nil {
		return err
	}
	for _, child := range children {
		if t.aborted() {
			return ErrAborted
		}
		if err := t.walk(ctx, child, fn, visited); err != nil {
			return err
		}
	}
	return nil
}

// equalFold reports whether a and b are equal under the case-insensitive
// comparison FindByPath/SubkeyByName use. strings.EqualFold already
// implements full Unicode case folding, which is a superset of the
// kernel's BMP-uppercase convention for every name that stays in Basic
// Latin (the common case); see upperUTF16 in hash.go for the hash-side
// mapping.
func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
