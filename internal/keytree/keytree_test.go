package keytree_test

import (
	"context"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/cerata/regf/internal/bytesource"
	"github.com/cerata/regf/internal/cellfmt"
	"github.com/cerata/regf/internal/cellstore"
	"github.com/cerata/regf/internal/keytree"
	"github.com/cerata/regf/internal/testutil/hivebuild"
)

func openTree(t *testing.T, b *hivebuild.Builder, rootOff uint32) *keytree.Tree {
	t.Helper()
	img := b.Bytes()
	header, err := cellfmt.ParseHeader(img[:cellfmt.HeaderSize])
	require.NoError(t, err)
	store, err := cellstore.Open(context.Background(), bytesource.NewMemorySource(img), header.HiveBinsDataSize, cellstore.Options{})
	require.NoError(t, err)
	return keytree.New(store, nil, 0, rootOff)
}

func TestTree_RootAndSubkeyByName(t *testing.T) {
	b := hivebuild.New()
	child := b.NamedKey(hivebuild.NKOpts{Name: "Child"})
	list := b.LI([]uint32{child})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 1, SubkeyList: list})
	b.SetRoot(root)

	tree := openTree(t, b, root)
	ctx := context.Background()

	rootKey, err := tree.Root(ctx)
	require.NoError(t, err)
	name, err := rootKey.Name()
	require.NoError(t, err)
	require.Equal(t, "ROOT", name)

	// Lookup is case-insensitive.
	found, err := rootKey.SubkeyByName(ctx, "child")
	require.NoError(t, err)
	require.NotNil(t, found)
	foundName, err := found.Name()
	require.NoError(t, err)
	require.Equal(t, "Child", foundName)

	missing, err := rootKey.SubkeyByName(ctx, "NoSuchChild")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestTree_LHHashLookup(t *testing.T) {
	b := hivebuild.New()
	alpha := b.NamedKey(hivebuild.NKOpts{Name: "Alpha"})
	beta := b.NamedKey(hivebuild.NKOpts{Name: "Beta"})
	// Deliberately wrong hashes: lookup must still succeed by falling back
	// to a full name comparison once the (mismatched) hash fast path is
	// exhausted, since SubkeyByName never trusts a hash hit/miss alone.
	list := b.LH([]hivebuild.LHEntry{
		{Offset: alpha, Hash: 0},
		{Offset: beta, Hash: 0},
	})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 2, SubkeyList: list})
	b.SetRoot(root)

	tree := openTree(t, b, root)
	ctx := context.Background()
	rootKey, err := tree.Root(ctx)
	require.NoError(t, err)

	found, err := rootKey.SubkeyByName(ctx, "Beta")
	require.NoError(t, err)
	require.NotNil(t, found)
	name, err := found.Name()
	require.NoError(t, err)
	require.Equal(t, "Beta", name)
}

// referenceLHHash reproduces the on-disk `lh` hash algorithm (spec §4.4:
// hash*37 + uppercase(utf16 code unit)) independently of keytree's own
// implementation, so this test catches a regression in either side rather
// than just confirming the two agree with each other.
func referenceLHHash(name string) uint32 {
	var h uint32
	for _, r := range name {
		if r > 0xFFFF {
			r = 0xFFFD
		}
		h = h*37 + uint32(unicode.ToUpper(r))
	}
	return h
}

func TestTree_LHHashLookup_NonASCIIName(t *testing.T) {
	b := hivebuild.New()
	// "café" lowercased: the 'é' only matches Windows' real on-disk hash
	// under a full Unicode uppercase fold (é -> É), not an ASCII-only one.
	name := "café"
	child := b.NamedKey(hivebuild.NKOpts{Name: name})
	list := b.LH([]hivebuild.LHEntry{
		{Offset: child, Hash: referenceLHHash(name)},
	})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 1, SubkeyList: list})
	b.SetRoot(root)

	tree := openTree(t, b, root)
	ctx := context.Background()
	rootKey, err := tree.Root(ctx)
	require.NoError(t, err)

	found, err := rootKey.SubkeyByName(ctx, name)
	require.NoError(t, err)
	require.NotNil(t, found, "an ASCII-only uppercase fold would mismatch the stored hash and skip this entry")
	foundName, err := found.Name()
	require.NoError(t, err)
	require.Equal(t, name, foundName)
}

func TestTree_FindByPath(t *testing.T) {
	b := hivebuild.New()
	leaf := b.NamedKey(hivebuild.NKOpts{Name: "Leaf"})
	leafList := b.LI([]uint32{leaf})
	mid := b.NamedKey(hivebuild.NKOpts{Name: "Mid", SubkeyCount: 1, SubkeyList: leafList})
	midList := b.LI([]uint32{mid})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 1, SubkeyList: midList})
	b.SetRoot(root)

	tree := openTree(t, b, root)
	ctx := context.Background()

	key, err := tree.FindByPath(ctx, `Mid\Leaf`)
	require.NoError(t, err)
	require.NotNil(t, key)
	name, err := key.Name()
	require.NoError(t, err)
	require.Equal(t, "Leaf", name)

	// Leading backslash tolerated.
	key2, err := tree.FindByPath(ctx, `\Mid\Leaf`)
	require.NoError(t, err)
	require.NotNil(t, key2)

	// Empty path returns root.
	key3, err := tree.FindByPath(ctx, "")
	require.NoError(t, err)
	rootName, err := key3.Name()
	require.NoError(t, err)
	require.Equal(t, "ROOT", rootName)

	// Nonexistent path is (nil, nil), not an error.
	key4, err := tree.FindByPath(ctx, `Mid\Nope`)
	require.NoError(t, err)
	require.Nil(t, key4)
}

func TestTree_WalkVisitsEveryKeyOnce(t *testing.T) {
	b := hivebuild.New()
	leafA := b.NamedKey(hivebuild.NKOpts{Name: "LeafA"})
	leafB := b.NamedKey(hivebuild.NKOpts{Name: "LeafB"})
	list := b.LI([]uint32{leafA, leafB})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 2, SubkeyList: list})
	b.SetRoot(root)

	tree := openTree(t, b, root)
	ctx := context.Background()

	var names []string
	err := tree.Walk(ctx, keytree.NodeID(root), func(k *keytree.Key) error {
		n, err := k.Name()
		if err != nil {
			return err
		}
		names = append(names, n)
		return nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ROOT", "LeafA", "LeafB"}, names)
}

func TestTree_SubkeyCountMismatchMarksCorrupted(t *testing.T) {
	b := hivebuild.New()
	child := b.NamedKey(hivebuild.NKOpts{Name: "Child"})
	list := b.LI([]uint32{child})
	// Declares 5 subkeys but the list only carries 1.
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 5, SubkeyList: list})
	b.SetRoot(root)

	tree := openTree(t, b, root)
	ctx := context.Background()
	rootKey, err := tree.Root(ctx)
	require.NoError(t, err)

	ids, err := rootKey.Subkeys(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.True(t, rootKey.IsCorrupted())
}

func TestTree_Abort(t *testing.T) {
	b := hivebuild.New()
	child := b.NamedKey(hivebuild.NKOpts{Name: "Child"})
	list := b.LI([]uint32{child})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 1, SubkeyList: list})
	b.SetRoot(root)

	tree := openTree(t, b, root)
	tree.Abort()

	_, err := tree.FindByPath(context.Background(), "Child")
	require.ErrorIs(t, err, keytree.ErrAborted)
}
