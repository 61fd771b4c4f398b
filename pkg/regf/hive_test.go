package regf_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cerata/regf/internal/bytesource"
	"github.com/cerata/regf/internal/cellfmt"
	"github.com/cerata/regf/internal/testutil/hivebuild"
	"github.com/cerata/regf/pkg/regf"
)

func openHive(t *testing.T, b *hivebuild.Builder) *regf.Hive {
	t.Helper()
	h, err := regf.Open(context.Background(), bytesource.NewMemorySource(b.Bytes()))
	require.NoError(t, err)
	return h
}

// S1: a minimal valid hive (root key, no children) opens cleanly and its
// root resolves.
func TestOpen_MinimalValidHive(t *testing.T) {
	b := hivebuild.New()
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", Parent: cellfmt.InvalidOffset})
	b.SetRoot(root)

	h := openHive(t, b)
	info := h.Info()
	require.True(t, info.ChecksumOK)
	require.False(t, info.Dirty)
	require.Equal(t, uint32(1), info.MajorVersion)

	rootKey, err := h.Root(context.Background())
	require.NoError(t, err)
	name, err := rootKey.Name()
	require.NoError(t, err)
	require.Equal(t, "ROOT", name)
	require.True(t, rootKey.IsRoot())
}

// S2: a checksum mismatch is advisory only — Open still succeeds, and the
// mismatch is surfaced through Info().ChecksumOK rather than an error.
func TestOpen_ChecksumMismatchIsAdvisory(t *testing.T) {
	b := hivebuild.New().BadChecksum()
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", Parent: cellfmt.InvalidOffset})
	b.SetRoot(root)

	h := openHive(t, b)
	require.False(t, h.Info().ChecksumOK)

	// The hive is otherwise fully usable.
	rootKey, err := h.Root(context.Background())
	require.NoError(t, err)
	require.True(t, rootKey.IsRoot())
}

// A primary/secondary sequence mismatch marks the hive dirty but does not
// fail Open either.
func TestOpen_DirtyFlag(t *testing.T) {
	b := hivebuild.New().Dirty()
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", Parent: cellfmt.InvalidOffset})
	b.SetRoot(root)

	h := openHive(t, b)
	require.True(t, h.Info().Dirty)
}

// S3: an inline REG_DWORD value round-trips through the public API.
func TestOpen_InlineDwordValue(t *testing.T) {
	b := hivebuild.New()
	vk := b.ValueKey(hivebuild.VKOpts{
		Name:   "Count",
		Type:   cellfmt.RegDword,
		Inline: []byte{0x2A, 0x00, 0x00, 0x00},
	})
	values := b.ValueList([]uint32{vk})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", ValueCount: 1, ValueList: values})
	b.SetRoot(root)

	h := openHive(t, b)
	ctx := context.Background()
	rootKey, err := h.Root(ctx)
	require.NoError(t, err)

	v, err := rootKey.ValueByName(ctx, "Count")
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Equal(t, regf.RegDword, v.TypeCode())
	require.True(t, v.IsInline())

	got, err := v.AsU32(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(42), got)
}

// S4: a big-data (db) value reassembles correctly through the public API.
func TestOpen_BigDataValue(t *testing.T) {
	b := hivebuild.New()
	total := cellfmt.DBChunkSize + 250
	chunk0 := make([]byte, cellfmt.DBChunkSize)
	for i := range chunk0 {
		chunk0[i] = byte(i)
	}
	chunk1 := make([]byte, 250)
	for i := range chunk1 {
		chunk1[i] = byte(0xA0 + i%16)
	}
	seg0 := b.RawCell(chunk0)
	seg1 := b.RawCell(chunk1)
	db := b.BigData([]uint32{seg0, seg1})

	vk := b.ValueKey(hivebuild.VKOpts{
		Name:       "Blob",
		Type:       cellfmt.RegBinary,
		DataLen:    uint32(total),
		DataOffset: db,
	})
	values := b.ValueList([]uint32{vk})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", ValueCount: 1, ValueList: values})
	b.SetRoot(root)

	h := openHive(t, b)
	ctx := context.Background()
	rootKey, err := h.Root(ctx)
	require.NoError(t, err)
	v, err := rootKey.ValueByName(ctx, "Blob")
	require.NoError(t, err)

	data, err := v.ReadData(ctx)
	require.NoError(t, err)
	require.Len(t, data, total)
	require.Equal(t, chunk0, data[:cellfmt.DBChunkSize])
	require.Equal(t, chunk1, data[cellfmt.DBChunkSize:])
	require.False(t, v.IsCorrupted())
}

// S5: an `lh`-hashed subkey list resolves through Find even when every
// stored hash is wrong, since lookup always confirms by full name.
func TestOpen_LHHashedFind(t *testing.T) {
	b := hivebuild.New()
	alpha := b.NamedKey(hivebuild.NKOpts{Name: "Alpha"})
	beta := b.NamedKey(hivebuild.NKOpts{Name: "Beta"})
	list := b.LH([]hivebuild.LHEntry{
		{Offset: alpha, Hash: 0},
		{Offset: beta, Hash: 0},
	})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 2, SubkeyList: list})
	b.SetRoot(root)

	h := openHive(t, b)
	key, err := h.Find(context.Background(), `Beta`)
	require.NoError(t, err)
	require.NotNil(t, key)
	name, err := key.Name()
	require.NoError(t, err)
	require.Equal(t, "Beta", name)
}

// S6: a corrupted subkey list (declared count exceeds what the list
// actually carries) never fails the containing operation — it marks the
// key corrupted, Subkeys still returns the readable entry, and Diagnose
// reports it without failing.
func TestOpen_CorruptedSubkeyListIsNonFatal(t *testing.T) {
	b := hivebuild.New()
	child := b.NamedKey(hivebuild.NKOpts{Name: "Child"})
	list := b.LI([]uint32{child})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 9, SubkeyList: list})
	b.SetRoot(root)

	h := openHive(t, b)
	ctx := context.Background()

	rootKey, err := h.Root(ctx)
	require.NoError(t, err)
	ids, err := rootKey.Subkeys(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.True(t, rootKey.IsCorrupted())

	report, err := h.Diagnose(ctx)
	require.NoError(t, err)
	require.True(t, report.HasIssues())
}

func TestOpen_RejectsBadFileKind(t *testing.T) {
	b := hivebuild.New().FileKind(1, 1)
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", Parent: cellfmt.InvalidOffset})
	b.SetRoot(root)

	_, err := regf.Open(context.Background(), bytesource.NewMemorySource(b.Bytes()))
	require.Error(t, err)
	var pubErr *regf.Error
	require.ErrorAs(t, err, &pubErr)
	require.Equal(t, regf.ErrKindBadSignature, pubErr.Kind)
}

func TestOpen_RejectsUnsupportedVersion(t *testing.T) {
	b := hivebuild.New().Version(2, 0)
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", Parent: cellfmt.InvalidOffset})
	b.SetRoot(root)

	_, err := regf.Open(context.Background(), bytesource.NewMemorySource(b.Bytes()))
	require.Error(t, err)
	var pubErr *regf.Error
	require.ErrorAs(t, err, &pubErr)
	require.Equal(t, regf.ErrKindUnsupportedVersion, pubErr.Kind)
}

func TestOpen_RejectsTruncatedSource(t *testing.T) {
	_, err := regf.Open(context.Background(), bytesource.NewMemorySource(make([]byte, 10)))
	require.Error(t, err)
}

func TestWalk_VisitsEveryKey(t *testing.T) {
	b := hivebuild.New()
	leafA := b.NamedKey(hivebuild.NKOpts{Name: "LeafA"})
	leafB := b.NamedKey(hivebuild.NKOpts{Name: "LeafB"})
	list := b.LI([]uint32{leafA, leafB})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 2, SubkeyList: list})
	b.SetRoot(root)

	h := openHive(t, b)
	ctx := context.Background()
	rootKey, err := h.Root(ctx)
	require.NoError(t, err)

	var names []string
	err = h.Walk(ctx, rootKey.ID(), func(k *regf.Key) error {
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

func TestHive_Abort(t *testing.T) {
	b := hivebuild.New()
	child := b.NamedKey(hivebuild.NKOpts{Name: "Child"})
	list := b.LI([]uint32{child})
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", SubkeyCount: 1, SubkeyList: list})
	b.SetRoot(root)

	h := openHive(t, b)
	h.Abort()

	_, err := h.Find(context.Background(), "Child")
	require.ErrorIs(t, err, regf.ErrAborted)
}

func TestHive_FindMissingPathReturnsNilNotError(t *testing.T) {
	b := hivebuild.New()
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", Parent: cellfmt.InvalidOffset})
	b.SetRoot(root)

	h := openHive(t, b)
	key, err := h.Find(context.Background(), `NoSuchKey`)
	require.NoError(t, err)
	require.Nil(t, key)
}
