package cellstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cerata/regf/internal/bytesource"
	"github.com/cerata/regf/internal/cellfmt"
	"github.com/cerata/regf/internal/cellstore"
	"github.com/cerata/regf/internal/testutil/hivebuild"
)

func openStore(t *testing.T, img []byte) *cellstore.Store {
	t.Helper()
	header, err := cellfmt.ParseHeader(img[:cellfmt.HeaderSize])
	require.NoError(t, err)
	src := bytesource.NewMemorySource(img)
	store, err := cellstore.Open(context.Background(), src, header.HiveBinsDataSize, cellstore.Options{})
	require.NoError(t, err)
	return store
}

func TestCellAt_DecodesAllocatedCell(t *testing.T) {
	b := hivebuild.New()
	off := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", Parent: cellfmt.InvalidOffset})
	b.SetRoot(off)
	store := openStore(t, b.Bytes())

	cell, err := store.CellAt(context.Background(), off)
	require.NoError(t, err)
	require.False(t, cell.Free)
	require.Equal(t, [cellfmt.SignatureSize]byte{'n', 'k'}, cell.Tag)
}

func TestCellAt_FreeCellReportedAsFree(t *testing.T) {
	b := hivebuild.New()
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", Parent: cellfmt.InvalidOffset})
	free := b.AddFreeCell(32)
	b.SetRoot(root)
	store := openStore(t, b.Bytes())

	cell, err := store.CellAt(context.Background(), free)
	require.NoError(t, err)
	require.True(t, cell.Free)
}

func TestCellAt_OutOfRangeOffsetRejected(t *testing.T) {
	b := hivebuild.New()
	root := b.NamedKey(hivebuild.NKOpts{Root: true, Name: "ROOT", Parent: cellfmt.InvalidOffset})
	b.SetRoot(root)
	store := openStore(t, b.Bytes())

	_, err := store.CellAt(context.Background(), 0xFFFF000)
	require.ErrorIs(t, err, cellstore.ErrOutOfRange)
}

func TestOpen_RejectsCorruptHBINHeader(t *testing.T) {
	img := hivebuild.New().Bytes()
	// Stomp the hbin signature just past the base block.
	img[cellfmt.HeaderSize] = 'x'
	_, err := cellstore.Open(context.Background(), bytesource.NewMemorySource(img), uint32(len(img)-cellfmt.HeaderSize), cellstore.Options{})
	require.Error(t, err)
}
