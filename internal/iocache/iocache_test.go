package iocache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cerata/regf/internal/iocache"
)

type countingSource struct {
	data  []byte
	reads int
}

func (c *countingSource) ReadAt(_ context.Context, offset int64, buf []byte) (int, error) {
	c.reads++
	if offset >= int64(len(c.data)) {
		return 0, nil
	}
	n := copy(buf, c.data[offset:])
	return n, nil
}

func (c *countingSource) Size() (int64, error) { return int64(len(c.data)), nil }

func TestReadAt_ExactBytes(t *testing.T) {
	src := &countingSource{data: []byte("0123456789abcdef")}
	c := iocache.New(src, 4, 4)

	buf := make([]byte, 6)
	n, err := c.ReadAt(context.Background(), 2, buf)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, "234567", string(buf))
}

func TestReadAt_CachesBlocks(t *testing.T) {
	src := &countingSource{data: []byte("0123456789abcdef")}
	c := iocache.New(src, 4, 4)

	buf := make([]byte, 4)
	_, err := c.ReadAt(context.Background(), 0, buf)
	require.NoError(t, err)
	firstReads := src.reads

	_, err = c.ReadAt(context.Background(), 0, buf)
	require.NoError(t, err)
	require.Equal(t, firstReads, src.reads, "repeat read of the same block should not hit the source again")
}

func TestReadAt_EvictsBeyondCapacity(t *testing.T) {
	src := &countingSource{data: make([]byte, 64)}
	c := iocache.New(src, 4, 2)

	buf := make([]byte, 1)
	for block := 0; block < 5; block++ {
		_, err := c.ReadAt(context.Background(), int64(block*4), buf)
		require.NoError(t, err)
	}
	// Re-reading the first (now-evicted) block must re-fetch from source.
	before := src.reads
	_, err := c.ReadAt(context.Background(), 0, buf)
	require.NoError(t, err)
	require.Greater(t, src.reads, before)
}

func TestReadAt_NegativeOffsetRejected(t *testing.T) {
	src := &countingSource{data: []byte("hello")}
	c := iocache.New(src, 4, 4)
	_, err := c.ReadAt(context.Background(), -1, make([]byte, 1))
	require.Error(t, err)
}

func TestSize_CachesResult(t *testing.T) {
	src := &countingSource{data: []byte("hello world")}
	c := iocache.New(src, 4, 4)
	n1, err := c.Size(context.Background())
	require.NoError(t, err)
	n2, err := c.Size(context.Background())
	require.NoError(t, err)
	require.Equal(t, n1, n2)
	require.Equal(t, int64(len("hello world")), n1)
}
