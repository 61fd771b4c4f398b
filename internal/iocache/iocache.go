// Package iocache provides a bounded block cache over an arbitrary
// ByteSource, so CellStore does not need to hold an entire hive file in
// memory to satisfy repeated, scattered cell reads.
package iocache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
)

// ByteSource is the external collaborator a Cache pulls blocks from. It is
// satisfied by mmap'd, plain-file, and in-memory implementations; see
// internal/bytesource for the reference implementations this module ships.
type ByteSource interface {
	ReadAt(ctx context.Context, offset int64, buf []byte) (int, error)
	Size() (int64, error)
}

const (
	// DefaultBlockSize is the granularity at which the cache fetches data
	// from the underlying ByteSource. Chosen to comfortably cover a 4 KiB
	// HBIN in one block while still being small next to a typical hive.
	DefaultBlockSize = 64 * 1024

	// DefaultCapacity is the default number of blocks kept resident.
	// 256 blocks * 64 KiB = 16 MiB working set, generous for cell-graph
	// traversal locality without pinning an entire multi-hundred-MB hive.
	DefaultCapacity = 256
)

// Cache is a bounded least-recently-used cache of fixed-size blocks read
// from a ByteSource. The standard library's container/list backs the LRU
// ordering; no third-party LRU implementation appears anywhere in the
// example corpus (see DESIGN.md), so this is the one component of the
// module built directly on the standard library by necessity rather than
// by choice.
type Cache struct {
	mu        sync.Mutex
	src       ByteSource
	blockSize int64
	capacity  int
	ll        *list.List
	index     map[int64]*list.Element
	size      int64 // cached total size of the source, 0 until known
}

type entry struct {
	block int64
	data  []byte
}

// New creates a Cache over src with the given block size and block
// capacity. Zero values fall back to DefaultBlockSize/DefaultCapacity.
func New(src ByteSource, blockSize int, capacity int) *Cache {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		src:       src,
		blockSize: int64(blockSize),
		capacity:  capacity,
		ll:        list.New(),
		index:     make(map[int64]*list.Element, capacity),
	}
}

// Size returns the underlying source's size, caching the result since
// ByteSource implementations are not expected to change size at runtime.
func (c *Cache) Size(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.size > 0 {
		return c.size, nil
	}
	sz, err := c.src.Size()
	if err != nil {
		return 0, err
	}
	c.size = sz
	return sz, nil
}

// ReadAt fills buf with len(buf) bytes starting at offset, fetching and
// caching whichever underlying blocks those bytes fall in. It returns a
// short read only when offset+len(buf) runs past the source's size.
func (c *Cache) ReadAt(ctx context.Context, offset int64, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if offset < 0 {
		return 0, fmt.Errorf("iocache: negative offset %d", offset)
	}
	read := 0
	for read < len(buf) {
		abs := offset + int64(read)
		block := abs / c.blockSize
		blockOff := abs % c.blockSize
		data, err := c.fetch(ctx, block)
		if err != nil {
			return read, err
		}
		if blockOff >= int64(len(data)) {
			break // past end of source
		}
		n := copy(buf[read:], data[blockOff:])
		read += n
		if n == 0 {
			break
		}
	}
	return read, nil
}

func (c *Cache) fetch(ctx context.Context, block int64) ([]byte, error) {
	c.mu.Lock()
	if el, ok := c.index[block]; ok {
		c.ll.MoveToFront(el)
		data := el.Value.(*entry).data
		c.mu.Unlock()
		return data, nil
	}
	c.mu.Unlock()

	buf := make([]byte, c.blockSize)
	n, err := c.src.ReadAt(ctx, block*c.blockSize, buf)
	if err != nil && n == 0 {
		return nil, fmt.Errorf("iocache: read block %d: %w", block, err)
	}
	buf = buf[:n]

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[block]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*entry).data, nil
	}
	el := c.ll.PushFront(&entry{block: block, data: buf})
	c.index[block] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.index, oldest.Value.(*entry).block)
		}
	}
	return buf, nil
}
