// Package cellstore resolves hive cell offsets to decoded Cell values,
// reading through a bounded IOCache instead of requiring the whole hive
// be resident in memory at once.
package cellstore

import (
	"context"
	"fmt"

	"github.com/cerata/regf/internal/cellfmt"
	"github.com/cerata/regf/internal/hivebins"
	"github.com/cerata/regf/internal/iocache"
)

// ErrOutOfRange is returned when a cell offset falls outside the hive's
// declared bins data area.
var ErrOutOfRange = fmt.Errorf("cellstore: offset out of range")

// Store resolves cell offsets (relative to the start of the hive bins
// data area, i.e. the raw on-disk HCELL_INDEX values) to decoded Cell
// structures, transparently handling cells that straddle an HBIN
// boundary.
type Store struct {
	cache     *iocache.Cache
	bins      *hivebins.Index
	dataStart uint32 // absolute offset of the first HBIN (0x1000)
	dataEnd   uint32 // absolute offset one past the last HBIN
	maxCell   int
}

// Options configures a Store.
type Options struct {
	// MaxCellSize bounds any single decoded cell, guarding against a
	// corrupt or adversarial size field driving an unbounded allocation.
	MaxCellSize int
	// BlockSize and Capacity tune the underlying IOCache; zero picks the
	// package defaults.
	BlockSize int
	Capacity  int
}

// Open builds a Store over src, validating every HBIN between the REGF
// header and dataSize bytes later. Mirrors the teacher's "all HBINs
// validated at Open" contract (spec: Open succeeding implies the
// structural boundary is sound).
func Open(ctx context.Context, src iocache.ByteSource, dataSize uint32, opts Options) (*Store, error) {
	if opts.MaxCellSize <= 0 {
		opts.MaxCellSize = 64 << 20
	}
	cache := iocache.New(src, opts.BlockSize, opts.Capacity)

	dataStart := uint32(cellfmt.HeaderSize)
	dataEnd := dataStart + dataSize
	bins, err := hivebins.Build(ctx, cache, dataStart, dataEnd)
	if err != nil {
		return nil, err
	}
	return &Store{
		cache:     cache,
		bins:      bins,
		dataStart: dataStart,
		dataEnd:   dataEnd,
		maxCell:   opts.MaxCellSize,
	}, nil
}

// Size returns the size reported by the underlying ByteSource.
func (s *Store) Size(ctx context.Context) (int64, error) {
	return s.cache.Size(ctx)
}

// BinCount returns the number of indexed HBINs, for diagnostics.
func (s *Store) BinCount() int { return s.bins.Len() }

// ReadAt satisfies the small reader interface hivebins needs, and is also
// used directly by callers (e.g. diagnostics scans) that want raw bytes
// without cell framing.
func (s *Store) ReadAt(ctx context.Context, offset int64, buf []byte) (int, error) {
	return s.cache.ReadAt(ctx, offset, buf)
}

// CellAt decodes the cell at the given hive-relative offset (i.e. the raw
// HCELL_INDEX value found in NK/VK/list records), returning its size,
// free/allocated state, and payload bytes. Cells that straddle an HBIN
// boundary are reassembled by skipping the intervening HBIN header(s).
func (s *Store) CellAt(ctx context.Context, offset uint32) (cellfmt.Cell, error) {
	abs := s.dataStart + offset
	if abs < s.dataStart || abs >= s.dataEnd {
		return cellfmt.Cell{}, fmt.Errorf("%w: cell offset %d", ErrOutOfRange, offset)
	}
	bin, ok := s.bins.Lookup(abs)
	if !ok {
		return cellfmt.Cell{}, fmt.Errorf("%w: offset %d not in any hbin", ErrOutOfRange, offset)
	}

	var head [cellfmt.CellHeaderSize]byte
	if _, err := s.cache.ReadAt(ctx, int64(abs), head[:]); err != nil {
		return cellfmt.Cell{}, fmt.Errorf("cellstore: read cell header at %d: %w", offset, err)
	}
	size, allocated, err := cellfmt.DecodeCellHeader(head[:])
	if err != nil {
		return cellfmt.Cell{}, fmt.Errorf("cellstore: %w", err)
	}
	if size < cellfmt.CellHeaderSize {
		return cellfmt.Cell{}, fmt.Errorf("cellstore: cell size %d too small", size)
	}
	if size > s.maxCell {
		return cellfmt.Cell{}, fmt.Errorf("cellstore: cell size %d exceeds MaxCellSize", size)
	}

	raw := make([]byte, size)
	if err := s.readSpanningBins(ctx, abs, bin, raw); err != nil {
		return cellfmt.Cell{}, err
	}

	payload := raw[cellfmt.CellHeaderSize:]
	var tag [cellfmt.SignatureSize]byte
	if len(payload) >= cellfmt.SignatureSize {
		tag[0], tag[1] = payload[0], payload[1]
	}
	return cellfmt.Cell{
		Offset: int(offset),
		Size:   size,
		Free:   !allocated,
		Tag:    tag,
		Data:   payload,
	}, nil
}

// readSpanningBins copies size bytes starting at abs into dst, hopping
// over HBIN headers whenever the cell runs past the bin it started in.
// Grounded on the teacher's readCellDataAcrossHBINs, generalized to read
// through the cache instead of slicing a single resident buffer.
func (s *Store) readSpanningBins(ctx context.Context, abs uint32, bin hivebins.Bin, dst []byte) error {
	need := len(dst)
	copied := 0
	cur := abs
	curBin := bin
	for copied < need {
		avail := int(curBin.End - cur)
		if avail <= 0 {
			next := curBin.End + cellfmt.HBINHeaderSize
			nb, ok := s.bins.Lookup(next)
			if !ok {
				return fmt.Errorf("cellstore: cell runs past last hbin")
			}
			cur = next
			curBin = nb
			avail = int(curBin.End - cur)
		}
		take := need - copied
		if take > avail {
			take = avail
		}
		n, err := s.cache.ReadAt(ctx, int64(cur), dst[copied:copied+take])
		if err != nil {
			return fmt.Errorf("cellstore: read span at %d: %w", cur, err)
		}
		if n == 0 {
			return fmt.Errorf("cellstore: no progress reading cell span at %d", cur)
		}
		copied += n
		cur += uint32(n)
	}
	return nil
}
