// Package hivebins indexes the HBIN structures in a hive so a cell offset
// can be mapped to its enclosing bin without a linear scan.
package hivebins

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cerata/regf/internal/cellfmt"
)

// ErrCorruptBin is wrapped into every error Build returns for a malformed
// or out-of-bounds HBIN header, so callers can classify the failure as
// CorruptedHiveBin regardless of the underlying detail.
var ErrCorruptBin = errors.New("hivebins: corrupted hive bin")

// Bin describes one validated hive bin, in absolute file-offset terms
// (i.e. including the 4096-byte REGF header).
type Bin struct {
	Start uint32 // absolute file offset of the HBIN header
	End   uint32 // absolute file offset one past the end of this bin
}

// reader is the minimal slice the index needs to read bin headers; it is
// satisfied by internal/cellstore's block reader without creating an
// import cycle between the two packages.
type reader interface {
	ReadAt(ctx context.Context, offset int64, buf []byte) (int, error)
}

// Index is a sorted, binary-searchable table of hive bins, built once at
// open time by walking the hive bins data area exactly once.
type Index struct {
	bins []Bin // sorted by Start
}

// Build validates and indexes every HBIN between dataStart and dataEnd
// (both absolute file offsets). It returns an error on the first
// malformed HBIN header, mirroring the teacher's "Open succeeds means the
// structure is sound" contract.
func Build(ctx context.Context, r reader, dataStart, dataEnd uint32) (*Index, error) {
	idx := &Index{bins: make([]Bin, 0, 4)}
	offset := dataStart
	var head [cellfmt.HBINHeaderSize]byte
	for offset < dataEnd {
		n, err := r.ReadAt(ctx, int64(offset), head[:])
		if err != nil || n < len(head) {
			return nil, fmt.Errorf("hivebins: read header at %d: %w", offset, err)
		}
		hbin, err := cellfmt.DecodeHBINHeader(head[:])
		if err != nil {
			return nil, fmt.Errorf("hivebins: invalid hbin at %d: %w: %w", offset, ErrCorruptBin, err)
		}
		if hbin.FileOffset != offset-dataStart {
			return nil, fmt.Errorf("hivebins: hbin at %d declares offset %d, want %d: %w",
				offset, hbin.FileOffset, offset-dataStart, ErrCorruptBin)
		}
		end := offset + hbin.Size
		if end <= offset || end > dataEnd {
			return nil, fmt.Errorf("hivebins: hbin at %d overruns data area: %w", offset, ErrCorruptBin)
		}
		idx.bins = append(idx.bins, Bin{Start: offset, End: end})
		offset = end
	}
	return idx, nil
}

// Lookup returns the bin containing absolute offset off, or false if off
// does not fall within any indexed bin.
func (idx *Index) Lookup(off uint32) (Bin, bool) {
	i := sort.Search(len(idx.bins), func(i int) bool {
		return idx.bins[i].End > off
	})
	if i >= len(idx.bins) || off < idx.bins[i].Start {
		return Bin{}, false
	}
	return idx.bins[i], true
}

// Len returns the number of indexed bins.
func (idx *Index) Len() int { return len(idx.bins) }
