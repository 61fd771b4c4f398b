// Package regf is a read-only parser for the Windows Registry File (REGF)
// binary format. It accepts a seekable byte source positioned at a REGF
// image and exposes a navigable tree of keys and typed values.
//
// The package never mutates a hive, never replays transaction logs, and
// never interprets security descriptors beyond raw extraction; see
// internal/keytree and internal/cellstore for the layers this facade
// wires together.
package regf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/cerata/regf/internal/cellfmt"
	"github.com/cerata/regf/internal/cellstore"
	"github.com/cerata/regf/internal/codepage"
	"github.com/cerata/regf/internal/iocache"
	"github.com/cerata/regf/internal/keytree"
)

// ByteSource is the random-access byte source a Hive reads from (spec §6).
// internal/bytesource ships file, memory-mapped, and in-memory reference
// implementations.
type ByteSource interface {
	ReadAt(ctx context.Context, offset int64, buf []byte) (int, error)
	Size() (int64, error)
}

// Hive is an open registry hive: the parsed base block plus the lazy
// cell-graph navigator built on top of it. A Hive is safe for concurrent
// read-only use from multiple goroutines (spec §5 contract (b) — the
// underlying IOCache is mutex-guarded, and the CellStore keeps no cell
// cache of its own, reading every cell through the IOCache).
type Hive struct {
	tree   *keytree.Tree
	store  *cellstore.Store
	src    ByteSource
	info   HiveInfo
	limits Limits
}

// Open parses the REGF base block from src, validates its signature and
// version, builds the hive-bins index, and returns a ready-to-query Hive.
// Open always reads the full 4096-byte base block and every HBIN header
// up front: a successful Open means the hive's structural boundary is
// sound (spec §2, §4.1, §4.2).
//
// A checksum mismatch or primary/secondary sequence disagreement never
// fails Open; both are recorded as advisory flags on Info() (spec
// §4.1/§7).
func Open(ctx context.Context, src ByteSource, opts ...OpenOption) (*Hive, error) {
	cfg := defaultOpenConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	size, err := src.Size()
	if err != nil {
		return nil, &Error{Kind: ErrKindIO, Msg: "stat byte source", Err: err}
	}
	if size < cellfmt.HeaderSize {
		return nil, &Error{Kind: ErrKindBadSignature, Msg: "file too small for a REGF base block"}
	}

	var headerBuf [cellfmt.HeaderSize]byte
	if _, err := src.ReadAt(ctx, 0, headerBuf[:]); err != nil {
		return nil, &Error{Kind: ErrKindIO, Msg: "read base block", Err: err}
	}

	header, err := cellfmt.ParseHeader(headerBuf[:])
	if err != nil {
		return nil, &Error{Kind: ErrKindBadSignature, Msg: "not a registry hive (bad regf header)", Err: err}
	}
	if err := validateVersion(header); err != nil {
		return nil, err
	}
	if err := validateFileKind(header); err != nil {
		return nil, err
	}

	_, checksumOK := cellfmt.VerifyHeaderChecksum(headerBuf[:])

	storeOpts := cellstore.Options{
		MaxCellSize: cfg.limits.MaxCellSize,
		BlockSize:   cfg.limits.BlockSize,
		Capacity:    cfg.limits.CacheCapacity,
	}
	store, err := cellstore.Open(ctx, iocacheSource{src}, header.HiveBinsDataSize, storeOpts)
	if err != nil {
		return nil, wrapErr(fmt.Errorf("open hive-bins index: %w", err)).(*Error)
	}

	cp := cfg.cp
	if cp == nil {
		cp = codepage.New()
	}

	tree := keytree.New(store, cp, cfg.codepage, header.RootCellOffset)
	if cfg.limits.MaxValueSize > 0 {
		tree.SetMaxValueSize(cfg.limits.MaxValueSize)
	}

	info := HiveInfo{
		PrimarySequence:   header.PrimarySequence,
		SecondarySequence: header.SecondarySequence,
		MajorVersion:      header.MajorVersion,
		MinorVersion:      header.MinorVersion,
		RootCellOffset:    header.RootCellOffset,
		HiveBinsDataSize:  header.HiveBinsDataSize,
		Name:              decodeHiveName(header.FileNameRaw),
		Dirty:             header.PrimarySequence != header.SecondarySequence,
		ChecksumOK:        checksumOK,
	}

	return &Hive{tree: tree, store: store, src: src, info: info, limits: cfg.limits}, nil
}

// Close releases resources held by the underlying ByteSource, if it
// implements io.Closer (e.g. a memory-mapped or file-backed source). Slices
// previously returned by ReadData are copies and stay valid after Close.
func (h *Hive) Close() error {
	if c, ok := h.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// validateVersion enforces the base block's supported major/minor version
// range (spec §4.1: "outside the supported range ⇒ fails with
// UnsupportedVersion").
func validateVersion(h cellfmt.Header) error {
	if h.MajorVersion != cellfmt.RegfSupportedMajorVersion {
		return &Error{Kind: ErrKindUnsupportedVersion, Msg: fmt.Sprintf("unsupported major version %d", h.MajorVersion)}
	}
	if h.MinorVersion < cellfmt.RegfMinSupportedMinor || h.MinorVersion > cellfmt.RegfMaxSupportedMinor {
		return &Error{Kind: ErrKindUnsupportedVersion, Msg: fmt.Sprintf("unsupported minor version %d", h.MinorVersion)}
	}
	return nil
}

// validateFileKind enforces spec §3/§4.1: a hive's file type and file
// format fields must be 0 and 1 respectively. Anything else means src is
// not a primary hive image this decoder understands.
func validateFileKind(h cellfmt.Header) error {
	if h.Type != cellfmt.RegfExpectedType {
		return &Error{Kind: ErrKindBadSignature, Msg: fmt.Sprintf("unexpected file type %d (want %d)", h.Type, cellfmt.RegfExpectedType)}
	}
	if h.Format != cellfmt.RegfExpectedFormat {
		return &Error{Kind: ErrKindBadSignature, Msg: fmt.Sprintf("unexpected file format %d (want %d)", h.Format, cellfmt.RegfExpectedFormat)}
	}
	return nil
}

// decodeHiveName decodes the NUL-terminated UTF-16LE hive name at base
// block bytes 48..112 (spec §3). The field is informational; a decode
// failure (e.g. an all-zero unused hive) simply yields "".
func decodeHiveName(raw []byte) string {
	if i := bytes.Index(raw, []byte{0, 0}); i >= 0 && i%2 == 0 {
		raw = raw[:i]
	}
	if len(raw) == 0 {
		return ""
	}
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = uint16(raw[2*i]) | uint16(raw[2*i+1])<<8
	}
	return string(utf16.Decode(units))
}

// iocacheSource adapts the public ByteSource (Size with no args, matching
// spec §6) to internal/iocache's identical ByteSource contract, keeping
// the internal packages free of a dependency on this package.
type iocacheSource struct {
	ByteSource
}

var _ iocache.ByteSource = iocacheSource{}

// Info returns the hive's base-block metadata.
func (h *Hive) Info() HiveInfo { return h.info }

// Limits returns the resource limits this hive was opened with.
func (h *Hive) Limits() Limits { return h.limits }

// Abort requests cancellation of any in-flight Walk. Already-returned
// results are unaffected; further traversal calls may return ErrAborted
// (spec §5).
func (h *Hive) Abort() { h.tree.Abort() }

// Root returns the hive's root key.
func (h *Hive) Root(ctx context.Context) (*Key, error) {
	k, err := h.tree.Root(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}
	return wrapKey(k), nil
}

// Key resolves id to a key handle. The cell must carry the `nk` signature;
// any other outcome propagates as an error since the containing cell
// itself cannot be interpreted (spec §7).
func (h *Hive) Key(ctx context.Context, id NodeID) (*Key, error) {
	k, err := h.tree.Key(ctx, id)
	if err != nil {
		return nil, wrapErr(err)
	}
	return wrapKey(k), nil
}

// Value resolves id to a value handle.
func (h *Hive) Value(ctx context.Context, id ValueID) (*Value, error) {
	v, err := h.tree.Value(ctx, id)
	if err != nil {
		return nil, wrapErr(err)
	}
	return wrapValue(v), nil
}

// Find resolves a `\`-separated path starting from the root. A leading
// backslash is tolerated and stripped; an empty path returns the root
// (spec §4.7). Returns (nil, nil) for "no such key", never an error, so
// callers can distinguish absence from I/O/structural failure.
func (h *Hive) Find(ctx context.Context, path string) (*Key, error) {
	k, err := h.tree.FindByPath(ctx, path)
	if err != nil {
		return nil, wrapErr(err)
	}
	return wrapKey(k), nil
}

// Walk performs a pre-order traversal of the subtree rooted at id.
// Returning a non-nil error from fn aborts the traversal and propagates.
func (h *Hive) Walk(ctx context.Context, id NodeID, fn func(*Key) error) error {
	err := h.tree.Walk(ctx, id, func(k *keytree.Key) error {
		return fn(wrapKey(k))
	})
	if err != nil {
		return wrapErr(err)
	}
	return nil
}

// Diagnose performs an exhaustive structural scan of every key, value, and
// referenced subkey/value-list cell reachable from the root, returning a
// summary of every non-fatal malformation found (spec §4.9 [EXPANSION]).
func (h *Hive) Diagnose(ctx context.Context) (*DiagnosticReport, error) {
	r, err := h.tree.Diagnose(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}
	return wrapReport(r), nil
}
