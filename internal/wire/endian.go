// Package wire contains helpers for endian-safe decoding routines used when
// walking raw hive bytes.
package wire

import "encoding/binary"

// width is the set of unsigned integer types decodeFixed can produce.
type width interface{ ~uint16 | ~uint32 | ~uint64 }

// decodeFixed applies decode to b once it has confirmed b holds at least
// size bytes, otherwise returning the zero value. Every fixed-width LE/BE
// reader below is a one-line instantiation of this so the
// too-short-means-zero convention only has to be stated once.
func decodeFixed[T width](b []byte, size int, decode func([]byte) T) T {
	var zero T
	if len(b) < size {
		return zero
	}
	return decode(b)
}

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	return decodeFixed(b, 2, binary.LittleEndian.Uint16)
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	return decodeFixed(b, 4, binary.LittleEndian.Uint32)
}

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	return decodeFixed(b, 8, binary.LittleEndian.Uint64)
}

// U32BE reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32BE(b []byte) uint32 {
	return decodeFixed(b, 4, binary.BigEndian.Uint32)
}

// I32LE reads a little-endian int32 from b. Returns 0 when b is too short.
func I32LE(b []byte) int32 {
	return int32(U32LE(b))
}
