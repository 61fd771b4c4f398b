package cellfmt

import "github.com/cerata/regf/internal/wire"

// HeaderChecksum computes the XOR-32 checksum used to validate a REGF base
// block. It XORs every little-endian uint32 word of b, zero-padding a
// trailing 1-3 byte tail into a final word; VerifyHeaderChecksum passes
// the REGFChecksumRegionLen-byte region (offsets 0x000..0x1FB, i.e.
// REGFChecksumDwords words).
//
// Deliberately scalar: libregf's aligned-word fast path groups reads
// differently depending on buffer alignment, which produces the same
// result but obscures the algorithm for no benefit here. A straight
// word-at-a-time XOR is correct for every input, aligned or not.
func HeaderChecksum(b []byte) uint32 {
	var sum uint32
	n := len(b)
	full := n / 4
	for i := range full {
		sum ^= wire.U32LE(b[i*4:])
	}
	if rem := n % 4; rem != 0 {
		var tail [4]byte
		copy(tail[:], b[full*4:])
		sum ^= wire.U32LE(tail[:])
	}
	return sum
}

// VerifyHeaderChecksum reports whether stored matches the checksum computed
// over the header's checksummed region. Per the format's contract this
// check is advisory: a mismatch indicates an unclean shutdown or
// corruption but never by itself prevents reading the hive.
func VerifyHeaderChecksum(header []byte) (computed uint32, ok bool) {
	region := header
	if len(region) > REGFChecksumRegionLen {
		region = region[:REGFChecksumRegionLen]
	}
	computed = HeaderChecksum(region)
	var stored uint32
	if len(header) >= REGFCheckSumOffset+4 {
		stored = wire.U32LE(header[REGFCheckSumOffset:])
	}
	return computed, computed == stored
}
