package cellfmt

import "time"

// filetimeEpochDelta is the number of 100ns FILETIME ticks between the
// Windows epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDelta = 116444736000000000

// filetimeTick is the resolution of one FILETIME unit.
const filetimeTick = 100 * time.Nanosecond

// FiletimeToTime converts a little-endian Windows FILETIME (NK LastWrite,
// VK timestamps, etc.) into a UTC time.Time. Zero or pre-epoch values
// collapse to the Unix epoch rather than producing a negative time.
func FiletimeToTime(v uint64) time.Time {
	if v <= filetimeEpochDelta {
		return time.Unix(0, 0).UTC()
	}
	elapsed := time.Duration(v-filetimeEpochDelta) * filetimeTick
	return time.Unix(0, 0).UTC().Add(elapsed)
}
