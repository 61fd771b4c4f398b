package regf

// Windows registry limits, mirrored from documented Win32 constraints
// (spec §5 resource policy: "any decoded length exceeding a configurable
// maximum fails before allocation").
const (
	WindowsMaxSubkeysDefault = 512
	WindowsMaxValues         = 16384
	WindowsMaxKeyNameLen     = 255
	WindowsMaxValueNameLen   = 16383

	// DefaultMaxValueSize is the spec's default allocation ceiling (256 MiB).
	DefaultMaxValueSize = 256 << 20

	// DefaultMaxCellSize bounds any single decoded cell.
	DefaultMaxCellSize = 64 << 20

	// MaxSubkeyListDepth bounds `ri` index-of-indices recursion (spec §9).
	MaxSubkeyListDepth = 32

	// MaxPathComponents bounds FindByPath's `\`-separated segment count
	// (spec §9), independent of input.
	MaxPathComponents = 256
)

// Limits constrains allocation and recursion while reading a hive, guarding
// against adversarial length/offset fields (spec §5/§9). The zero value is
// not useful; construct with DefaultLimits.
type Limits struct {
	// MaxValueSize bounds a single value's reassembled data length.
	MaxValueSize int64
	// MaxCellSize bounds any single decoded cell.
	MaxCellSize int
	// BlockSize and CacheCapacity tune the underlying IOCache; zero selects
	// the package defaults.
	BlockSize     int
	CacheCapacity int
}

// DefaultLimits returns the standard, conservative limits suitable for
// real-world hives.
func DefaultLimits() Limits {
	return Limits{
		MaxValueSize: DefaultMaxValueSize,
		MaxCellSize:  DefaultMaxCellSize,
	}
}

// RelaxedLimits permits larger values and cells, for hives known to carry
// unusually large REG_BINARY payloads.
func RelaxedLimits() Limits {
	return Limits{
		MaxValueSize: 1 << 30,
		MaxCellSize:  256 << 20,
	}
}

// StrictLimits is appropriate for untrusted or adversarial input where
// resource exhaustion is a concern.
func StrictLimits() Limits {
	return Limits{
		MaxValueSize: 4 << 20,
		MaxCellSize:  4 << 20,
	}
}
