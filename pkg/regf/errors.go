package regf

import (
	"errors"

	"github.com/cerata/regf/internal/cellstore"
	"github.com/cerata/regf/internal/hivebins"
	"github.com/cerata/regf/internal/keytree"
)

// ErrKind classifies errors so callers can branch on intent rather than
// text, mirroring the teacher's pkg/types.Error pattern but carrying the
// full taxonomy this format's spec names.
type ErrKind int

const (
	ErrKindInvalidArgument ErrKind = iota
	ErrKindIO
	ErrKindUnsupportedVersion
	ErrKindBadSignature
	ErrKindLengthExceedsMaximum
	ErrKindOffsetOutOfRange
	ErrKindCorruptedChecksum
	ErrKindCorruptedHiveBin
	ErrKindCorruptedCell
	ErrKindCorruptedSubkeyList
	ErrKindCorruptedValue
	ErrKindTypeMismatch
	ErrKindNotFound
	ErrKindAborted
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidArgument:
		return "InvalidArgument"
	case ErrKindIO:
		return "IO"
	case ErrKindUnsupportedVersion:
		return "UnsupportedVersion"
	case ErrKindBadSignature:
		return "BadSignature"
	case ErrKindLengthExceedsMaximum:
		return "LengthExceedsMaximum"
	case ErrKindOffsetOutOfRange:
		return "OffsetOutOfRange"
	case ErrKindCorruptedChecksum:
		return "CorruptedChecksum"
	case ErrKindCorruptedHiveBin:
		return "CorruptedHiveBin"
	case ErrKindCorruptedCell:
		return "CorruptedCell"
	case ErrKindCorruptedSubkeyList:
		return "CorruptedSubkeyList"
	case ErrKindCorruptedValue:
		return "CorruptedValue"
	case ErrKindTypeMismatch:
		return "TypeMismatch"
	case ErrKindNotFound:
		return "NotFound"
	case ErrKindAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Error is a typed error carrying an ErrKind and an optional wrapped cause,
// comparable via errors.Is/errors.As.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, ErrNotFound) to match any *Error with the same
// Kind, regardless of Msg/Err, the way the teacher's sentinels compare.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels matching the format's error taxonomy (spec §7).
var (
	ErrNotHive      = &Error{Kind: ErrKindBadSignature, Msg: "not a registry hive (bad regf signature)"}
	ErrCorrupt      = &Error{Kind: ErrKindCorruptedCell, Msg: "corrupt hive structure"}
	ErrUnsupported  = &Error{Kind: ErrKindUnsupportedVersion, Msg: "unsupported hive version"}
	ErrNotFound     = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	ErrTypeMismatch = &Error{Kind: ErrKindTypeMismatch, Msg: "value type mismatch"}
	ErrAborted      = &Error{Kind: ErrKindAborted, Msg: "operation aborted"}
)

// wrapErr maps an internal-package sentinel to the public *Error taxonomy.
// nil stays nil. Errors already of type *Error pass through unchanged.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var pub *Error
	if errors.As(err, &pub) {
		return pub
	}
	switch {
	case errors.Is(err, keytree.ErrNotFound):
		return &Error{Kind: ErrKindNotFound, Msg: "not found", Err: err}
	case errors.Is(err, keytree.ErrTypeMismatch):
		return &Error{Kind: ErrKindTypeMismatch, Msg: "value type mismatch", Err: err}
	case errors.Is(err, keytree.ErrUnsupported):
		return &Error{Kind: ErrKindUnsupportedVersion, Msg: "unsupported feature", Err: err}
	case errors.Is(err, keytree.ErrAborted):
		return &Error{Kind: ErrKindAborted, Msg: "operation aborted", Err: err}
	case errors.Is(err, keytree.ErrCorrupt):
		return &Error{Kind: ErrKindCorruptedCell, Msg: "corrupt structure", Err: err}
	case errors.Is(err, keytree.ErrLengthExceedsMaximum):
		return &Error{Kind: ErrKindLengthExceedsMaximum, Msg: "declared length exceeds configured maximum", Err: err}
	case errors.Is(err, cellstore.ErrOutOfRange):
		return &Error{Kind: ErrKindOffsetOutOfRange, Msg: "offset out of range", Err: err}
	case errors.Is(err, hivebins.ErrCorruptBin):
		return &Error{Kind: ErrKindCorruptedHiveBin, Msg: "corrupted hive bin", Err: err}
	default:
		return &Error{Kind: ErrKindIO, Msg: "hive read failed", Err: err}
	}
}
