// Package keytree assembles the low-level cell decoders in internal/cellfmt
// into the navigable key/value graph: named keys, their subkey and value
// lists, big-data reassembly, path lookup, and bounded traversal.
package keytree

import "errors"

// Sentinel errors returned by this package. Callers at the public API layer
// map these onto the exported error-kind taxonomy with errors.Is.
var (
	ErrNotFound             = errors.New("keytree: not found")
	ErrCorrupt              = errors.New("keytree: corrupt structure")
	ErrTypeMismatch         = errors.New("keytree: value type mismatch")
	ErrUnsupported          = errors.New("keytree: unsupported feature")
	ErrAborted              = errors.New("keytree: walk aborted")
	ErrLengthExceedsMaximum = errors.New("keytree: declared length exceeds configured maximum")
)
