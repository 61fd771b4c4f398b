// Package codepage decodes legacy Windows codepage-encoded byte strings
// (as found in compressed NK/VK names and REG_SZ-family value data) to
// UTF-8. It is the module's default implementation of the external
// codepage-service collaborator named in the hive format's spec:
// internal/keytree depends only on its own CodepageDecoder interface, and
// pkg/regf installs this package's Decoder unless the caller supplies
// another through regf.WithCodepageDecoder.
package codepage

import (
	"fmt"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// DefaultCodepage is used when a caller does not specify one, matching
// the historical default ANSI codepage for US/Western-European Windows.
const DefaultCodepage = 1252

// Decoder translates legacy codepage bytes to UTF-8 and back. It is safe
// for concurrent use.
type Decoder struct {
	mu    sync.Mutex
	cache map[uint32]encoding.Encoding
}

// New returns a Decoder recognizing the codepage table named in the
// format's spec: 874, 932, 936, 949, 950, 1250-1258, and the KOI8 family.
func New() *Decoder {
	return &Decoder{cache: make(map[uint32]encoding.Encoding)}
}

// Decode converts b, encoded in the given Windows codepage, to a UTF-8
// string. An unrecognized codepage falls back to DefaultCodepage rather
// than failing outright, matching the format's historical tolerance for
// unknown/reserved codepage IDs in older hives.
func (d *Decoder) Decode(codepage uint32, b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	enc, err := d.lookup(codepage)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("codepage: decode cp%d: %w", codepage, err)
	}
	return string(out), nil
}

// Encode converts a UTF-8 string to bytes in the given Windows codepage.
func (d *Decoder) Encode(codepage uint32, s string) ([]byte, error) {
	enc, err := d.lookup(codepage)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("codepage: encode cp%d: %w", codepage, err)
	}
	return out, nil
}

func (d *Decoder) lookup(codepage uint32) (encoding.Encoding, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if enc, ok := d.cache[codepage]; ok {
		return enc, nil
	}
	enc, ok := table[codepage]
	if !ok {
		enc = table[DefaultCodepage]
	}
	d.cache[codepage] = enc
	return enc, nil
}

// table maps recognized Windows codepage identifiers to their
// golang.org/x/text encoding. Each entry is grounded on the x/text
// subpackage that implements the matching codepage family; charmap alone
// covers the single-byte pages (including KOI8), so only the CJK pages
// pull in the japanese/korean/simplifiedchinese/traditionalchinese
// subpackages as well.
var table = map[uint32]encoding.Encoding{
	874:  charmap.Windows874,
	932:  japanese.ShiftJIS,
	936:  simplifiedchinese.GBK,
	949:  korean.EUCKR,
	950:  traditionalchinese.Big5,
	1250: charmap.Windows1250,
	1251: charmap.Windows1251,
	1252: charmap.Windows1252,
	1253: charmap.Windows1253,
	1254: charmap.Windows1254,
	1255: charmap.Windows1255,
	1256: charmap.Windows1256,
	1257: charmap.Windows1257,
	1258: charmap.Windows1258,
	// KOI8 family: Windows rarely maps these by numeric codepage id, but
	// the format's spec enumerates them as recognized targets.
	20866: charmap.KOI8R,
	21866: charmap.KOI8U,
}
