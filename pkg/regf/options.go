package regf

import "github.com/cerata/regf/internal/codepage"

// openConfig collects the knobs OpenOption functions apply, matching the
// teacher's OpenOptions struct-of-knobs style as a functional-options API.
type openConfig struct {
	limits   Limits
	codepage uint32
	cp       CodepageDecoder
}

func defaultOpenConfig() openConfig {
	return openConfig{
		limits:   DefaultLimits(),
		codepage: codepage.DefaultCodepage,
	}
}

// OpenOption configures Open. The zero value of every option is a no-op, so
// Open(ctx, src) alone is always valid.
type OpenOption func(*openConfig)

// WithLimits overrides the default resource limits (spec §5/§9).
func WithLimits(l Limits) OpenOption {
	return func(c *openConfig) { c.limits = l }
}

// WithCodepage sets the legacy 8-bit codepage used to decode compressed
// (non-UTF-16) key and value names. The default is 1252 (spec §6).
func WithCodepage(id uint32) OpenOption {
	return func(c *openConfig) { c.codepage = id }
}

// WithCodepageDecoder installs a custom codepage translator, overriding the
// module's built-in internal/codepage.Decoder. Useful for callers that
// already have their own encoding/charmap wiring.
func WithCodepageDecoder(cp CodepageDecoder) OpenOption {
	return func(c *openConfig) { c.cp = cp }
}

// CodepageDecoder translates legacy codepage-encoded bytes to and from
// UTF-8 (spec §6 external interface). internal/codepage.Decoder is the
// module's default implementation.
type CodepageDecoder interface {
	Decode(codepage uint32, b []byte) (string, error)
	Encode(codepage uint32, s string) ([]byte, error)
}
