package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options selects which normalizations apply before names are compared.
// The zero value means exact byte equality, which mirrors the upstream
// system and is a documented source of missed matches; each option is
// an explicit opt-in rather than a fixed rule.
type Options struct {
	FoldCase        bool
	TrimSpace       bool
	StripDiacritics bool
}

// Normalizer maps a raw name to its comparison key.
type Normalizer func(string) string

func newNormalizer(opts Options) Normalizer {
	if !opts.FoldCase && !opts.TrimSpace && !opts.StripDiacritics {
		return func(s string) string { return s }
	}

	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	return func(s string) string {
		if opts.TrimSpace {
			s = strings.Join(strings.Fields(s), " ")
		}
		if opts.StripDiacritics {
			if stripped, _, err := transform.String(stripper, s); err == nil {
				s = stripped
			}
		}
		if opts.FoldCase {
			// Casers are stateful; build one per call.
			s = cases.Fold().String(s)
		}
		return s
	}
}
