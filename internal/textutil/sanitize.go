package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const emptyToken = "image"

// SanitizeToken converts value into a lowercase ASCII token usable as a file
// or URL path segment. Accents are folded ("Café" becomes "cafe"), hyphens
// are kept, and every other run of non-alphanumeric characters collapses to
// a single underscore. Values with nothing usable yield "image".
func SanitizeToken(value string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), value)
	if err != nil {
		folded = value
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return emptyToken
	}
	return out
}
