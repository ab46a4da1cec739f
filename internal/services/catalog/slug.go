package catalog

import (
	"strings"
	"unicode"
)

// DeriveKey normalizes a display name into a category key: lowercased, runs
// of whitespace collapsed to a single underscore, and everything outside
// letters, digits, '-' and '_' dropped. Letters are kept from any script so
// names like "英語" derive usable keys. Returns "" when nothing survives,
// which callers treat as an invalid name.
func DeriveKey(name string) string {
	var b strings.Builder
	lastUnderscore := false

	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsSpace(r):
			if !lastUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				lastUnderscore = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
		case r == '-' || r == '_':
			b.WriteRune(r)
			lastUnderscore = false
		}
	}

	return strings.TrimRight(b.String(), "_")
}
