// Package naming derives filesystem-safe file names from document metadata.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultBaseName is used when no usable name can be derived from a document.
const DefaultBaseName = "openapi"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// foldDiacritics decomposes characters and strips combining marks, so
// "Café API" sanitizes to "cafe-api" instead of losing the accented letter.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeFilename produces a filesystem-safe base name from an arbitrary
// title string. It returns "" when nothing usable remains, letting the caller
// fall back to a default.
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if folded, _, err := transform.String(foldDiacritics, name); err == nil {
		name = folded
	}
	name = strings.ToLower(name)
	name = unsafeChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-._")
	return name
}
