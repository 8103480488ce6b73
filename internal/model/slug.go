package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug turns a title into a lowercase ASCII token usable as a file name:
// accents are stripped, anything else outside [a-z0-9] collapses to "-".
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// FileName returns the download name for a rendered resume.
func (r *Resume) FileName(ext string) string {
	base := Slug(r.Title)
	if base == "" {
		base = Slug(r.Personal.FullName)
	}
	if base == "" {
		base = "resume"
	}
	return base + "." + ext
}
