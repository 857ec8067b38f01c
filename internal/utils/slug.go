package utils

import (
	"strings"
	"unicode"
)

// Slugify turns a display name into a URL-safe nicename base: lower-cased,
// spaces collapsed to single dashes, anything that is not a letter, digit or
// dash dropped. Uniqueness suffixes are the caller's job.
func Slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	prevDash := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_':
			if !prevDash && b.Len() > 0 {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
