package core

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparators   = regexp.MustCompile(`[\s-]+`)
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Slugify lowers `s`, strips punctuation and turns whitespace runs into single hyphens.
func Slugify(s string) string {
	s = slugInvalidChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
