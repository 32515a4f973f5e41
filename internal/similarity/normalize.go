package similarity

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, replaces every run of non-word characters
// (anything other than letters, digits, and underscore) with a single space,
// and trims the result. Empty input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// CombineWeighted merges an issue's title and description into one document
// for vectorization. The title is included twice so title overlap counts
// double relative to description overlap. Both sides of a comparison must be
// combined the same way to stay comparable.
func CombineWeighted(title, description string) string {
	t := Normalize(title)
	d := Normalize(description)
	return t + " " + t + " " + d
}
