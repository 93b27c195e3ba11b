package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextLimit is how many characters of a post make up its title.
const TextLimit = 15

var strict = bluemonday.StrictPolicy()

// CleanText trims surrounding whitespace. The text itself is stored as
// written; templates escape it on output.
func CleanText(s string) string {
	return strings.TrimSpace(s)
}

// Excerpt returns the first TextLimit characters of s with any markup
// removed, for page titles.
func Excerpt(s string) string {
	plain := html.UnescapeString(strict.Sanitize(s))
	runes := []rune(strings.TrimSpace(plain))
	if len(runes) <= TextLimit {
		return string(runes)
	}
	return string(runes[:TextLimit])
}
