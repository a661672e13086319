package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var footnoteRegex = regexp.MustCompile(`\[[^\]]*\]`)

// NormalizeName lowercases a name and removes whitespace and footnote
// markers such as "[a]" or "[12]".
func NormalizeName(name string) string {
	name = footnoteRegex.ReplaceAllString(name, "")
	name = strings.ToLower(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// StripFootnotes removes footnote markers and collapses whitespace, the
// result keeps its original casing.
func StripFootnotes(text string) string {
	text = footnoteRegex.ReplaceAllString(text, "")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// MatchName reports whether any of the already normalized matchers is
// contained in name.
func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
