package readability

import (
	"regexp"
	"strings"
)

var (
	nonWordRegex  = regexp.MustCompile(`[^\w\s\p{Z}]`)
	wordCharRegex = regexp.MustCompile(`\w`)
)

// TokenizeWords returns the canonical word list for text: lowercased, with
// punctuation removed and split on whitespace. Every stage of the engine
// counts words from this list.
func TokenizeWords(text string) []string {
	text = strings.ToLower(text)
	text = nonWordRegex.ReplaceAllString(text, "")
	return strings.Fields(text)
}

// hasWordChar reports whether s contains at least one word character.
func hasWordChar(s string) bool {
	return wordCharRegex.MatchString(s)
}
