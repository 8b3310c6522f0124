package readability

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// TextStatistics holds the raw counts every formula is computed from.
type TextStatistics struct {
	WordCount      int
	SentenceCount  int
	SyllableCount  int
	CharacterCount int
	ParagraphCount int
	Words          []string
}

var (
	ellipsisRegex       = regexp.MustCompile(`\.{3,}`)
	sentenceEndRegex    = regexp.MustCompile(`[.!?]+`)
	paragraphBreakRegex = regexp.MustCompile(`(?:\r?\n){2,}`)
	lineBreakRegex      = regexp.MustCompile(`\r?\n`)
)

// minFallbackParagraphLength is the length a single-newline line must exceed
// to count as its own paragraph when the text has no blank-line separators.
const minFallbackParagraphLength = 20

// ExtractStatistics tokenizes text into words, sentences, syllables,
// characters and paragraphs. Empty text, or text without a single word
// character, yields zero statistics.
func ExtractStatistics(text string) TextStatistics {
	if strings.TrimSpace(text) == "" {
		return TextStatistics{}
	}

	words := TokenizeWords(text)
	if len(words) == 0 {
		return TextStatistics{}
	}

	stats := TextStatistics{
		WordCount:      len(words),
		SentenceCount:  countSentences(text),
		ParagraphCount: countParagraphs(text),
		Words:          words,
	}

	for _, word := range words {
		stats.SyllableCount += CountSyllables(word)
		stats.CharacterCount += utf8.RuneCountInString(word)
	}

	return stats
}

// countSentences splits on terminal punctuation after collapsing ellipses,
// ignoring fragments that contain no word characters.
func countSentences(text string) int {
	text = ellipsisRegex.ReplaceAllString(text, ".")
	count := 0
	for _, fragment := range sentenceEndRegex.Split(text, -1) {
		if hasWordChar(fragment) {
			count++
		}
	}
	return max(1, count)
}

// countParagraphs splits on blank lines. Text without blank lines falls back
// to single newlines, counting only lines longer than
// minFallbackParagraphLength so soft-wrapped lines are not mistaken for
// paragraphs.
func countParagraphs(text string) int {
	count := 0
	for _, p := range paragraphBreakRegex.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}

	if count == 1 {
		count = 0
		for _, line := range lineBreakRegex.Split(text, -1) {
			if len(strings.TrimSpace(line)) > minFallbackParagraphLength {
				count++
			}
		}
	}

	return max(1, count)
}
