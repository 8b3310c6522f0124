package readability

import "strings"

// CountSyllables estimates the syllables in a single word using vowel-group
// transitions, with corrections for silent e and the -le ending. The result
// is at least 1 for any word containing a letter and 0 otherwise.
func CountSyllables(word string) int {
	word = lettersOnly(word)
	if word == "" {
		return 0
	}

	if n, ok := syllableExceptions[word]; ok {
		return n
	}

	count := 0
	prevVowel := false
	for i := 0; i < len(word); i++ {
		vowel := isVowel(word[i])
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}

	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}

	if len(word) > 2 && strings.HasSuffix(word, "le") && !isVowel(word[len(word)-3]) {
		count++
	}

	if count < 1 {
		count = 1
	}
	return count
}

// lettersOnly lowercases word and drops everything outside a-z.
func lettersOnly(word string) string {
	word = strings.ToLower(word)
	var b strings.Builder
	b.Grow(len(word))
	for i := 0; i < len(word); i++ {
		if c := word[i]; c >= 'a' && c <= 'z' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
