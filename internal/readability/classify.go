package readability

import "strings"

// IsComplexWord reports whether word is at least three characters long and
// either has three or more syllables or ends in a multi-syllable suffix.
func IsComplexWord(word string) bool {
	if len(word) < 3 {
		return false
	}
	if CountSyllables(word) >= 3 {
		return true
	}
	return complexSuffixRegex.MatchString(strings.ToLower(word))
}

// IsAcademicVocabulary reports whether word belongs to the academic word list
// for level. College writing is also credited for the college-only list.
func IsAcademicVocabulary(word string, level TargetLevel) bool {
	word = strings.ToLower(word)
	if highSchoolAcademicWords[word] {
		return true
	}
	return level == College && collegeAcademicWords[word]
}

// countComplexWords counts the complex words in an already tokenized list.
func countComplexWords(words []string) int {
	count := 0
	for _, word := range words {
		if IsComplexWord(word) {
			count++
		}
	}
	return count
}

// countAcademicWords counts the words credited as academic vocabulary at level.
func countAcademicWords(words []string, level TargetLevel) int {
	count := 0
	for _, word := range words {
		if IsAcademicVocabulary(word, level) {
			count++
		}
	}
	return count
}
