package readability

import "regexp"

// syllableExceptions holds irregular words the vowel-group heuristic gets wrong.
var syllableExceptions = map[string]int{
	"the":       1,
	"are":       1,
	"were":      1,
	"where":     1,
	"there":     1,
	"here":      1,
	"one":       1,
	"once":      1,
	"some":      1,
	"come":      1,
	"done":      1,
	"gone":      1,
	"give":      1,
	"live":      1,
	"move":      1,
	"whose":     1,
	"enough":    2,
	"people":    2,
	"every":     2,
	"being":     2,
	"business":  2,
	"science":   2,
	"quiet":     2,
	"poem":      2,
	"create":    2,
	"area":      3,
	"idea":      3,
	"really":    2,
	"different": 3,
}

// complexSuffixRegex matches multi-syllable suffixes on a stem of at least
// three characters.
var complexSuffixRegex = regexp.MustCompile(`^[a-z]{3,}(tion|sion|ment|ness|able|ible|ical|ous)$`)

// highSchoolAcademicWords is the analytical and transitional vocabulary
// expected in high-school writing.
var highSchoolAcademicWords = newWordSet(
	"analyze", "evaluate", "demonstrate", "significant", "evidence",
	"furthermore", "however", "therefore", "consequently", "moreover",
	"nevertheless", "although", "whereas", "thus", "hence",
	"indicate", "illustrate", "interpret", "establish", "conclude",
	"examine", "contrast", "compare", "emphasize",
)

// collegeAcademicWords extends the high-school list with abstract and
// theoretical vocabulary. The two lists are disjoint.
var collegeAcademicWords = newWordSet(
	"hypothesis", "paradigm", "methodology", "theoretical", "empirical",
	"synthesize", "juxtapose", "ubiquitous", "dichotomy", "epistemology",
	"phenomenon", "nuanced", "substantiate", "extrapolate", "corroborate",
	"ameliorate", "paradox",
)

func newWordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}
