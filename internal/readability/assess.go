package readability

import "fmt"

// Assessment wraps Metrics with generated, human-readable guidance.
type Assessment struct {
	Metrics          Metrics  `json:"metrics"`
	Feedback         []string `json:"feedback"`
	Recommendations  []string `json:"recommendations"`
	Strengths        []string `json:"strengths"`
	ImprovementAreas []string `json:"improvement_areas"`
}

// Assessment rule thresholds.
const (
	shortSentenceWords = 10
	longSentenceWords  = 25

	lowAcademicPct  = 5
	highAcademicPct = 15

	lowComplexPct  = 10
	highComplexPct = 20

	easyFlesch     = 70
	standardFlesch = 50

	thinParagraphWords  = 50
	denseParagraphWords = 200
)

// AssessReadability computes metrics for text and turns them into feedback,
// recommendations, strengths and improvement areas relative to level.
func AssessReadability(text string, level TargetLevel) Assessment {
	r := newReport(text, level)
	a := Assessment{
		Metrics:          r.metrics(),
		Feedback:         []string{},
		Recommendations:  []string{},
		Strengths:        []string{},
		ImprovementAreas: []string{},
	}

	if r.empty() {
		a.Feedback = append(a.Feedback, "No text to analyze. Start writing to receive readability feedback.")
		a.Recommendations = append(a.Recommendations, "Write at least a few complete sentences so your readability can be measured.")
		return a
	}

	a.assessGradeLevel(r)
	a.assessSentenceLength(r)
	a.assessAcademicVocabulary(r)
	a.assessComplexWords(r)
	a.assessReadingEase(r)
	a.assessParagraphs(r)
	return a
}

func (a *Assessment) assessGradeLevel(r report) {
	lo, hi := r.level.GradeRange()
	switch {
	case r.grade >= lo && r.grade <= hi:
		a.Feedback = append(a.Feedback, fmt.Sprintf(
			"Your writing is at a grade %d level, which is appropriate for %s readers.", r.grade, r.level))
		a.Strengths = append(a.Strengths, "Writing complexity matches your target audience")
	case r.grade < lo:
		a.Feedback = append(a.Feedback, fmt.Sprintf(
			"Your writing is at a grade %d level, below the grade %d-%d range expected for %s writing.", r.grade, lo, hi, r.level))
		a.ImprovementAreas = append(a.ImprovementAreas,
			"Increase vocabulary sophistication",
			"Use more complex sentence structures",
		)
		a.Recommendations = append(a.Recommendations,
			"Incorporate more academic vocabulary and transition words",
			"Combine related ideas using subordinate clauses",
		)
	default:
		a.Feedback = append(a.Feedback, fmt.Sprintf(
			"Your writing is at a grade %d level, above the grade %d-%d range expected for %s writing.", r.grade, lo, hi, r.level))
		a.ImprovementAreas = append(a.ImprovementAreas, "Simplify overly complex sentences")
		a.Recommendations = append(a.Recommendations,
			"Break long sentences into shorter ones and prefer clear, precise words")
	}
}

func (a *Assessment) assessSentenceLength(r report) {
	switch {
	case r.wordsPerSent < shortSentenceWords:
		a.ImprovementAreas = append(a.ImprovementAreas, "Sentences are short and choppy")
		a.Recommendations = append(a.Recommendations,
			"Combine short sentences to show how your ideas connect")
	case r.wordsPerSent > longSentenceWords:
		a.ImprovementAreas = append(a.ImprovementAreas, "Sentences are long and hard to follow")
		a.Recommendations = append(a.Recommendations,
			"Break up long sentences so each one carries a single main idea")
	default:
		a.Strengths = append(a.Strengths, "Good sentence length variety")
	}
}

func (a *Assessment) assessAcademicVocabulary(r report) {
	switch {
	case r.academicPct < lowAcademicPct:
		a.ImprovementAreas = append(a.ImprovementAreas, "Limited use of academic vocabulary")
		a.Recommendations = append(a.Recommendations,
			"Use words such as \"analyze\", \"evaluate\" and \"furthermore\" to strengthen your analysis")
	case r.academicPct > highAcademicPct:
		a.Strengths = append(a.Strengths, "Strong use of academic vocabulary")
	default:
		a.Strengths = append(a.Strengths, "Good balance of academic vocabulary")
	}
}

func (a *Assessment) assessComplexWords(r report) {
	switch {
	case r.complexPct < lowComplexPct:
		if r.level == College {
			a.ImprovementAreas = append(a.ImprovementAreas,
				"Use more sophisticated vocabulary for college-level writing")
		} else {
			a.Strengths = append(a.Strengths, "Uses clear, accessible vocabulary")
		}
	case r.complexPct > highComplexPct:
		a.ImprovementAreas = append(a.ImprovementAreas,
			"Vocabulary may be overly complex for readers")
	default:
		a.Strengths = append(a.Strengths, "Good balance of simple and complex words")
	}
}

func (a *Assessment) assessReadingEase(r report) {
	switch {
	case r.fleschEase >= easyFlesch:
		if r.level == HighSchool {
			a.Strengths = append(a.Strengths, "Text is easy to read")
		} else {
			a.Feedback = append(a.Feedback,
				"Your text is very easy to read; consider adding complexity appropriate for college writing.")
		}
	case r.fleschEase >= standardFlesch:
		a.Strengths = append(a.Strengths, "Readability is appropriate for academic writing")
	default:
		a.ImprovementAreas = append(a.ImprovementAreas, "Text is difficult to read")
		a.Recommendations = append(a.Recommendations,
			"Use shorter words and sentences where precision allows")
	}
}

func (a *Assessment) assessParagraphs(r report) {
	wordsPerParagraph := ratio(r.stats.WordCount, r.stats.ParagraphCount)
	switch {
	case wordsPerParagraph < thinParagraphWords:
		a.Recommendations = append(a.Recommendations,
			"Develop your paragraphs with more supporting detail and examples")
	case wordsPerParagraph > denseParagraphWords:
		a.Recommendations = append(a.Recommendations,
			"Break up long paragraphs so each focuses on one main point")
	default:
		a.Strengths = append(a.Strengths, "Well-organized paragraph structure")
	}
}
