package readability

import "math"

// Metrics is the full readability report for a text.
type Metrics struct {
	WordCount      int `json:"word_count"`
	SentenceCount  int `json:"sentence_count"`
	SyllableCount  int `json:"syllable_count"`
	CharacterCount int `json:"character_count"`
	ParagraphCount int `json:"paragraph_count"`

	FleschReadingEase         float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade        float64 `json:"flesch_kincaid_grade"`
	ColemanLiauIndex          float64 `json:"coleman_liau_index"`
	AutomatedReadabilityIndex float64 `json:"automated_readability_index"`
	GunningFogIndex           float64 `json:"gunning_fog_index"`

	AverageWordsPerSentence      float64 `json:"average_words_per_sentence"`
	AverageSyllablesPerWord      float64 `json:"average_syllables_per_word"`
	ComplexWordPercentage        float64 `json:"complex_word_percentage"`
	AcademicVocabularyPercentage float64 `json:"academic_vocabulary_percentage"`

	RecommendedGradeLevel int          `json:"recommended_grade_level"`
	ReadingLevel          ReadingLevel `json:"reading_level"`
	AppropriateForLevel   bool         `json:"appropriate_for_level"`
}

// CalculateMetrics computes readability metrics for text judged against level.
// Empty text yields zero metrics that are never appropriate for any level.
func CalculateMetrics(text string, level TargetLevel) Metrics {
	return newReport(text, level).metrics()
}

// report carries the unrounded values shared by metrics assembly and the
// assessment rules.
type report struct {
	level TargetLevel
	stats TextStatistics

	fleschEase   float64
	grades       GradeScores
	wordsPerSent float64
	syllPerWord  float64
	complexPct   float64
	academicPct  float64
	grade        int
}

func newReport(text string, level TargetLevel) report {
	stats := ExtractStatistics(text)
	r := report{level: level, stats: stats}
	if stats.WordCount == 0 {
		return r
	}

	complexWords := countComplexWords(stats.Words)
	academicWords := countAcademicWords(stats.Words, level)

	r.fleschEase = FleschReadingEase(stats.WordCount, stats.SentenceCount, stats.SyllableCount)
	r.grades = GradeScores{
		FleschKincaid:  FleschKincaidGrade(stats.WordCount, stats.SentenceCount, stats.SyllableCount),
		ColemanLiau:    ColemanLiauIndex(stats.WordCount, stats.SentenceCount, stats.CharacterCount),
		AutomatedIndex: AutomatedReadabilityIndex(stats.WordCount, stats.SentenceCount, stats.CharacterCount),
		GunningFog:     GunningFogIndex(stats.WordCount, stats.SentenceCount, complexWords),
	}
	r.wordsPerSent = ratio(stats.WordCount, stats.SentenceCount)
	r.syllPerWord = ratio(stats.SyllableCount, stats.WordCount)
	r.complexPct = 100 * ratio(complexWords, stats.WordCount)
	r.academicPct = 100 * ratio(academicWords, stats.WordCount)
	r.grade = int(roundHalfUp(CalibrateGradeLevel(r.grades, r.wordsPerSent, r.complexPct)))
	return r
}

func (r report) empty() bool {
	return r.stats.WordCount == 0
}

func (r report) metrics() Metrics {
	if r.empty() {
		return Metrics{ReadingLevel: Elementary}
	}

	lo, hi := r.level.GradeRange()
	return Metrics{
		WordCount:      r.stats.WordCount,
		SentenceCount:  r.stats.SentenceCount,
		SyllableCount:  r.stats.SyllableCount,
		CharacterCount: r.stats.CharacterCount,
		ParagraphCount: r.stats.ParagraphCount,

		FleschReadingEase:         round1(clamp(r.fleschEase, 0, 100)),
		FleschKincaidGrade:        round1(r.grades.FleschKincaid),
		ColemanLiauIndex:          round1(r.grades.ColemanLiau),
		AutomatedReadabilityIndex: round1(r.grades.AutomatedIndex),
		GunningFogIndex:           round1(r.grades.GunningFog),

		AverageWordsPerSentence:      round1(r.wordsPerSent),
		AverageSyllablesPerWord:      round1(r.syllPerWord),
		ComplexWordPercentage:        round1(r.complexPct),
		AcademicVocabularyPercentage: round1(r.academicPct),

		RecommendedGradeLevel: r.grade,
		ReadingLevel:          ReadingLevelForGrade(r.grade),
		AppropriateForLevel:   r.grade >= lo && r.grade <= hi,
	}
}

// roundHalfUp rounds to the nearest integer, with halves rounded toward
// positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func round1(v float64) float64 {
	return roundHalfUp(v*10) / 10
}
