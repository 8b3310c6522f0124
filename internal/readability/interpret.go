package readability

// ScoreMetric names the scale a score passed to InterpretReadabilityScore is on.
type ScoreMetric string

const (
	MetricFlesch     ScoreMetric = "flesch"
	MetricGradeLevel ScoreMetric = "grade-level"
)

// InterpretReadabilityScore maps a raw score to a human-readable band label.
func InterpretReadabilityScore(score float64, metric ScoreMetric) string {
	switch metric {
	case MetricFlesch:
		return interpretFlesch(score)
	case MetricGradeLevel:
		return interpretGradeLevel(score)
	}
	return "Unknown"
}

func interpretFlesch(score float64) string {
	switch {
	case score >= 90:
		return "Very Easy (5th grade)"
	case score >= 80:
		return "Easy (6th grade)"
	case score >= 70:
		return "Fairly Easy (7th grade)"
	case score >= 60:
		return "Standard (8th-9th grade)"
	case score >= 50:
		return "Fairly Difficult (10th-12th grade)"
	case score >= 30:
		return "Difficult (College level)"
	default:
		return "Very Difficult (Graduate level)"
	}
}

func interpretGradeLevel(grade float64) string {
	switch {
	case grade <= 6:
		return "Elementary School"
	case grade <= 8:
		return "Middle School"
	case grade <= 12:
		return "High School"
	case grade <= 16:
		return "College"
	default:
		return "Graduate School"
	}
}
