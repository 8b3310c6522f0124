package readability

// GradeScores are the four grade-oriented formula results the calibrator
// averages. Values are raw, not rounded.
type GradeScores struct {
	FleschKincaid  float64
	ColemanLiau    float64
	AutomatedIndex float64
	GunningFog     float64
}

const (
	minGradeLevel = 1
	maxGradeLevel = 16
)

// Average returns the mean of the four scores.
func (g GradeScores) Average() float64 {
	return (g.FleschKincaid + g.ColemanLiau + g.AutomatedIndex + g.GunningFog) / 4
}

// CalibrateGradeLevel rescales the raw formula average for authentic student
// writing, which the classic formulas overestimate. Each factor multiplies the
// running value in order; the result is clamped to [1, 16] but not rounded.
func CalibrateGradeLevel(scores GradeScores, avgWordsPerSentence, complexWordPercentage float64) float64 {
	raw := scores.Average()
	grade := raw

	switch {
	case raw <= 8:
		grade *= 0.65
	case raw <= 15:
		grade *= 0.70
	case raw <= 20:
		grade *= 0.75
	default:
		grade *= 0.80
	}

	switch {
	case avgWordsPerSentence < 12:
		grade *= 0.90
	case avgWordsPerSentence > 20:
		grade *= 1.05
	}

	switch {
	case complexWordPercentage < 10:
		grade *= 0.95
	case complexWordPercentage > 25:
		grade *= 1.10
	}

	return clamp(grade, minGradeLevel, maxGradeLevel)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
