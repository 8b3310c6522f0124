package readability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uniformScores(v float64) GradeScores {
	return GradeScores{FleschKincaid: v, ColemanLiau: v, AutomatedIndex: v, GunningFog: v}
}

func TestCalibrateGradeLevel(t *testing.T) {
	tests := []struct {
		name       string
		scores     GradeScores
		wordsPer   float64
		complexPct float64
		expected   float64
	}{
		{"low tier no adjustments", uniformScores(8), 15, 15, 8 * 0.65},
		{"middle tier no adjustments", uniformScores(10), 15, 15, 10 * 0.70},
		{"upper tier boundary", uniformScores(20), 15, 15, 20 * 0.75},
		{"upper tier", uniformScores(18.5), 15, 15, 18.5 * 0.75},
		{"top tier", uniformScores(21), 10, 5, 21 * 0.80 * 0.90 * 0.95},
		{"top tier clamped", uniformScores(24), 15, 15, 16},
		{"short sentences and plain words", uniformScores(6), 10, 5, 6 * 0.65 * 0.90 * 0.95},
		{"long sentences and dense words", uniformScores(12), 22, 30, 12 * 0.70 * 1.05 * 1.10},
		{"mixed formulas averaged first", GradeScores{FleschKincaid: 8, ColemanLiau: 10, AutomatedIndex: 12, GunningFog: 14}, 15, 15, 11 * 0.70},
		{"clamped to ceiling", uniformScores(30), 25, 30, 16},
		{"clamped to floor", uniformScores(-3), 5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalibrateGradeLevel(tt.scores, tt.wordsPer, tt.complexPct)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestCalibrateGradeLevelOrderOfFactors(t *testing.T) {
	// Tier selection uses the raw average, not the value after later factors.
	got := CalibrateGradeLevel(uniformScores(15), 25, 30)
	assert.InDelta(t, 15*0.70*1.05*1.10, got, 1e-9)
}

func TestGradeScoresAverage(t *testing.T) {
	assert.InDelta(t, 2.5, GradeScores{1, 2, 3, 4}.Average(), 1e-12)
}
