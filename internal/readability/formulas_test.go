package readability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormulasGuardZeroCounts(t *testing.T) {
	for _, c := range []struct{ words, sentences int }{{0, 0}, {0, 3}, {5, 0}} {
		assert.Zero(t, FleschReadingEase(c.words, c.sentences, 10))
		assert.Zero(t, FleschKincaidGrade(c.words, c.sentences, 10))
		assert.Zero(t, ColemanLiauIndex(c.words, c.sentences, 40))
		assert.Zero(t, AutomatedReadabilityIndex(c.words, c.sentences, 40))
		assert.Zero(t, GunningFogIndex(c.words, c.sentences, 2))
	}
}

func TestFormulaValues(t *testing.T) {
	// 100 words, 5 sentences, 150 syllables, 450 characters, 12 complex words.
	const (
		words        = 100
		sentences    = 5
		syllables    = 150
		characters   = 450
		complexWords = 12
	)

	assert.InDelta(t, 206.835-1.015*20-84.6*1.5, FleschReadingEase(words, sentences, syllables), 1e-9)
	assert.InDelta(t, 0.39*20+11.8*1.5-15.59, FleschKincaidGrade(words, sentences, syllables), 1e-9)
	assert.InDelta(t, 0.0588*450-0.296*5-15.8, ColemanLiauIndex(words, sentences, characters), 1e-9)
	assert.InDelta(t, 4.71*4.5+0.5*20-21.43, AutomatedReadabilityIndex(words, sentences, characters), 1e-9)
	assert.InDelta(t, 0.4*(20+12), GunningFogIndex(words, sentences, complexWords), 1e-9)
}

func TestFleschReadingEaseUnclamped(t *testing.T) {
	// Very short monosyllabic sentences exceed 100 before metrics assembly clamps them.
	assert.Greater(t, FleschReadingEase(4, 1, 4), 100.0)
	// Dense polysyllabic text drops below zero.
	assert.Less(t, FleschReadingEase(3, 1, 9), 0.0)
}
