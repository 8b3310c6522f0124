package readability

// The five classic formulas. Each returns 0 when there are no words or no
// sentences.

// FleschReadingEase returns the unclamped Flesch Reading Ease score.
func FleschReadingEase(words, sentences, syllables int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	return 206.835 - 1.015*ratio(words, sentences) - 84.6*ratio(syllables, words)
}

// FleschKincaidGrade returns the Flesch-Kincaid grade level.
func FleschKincaidGrade(words, sentences, syllables int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	return 0.39*ratio(words, sentences) + 11.8*ratio(syllables, words) - 15.59
}

// ColemanLiauIndex returns the Coleman-Liau index, computed from letters and
// sentences per hundred words.
func ColemanLiauIndex(words, sentences, characters int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	l := 100 * ratio(characters, words)
	s := 100 * ratio(sentences, words)
	return 0.0588*l - 0.296*s - 15.8
}

// AutomatedReadabilityIndex returns the ARI grade level.
func AutomatedReadabilityIndex(words, sentences, characters int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	return 4.71*ratio(characters, words) + 0.5*ratio(words, sentences) - 21.43
}

// GunningFogIndex returns the Gunning Fog index.
func GunningFogIndex(words, sentences, complexWords int) float64 {
	if words == 0 || sentences == 0 {
		return 0
	}
	return 0.4 * (ratio(words, sentences) + 100*ratio(complexWords, words))
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
