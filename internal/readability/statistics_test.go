package readability

import "testing"

func TestTokenizeWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple text", "Hello world", []string{"hello", "world"}},
		{"with punctuation", "Hello, world! How are you?", []string{"hello", "world", "how", "are", "you"}},
		{"contraction kept whole", "Don't stop", []string{"dont", "stop"}},
		{"symbols stripped", "A 1.1°C rise", []string{"a", "11c", "rise"}},
		{"non-breaking space separates", "a\u00a0b c.", []string{"a", "b", "c"}},
		{"narrow no-break space separates", "one\u202ftwo", []string{"one", "two"}},
		{"empty string", "", nil},
		{"punctuation only", "!!! ... ???", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := TokenizeWords(tt.input)
			if len(words) != len(tt.expected) {
				t.Fatalf("expected %d words, got %d (%v)", len(tt.expected), len(words), words)
			}
			for i := range words {
				if words[i] != tt.expected[i] {
					t.Errorf("word %d: expected %q, got %q", i, tt.expected[i], words[i])
				}
			}
		})
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"single sentence", "Hello world.", 1},
		{"multiple sentences", "Hello. How are you? I'm fine!", 3},
		{"no punctuation", "Hello world", 1},
		{"ellipsis collapsed", "Wait... what happened?", 2},
		{"stray punctuation ignored", "Really?! ... Yes.", 2},
		{"repeated terminators", "Stop!!! Now.", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if count := countSentences(tt.input); count != tt.expected {
				t.Errorf("expected %d sentences, got %d", tt.expected, count)
			}
		})
	}
}

func TestCountParagraphs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"single paragraph", "Hello world", 1},
		{"multiple paragraphs", "Hello\n\nWorld", 2},
		{"empty lines", "Hello\n\n\n\nWorld", 2},
		{"crlf separators", "Hello\r\n\r\nWorld\r\n\r\nAgain", 3},
		{"long single-newline lines", "This first line is long enough.\nThis second line is long enough too.", 2},
		{"short single-newline lines", "Short line\nAnother short", 1},
		{"mixed fallback lines", "A title\nThis line is comfortably over twenty characters.\nok", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if count := countParagraphs(tt.input); count != tt.expected {
				t.Errorf("expected %d paragraphs, got %d", tt.expected, count)
			}
		})
	}
}

func TestExtractStatistics(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		words      int
		sentences  int
		syllables  int
		characters int
		paragraphs int
	}{
		{"empty", "", 0, 0, 0, 0, 0},
		{"whitespace only", "  \n\t  ", 0, 0, 0, 0, 0},
		{"punctuation only", "?! ... --", 0, 0, 0, 0, 0},
		{"single word", "Hello.", 1, 1, 2, 5, 1},
		{"two sentences", "The cat sat on the mat. It was a sunny day.", 11, 2, 12, 31, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ExtractStatistics(tt.input)
			if stats.WordCount != tt.words {
				t.Errorf("expected %d words, got %d", tt.words, stats.WordCount)
			}
			if stats.SentenceCount != tt.sentences {
				t.Errorf("expected %d sentences, got %d", tt.sentences, stats.SentenceCount)
			}
			if stats.SyllableCount != tt.syllables {
				t.Errorf("expected %d syllables, got %d", tt.syllables, stats.SyllableCount)
			}
			if stats.CharacterCount != tt.characters {
				t.Errorf("expected %d characters, got %d", tt.characters, stats.CharacterCount)
			}
			if stats.ParagraphCount != tt.paragraphs {
				t.Errorf("expected %d paragraphs, got %d", tt.paragraphs, stats.ParagraphCount)
			}
			if len(stats.Words) != stats.WordCount {
				t.Errorf("word list has %d entries, count is %d", len(stats.Words), stats.WordCount)
			}
		})
	}
}
