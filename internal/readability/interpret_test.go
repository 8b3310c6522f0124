package readability

import (
	"errors"
	"strings"
	"testing"
)

func TestInterpretReadabilityScore(t *testing.T) {
	tests := []struct {
		score    float64
		metric   ScoreMetric
		expected string
	}{
		{95, MetricFlesch, "Very Easy (5th grade)"},
		{85, MetricFlesch, "Easy (6th grade)"},
		{70, MetricFlesch, "Fairly Easy (7th grade)"},
		{65, MetricFlesch, "Standard (8th-9th grade)"},
		{50, MetricFlesch, "Fairly Difficult (10th-12th grade)"},
		{30, MetricFlesch, "Difficult (College level)"},
		{10, MetricFlesch, "Very Difficult (Graduate level)"},
		{6, MetricGradeLevel, "Elementary School"},
		{7, MetricGradeLevel, "Middle School"},
		{12, MetricGradeLevel, "High School"},
		{16, MetricGradeLevel, "College"},
		{17, MetricGradeLevel, "Graduate School"},
		{50, ScoreMetric("smog"), "Unknown"},
	}

	for _, tt := range tests {
		if got := InterpretReadabilityScore(tt.score, tt.metric); got != tt.expected {
			t.Errorf("InterpretReadabilityScore(%v, %s) = %q, expected %q", tt.score, tt.metric, got, tt.expected)
		}
	}

	if got := InterpretReadabilityScore(95, MetricFlesch); !strings.Contains(got, "Very Easy") {
		t.Errorf("expected Very Easy band, got %q", got)
	}
}

func TestParseTargetLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected TargetLevel
		wantErr  bool
	}{
		{"", HighSchool, false},
		{"high-school", HighSchool, false},
		{"college", College, false},
		{"graduate", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTargetLevel(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownTargetLevel) {
				t.Errorf("ParseTargetLevel(%q) error = %v, expected ErrUnknownTargetLevel", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTargetLevel(%q) unexpected error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseTargetLevel(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}

	lo, hi := College.GradeRange()
	if lo != 13 || hi != 16 {
		t.Errorf("college range = [%d,%d], expected [13,16]", lo, hi)
	}
	lo, hi = HighSchool.GradeRange()
	if lo != 9 || hi != 12 {
		t.Errorf("high-school range = [%d,%d], expected [9,12]", lo, hi)
	}
}

func TestParseReadingLevel(t *testing.T) {
	for _, l := range []ReadingLevel{Elementary, MiddleSchool, HighSchoolRL, Adult} {
		got, err := ParseReadingLevel(string(l))
		if err != nil || got != l {
			t.Errorf("ParseReadingLevel(%q) = %q, %v", l, got, err)
		}
	}
	for _, s := range []string{"", "college", "ELEMENTARY"} {
		if _, err := ParseReadingLevel(s); err == nil {
			t.Errorf("ParseReadingLevel(%q) expected error", s)
		}
	}
}
