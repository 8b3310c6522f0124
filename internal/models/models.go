package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/zombar/wordwise/internal/readability"
)

// ErrUnsupportedFormat is returned for document formats other than plain,
// markdown and html.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// DocumentFormat is the markup a submitted document is written in.
type DocumentFormat string

const (
	FormatPlain    DocumentFormat = "plain"
	FormatMarkdown DocumentFormat = "markdown"
	FormatHTML     DocumentFormat = "html"
)

// ParseDocumentFormat converts s into a DocumentFormat. An empty string
// selects FormatPlain.
func ParseDocumentFormat(s string) (DocumentFormat, error) {
	switch f := DocumentFormat(s); f {
	case "":
		return FormatPlain, nil
	case FormatPlain, FormatMarkdown, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// AnalysisStatus tracks an analysis through the assessment pipeline.
type AnalysisStatus string

const (
	StatusPending   AnalysisStatus = "pending"   // accepted, waiting for stage 1
	StatusAssessed  AnalysisStatus = "assessed"  // engine feedback stored
	StatusCompleted AnalysisStatus = "completed" // final feedback stored
	StatusFailed    AnalysisStatus = "failed"
)

// Analysis is a submitted document together with its assessment
type Analysis struct {
	ID           string                   `json:"id"`
	Text         string                   `json:"text"`
	Format       DocumentFormat           `json:"format"`
	TargetLevel  readability.TargetLevel  `json:"target_level"`
	Status       AnalysisStatus           `json:"status"`
	GradeLevel   int                      `json:"grade_level"`
	ReadingLevel readability.ReadingLevel `json:"reading_level,omitempty"`
	Feedback     *Feedback                `json:"feedback,omitempty"`
	LastError    string                   `json:"last_error,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// Feedback is the writing assessment returned to the author
type Feedback struct {
	OverallScore        int                 `json:"overall_score"` // 0 to 100
	Strengths           []string            `json:"strengths"`
	AreasForImprovement []string            `json:"areas_for_improvement"`
	Recommendations     []string            `json:"recommendations"`
	Summary             string              `json:"summary"`
	Metrics             readability.Metrics `json:"metrics"`
	AIUsed              bool                `json:"ai_used"` // Whether the LLM supplied the scores (true) or the engine alone (false)
}

// ApplyFeedback copies feedback and its headline numbers onto the analysis.
func (a *Analysis) ApplyFeedback(fb Feedback) {
	a.Feedback = &fb
	a.GradeLevel = fb.Metrics.RecommendedGradeLevel
	a.ReadingLevel = fb.Metrics.ReadingLevel
}
