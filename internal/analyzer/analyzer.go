package analyzer

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zombar/wordwise/internal/models"
	"github.com/zombar/wordwise/internal/ollama"
	"github.com/zombar/wordwise/internal/readability"
)

// feedbackGenerator is the LLM collaborator. *ollama.Client satisfies it.
type feedbackGenerator interface {
	GenerateWritingFeedback(ctx context.Context, text string, level readability.TargetLevel) (*ollama.WritingFeedback, error)
}

// Analyzer produces writing feedback from the readability engine and, when
// configured, an LLM.
type Analyzer struct {
	ollamaClient feedbackGenerator
}

// New creates an Analyzer that uses the readability engine only
func New() *Analyzer {
	return &Analyzer{}
}

// NewWithOllama creates a new Analyzer with Ollama integration
func NewWithOllama(ollamaClient *ollama.Client) *Analyzer {
	if ollamaClient == nil {
		return New()
	}
	return &Analyzer{ollamaClient: ollamaClient}
}

// AIEnabled reports whether an LLM is configured.
func (a *Analyzer) AIEnabled() bool {
	return a.ollamaClient != nil
}

// AnalyzeOffline builds feedback from the readability engine alone (stage 1).
func (a *Analyzer) AnalyzeOffline(text string, level readability.TargetLevel) models.Feedback {
	assessment := readability.AssessReadability(text, level)
	return models.Feedback{
		OverallScore:        localOverallScore(len(assessment.Strengths), len(assessment.ImprovementAreas)),
		Strengths:           assessment.Strengths,
		AreasForImprovement: assessment.ImprovementAreas,
		Recommendations:     assessment.Recommendations,
		Summary:             strings.Join(assessment.Feedback, " "),
		Metrics:             assessment.Metrics,
		AIUsed:              false,
	}
}

// AnalyzeWithContext runs the engine and the LLM concurrently and blends the
// results. LLM failures fall back to engine feedback and are only logged.
func (a *Analyzer) AnalyzeWithContext(ctx context.Context, text string, level readability.TargetLevel) models.Feedback {
	if !a.AIEnabled() || strings.TrimSpace(text) == "" {
		return a.AnalyzeOffline(text, level)
	}

	var (
		offline models.Feedback
		ai      *ollama.WritingFeedback
		aiErr   error
	)

	var g errgroup.Group
	g.Go(func() error {
		offline = a.AnalyzeOffline(text, level)
		return nil
	})
	g.Go(func() error {
		ai, aiErr = a.ollamaClient.GenerateWritingFeedback(ctx, text, level)
		return nil
	})
	_ = g.Wait()

	if aiErr != nil {
		slog.Warn("ai feedback failed, using engine feedback", "error", aiErr, "target_level", level)
		return offline
	}
	return blend(offline, ai)
}

// Enrich replaces the LLM-owned fields of offline feedback (stage 2). On
// failure offline is returned unchanged together with the error.
func (a *Analyzer) Enrich(ctx context.Context, text string, level readability.TargetLevel, offline models.Feedback) (models.Feedback, error) {
	if !a.AIEnabled() || strings.TrimSpace(text) == "" {
		return offline, nil
	}

	ai, err := a.ollamaClient.GenerateWritingFeedback(ctx, text, level)
	if err != nil {
		return offline, err
	}
	return blend(offline, ai), nil
}

// blend prefers the LLM's score, lists and summary. Recommendations and
// metrics always come from the engine.
func blend(offline models.Feedback, ai *ollama.WritingFeedback) models.Feedback {
	out := offline
	out.OverallScore = ai.Score()
	out.Strengths = ai.Strengths
	out.AreasForImprovement = ai.AreasForImprovement
	if ai.Summary != "" {
		out.Summary = ai.Summary
	}
	out.AIUsed = true
	return out
}

// localOverallScore is the share of engine findings that are strengths.
func localOverallScore(strengths, improvements int) int {
	total := strengths + improvements
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(strengths) / float64(total)))
}
