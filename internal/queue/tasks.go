package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/ollama/ollama/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/wordwise/internal/database"
	"github.com/zombar/wordwise/internal/models"
	"github.com/zombar/wordwise/internal/plaintext"
	"github.com/zombar/wordwise/pkg/metrics"
	"github.com/zombar/wordwise/pkg/tracing"
)

// startTaskSpan starts a consumer span, parented to the enqueuing span when
// the payload carries one.
func startTaskSpan(ctx context.Context, taskType, analysisID string, meta TraceMeta, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if meta.TraceID != "" && meta.SpanID != "" {
		ctx, _ = tracing.ContextWithRemoteParent(ctx, meta.TraceID, meta.SpanID)
	}

	wait := meta.QueueWait().Seconds()
	attrs = append(attrs,
		attribute.String("task.type", taskType),
		attribute.String("analysis.id", analysisID),
		attribute.Float64("queue.wait_time_seconds", wait),
		attribute.Int64("enqueued_at", meta.EnqueuedAt),
	)

	ctx, span := otel.Tracer(tracing.TracerName).Start(ctx, "asynq.task.process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attrs...),
	)
	span.AddEvent("task_processing_started", trace.WithAttributes(
		attribute.Float64("wait_time_seconds", wait),
	))
	return ctx, span
}

// handleAssessDocument runs the readability engine over a stored analysis (Stage 1)
func (w *Worker) handleAssessDocument(ctx context.Context, t *asynq.Task) error {
	var payload AssessDocumentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		return fmt.Errorf("invalid task payload: %v: %w", err, asynq.SkipRetry)
	}

	analysisID := payload.AnalysisID
	ctx, span := startTaskSpan(ctx, TypeAssessDocument, analysisID, payload.TraceMeta)
	defer span.End()
	start := time.Now()

	w.logger.Info("assessing document",
		"analysis_id", analysisID,
		"queue_wait_seconds", payload.QueueWait().Seconds(),
	)

	analysis, err := w.store.GetAnalysis(ctx, analysisID)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("analysis %s: %w: %w", analysisID, err, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis: %w", err)
	}

	text, err := plaintext.Convert(analysis.Text, analysis.Format)
	if err != nil {
		w.fail(ctx, analysisID, err)
		return fmt.Errorf("failed to extract text: %v: %w", err, asynq.SkipRetry)
	}

	feedback := w.analyzer.AnalyzeOffline(text, analysis.TargetLevel)
	analysis.ApplyFeedback(feedback)
	analysis.LastError = ""
	analysis.Status = models.StatusCompleted
	if w.aiStageEnabled() {
		analysis.Status = models.StatusAssessed
	}

	if err := w.store.SaveAnalysis(ctx, analysis); err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}

	w.businessMetrics.RecordAnalysis(string(analysis.Status))
	w.businessMetrics.RecordGrade(string(analysis.TargetLevel), analysis.GradeLevel)
	w.businessMetrics.ObserveDuration(ctx, metrics.StageAssessment, start)
	span.SetAttributes(
		attribute.Int("grade_level", analysis.GradeLevel),
		attribute.String("reading_level", string(analysis.ReadingLevel)),
	)

	w.logger.Info("assessment saved",
		"analysis_id", analysisID,
		"status", analysis.Status,
		"grade_level", analysis.GradeLevel,
		"reading_level", analysis.ReadingLevel,
	)

	if !w.aiStageEnabled() {
		w.businessMetrics.RecordAIOutcome(metrics.AIOutcomeDisabled)
		return nil
	}

	if _, err := w.enqueuer.EnqueueEnrichFeedback(ctx, analysisID); err != nil {
		// The engine feedback is already stored; AI feedback is best effort
		w.logger.Error("failed to enqueue ai feedback", "analysis_id", analysisID, "error", err)
	}

	return nil
}

// handleEnrichFeedback replaces engine feedback with Ollama feedback (Stage 2)
func (w *Worker) handleEnrichFeedback(ctx context.Context, t *asynq.Task) error {
	var payload EnrichFeedbackPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		return fmt.Errorf("invalid task payload: %v: %w", err, asynq.SkipRetry)
	}

	analysisID := payload.AnalysisID
	retryCount, _ := asynq.GetRetryCount(ctx)
	maxRetry, inAsynq := asynq.GetMaxRetry(ctx)

	ctx, span := startTaskSpan(ctx, TypeEnrichFeedback, analysisID, payload.TraceMeta,
		attribute.Int("retry_count", retryCount),
	)
	defer span.End()
	start := time.Now()

	w.logger.Info("generating ai feedback",
		"analysis_id", analysisID,
		"retry_count", retryCount,
		"max_retries", maxRetry,
		"queue_wait_seconds", payload.QueueWait().Seconds(),
	)

	analysis, err := w.store.GetAnalysis(ctx, analysisID)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("analysis %s: %w: %w", analysisID, err, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis: %w", err)
	}
	if analysis.Status == models.StatusCompleted {
		w.logger.Info("analysis already completed, skipping", "analysis_id", analysisID)
		return nil
	}

	text, err := plaintext.Convert(analysis.Text, analysis.Format)
	if err != nil {
		w.fail(ctx, analysisID, err)
		return fmt.Errorf("failed to extract text: %v: %w", err, asynq.SkipRetry)
	}

	offline := w.analyzer.AnalyzeOffline(text, analysis.TargetLevel)
	if analysis.Feedback != nil {
		offline = *analysis.Feedback
	}

	feedback, err := w.analyzer.Enrich(ctx, text, analysis.TargetLevel, offline)
	if err != nil {
		span.RecordError(err)
		if isRetriableOllamaError(err) && (!inAsynq || retryCount < maxRetry) {
			w.logger.Warn("retriable Ollama error, will retry",
				"analysis_id", analysisID,
				"error", err,
				"retry_count", retryCount,
			)
			return err // Let Asynq retry
		}

		w.logger.Error("permanent error generating ai feedback",
			"analysis_id", analysisID,
			"error", err,
		)
		w.businessMetrics.RecordAIOutcome(metrics.AIOutcomeFallback)
		w.fail(ctx, analysisID, err)
		return fmt.Errorf("ai feedback failed: %v: %w", err, asynq.SkipRetry)
	}

	analysis.ApplyFeedback(feedback)
	analysis.Status = models.StatusCompleted
	analysis.LastError = ""
	if err := w.store.SaveAnalysis(ctx, analysis); err != nil {
		return fmt.Errorf("failed to save ai feedback: %w", err)
	}

	w.businessMetrics.RecordAIOutcome(metrics.AIOutcomeSuccess)
	w.businessMetrics.RecordAnalysis(string(models.StatusCompleted))
	w.businessMetrics.ObserveDuration(ctx, metrics.StageAIFeedback, start)

	w.logger.Info("ai feedback completed",
		"analysis_id", analysisID,
		"overall_score", feedback.OverallScore,
		"retry_count", retryCount,
	)

	return nil
}

// fail marks an analysis failed, logging rather than returning store errors.
func (w *Worker) fail(ctx context.Context, analysisID string, cause error) {
	w.businessMetrics.RecordAnalysis(string(models.StatusFailed))
	if err := w.store.MarkFailed(ctx, analysisID, cause); err != nil {
		w.logger.Error("failed to mark analysis failed", "analysis_id", analysisID, "error", err)
	}
}

// isRetriableOllamaError determines if an error is retriable (connection/timeout)
// vs permanent (invalid input, unparseable model output)
func isRetriableOllamaError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Retriable errors: connection issues, timeouts, temporary failures
	retriablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"service unavailable",
		"bad gateway",
		"too many requests",
		"no such host",
		"network is unreachable",
	}

	for _, pattern := range retriablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
