package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Task type constants
const (
	TypeAssessDocument = "wordwise:assess_document"
	TypeEnrichFeedback = "wordwise:enrich_feedback"
)

// Queue names
const (
	QueueAssessment = "assessment"
	QueueAIFeedback = "ai-feedback"
)

const taskRetention = 7 * 24 * time.Hour

// ErrTaskNotFound is returned by TaskState for unknown task IDs.
var ErrTaskNotFound = errors.New("task not found")

// TraceMeta carries the enqueuing span and enqueue time to the worker.
type TraceMeta struct {
	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix timestamp in nanoseconds
}

// stamp records the enqueue time and the span in ctx, if any.
func (m *TraceMeta) stamp(ctx context.Context, taskType, taskID, analysisID string) {
	m.EnqueuedAt = time.Now().UnixNano()

	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}
	m.TraceID = span.SpanContext().TraceID().String()
	m.SpanID = span.SpanContext().SpanID().String()

	span.AddEvent("task_enqueued", trace.WithAttributes(
		attribute.String("task.type", taskType),
		attribute.String("task.id", taskID),
		attribute.String("analysis.id", analysisID),
		attribute.Int64("enqueued_at", m.EnqueuedAt),
	))
}

// QueueWait returns how long the task waited since it was enqueued.
func (m TraceMeta) QueueWait() time.Duration {
	if m.EnqueuedAt <= 0 {
		return 0
	}
	return time.Since(time.Unix(0, m.EnqueuedAt))
}

// AssessDocumentPayload is the payload of the engine assessment stage
type AssessDocumentPayload struct {
	AnalysisID string `json:"analysis_id"`
	TraceMeta
}

// EnrichFeedbackPayload is the payload of the AI feedback stage
type EnrichFeedbackPayload struct {
	AnalysisID string `json:"analysis_id"`
	TraceMeta
}

// AssessTaskID is the asynq task ID of an analysis's assessment stage.
func AssessTaskID(analysisID string) string {
	return analysisID
}

// EnrichTaskID is the asynq task ID of an analysis's AI feedback stage.
func EnrichTaskID(analysisID string) string {
	return analysisID + "-ai-feedback"
}

// Client wraps the Asynq client for enqueueing tasks
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// ClientConfig contains configuration for the queue client
type ClientConfig struct {
	RedisAddr string
}

// NewClient creates a new queue client
func NewClient(cfg ClientConfig) *Client {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	return &Client{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
	}
}

// EnqueueAssessDocument enqueues the engine assessment of a stored analysis
func (c *Client) EnqueueAssessDocument(ctx context.Context, analysisID string) (string, error) {
	taskID := AssessTaskID(analysisID)
	payload := AssessDocumentPayload{AnalysisID: analysisID}
	payload.stamp(ctx, TypeAssessDocument, taskID, analysisID)

	return c.enqueue(ctx, TypeAssessDocument, taskID, payload,
		asynq.MaxRetry(3),              // Standard retry for engine assessment
		asynq.Timeout(5*time.Minute),   // 5 minute timeout
		asynq.Queue(QueueAssessment),   // Assessment queue (highest priority)
		asynq.Retention(taskRetention), // Keep completed tasks for 7 days
	)
}

// EnqueueEnrichFeedback enqueues AI feedback generation for an assessed analysis
func (c *Client) EnqueueEnrichFeedback(ctx context.Context, analysisID string) (string, error) {
	taskID := EnrichTaskID(analysisID)
	payload := EnrichFeedbackPayload{AnalysisID: analysisID}
	payload.stamp(ctx, TypeEnrichFeedback, taskID, analysisID)

	return c.enqueue(ctx, TypeEnrichFeedback, taskID, payload,
		asynq.MaxRetry(10),             // High retry tolerance for Ollama
		asynq.Timeout(10*time.Minute),  // 10 minute timeout for AI processing
		asynq.Queue(QueueAIFeedback),   // AI feedback queue (lower priority)
		asynq.Retention(taskRetention), // Keep completed tasks for 7 days
	)
}

func (c *Client) enqueue(ctx context.Context, taskType, taskID string, payload any, opts ...asynq.Option) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(taskType, payloadBytes, asynq.TaskID(taskID))
	info, err := c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue %s task: %w", taskType, err)
	}

	return info.ID, nil
}

// TaskState returns the asynq state ("pending", "active", "retry", ...) of a task.
func (c *Client) TaskState(queue, taskID string) (string, error) {
	info, err := c.inspector.GetTaskInfo(queue, taskID)
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return "", ErrTaskNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to inspect task: %w", err)
	}
	return info.State.String(), nil
}

// Close closes the client connection
func (c *Client) Close() error {
	if err := c.inspector.Close(); err != nil {
		c.client.Close()
		return err
	}
	return c.client.Close()
}
