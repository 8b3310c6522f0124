package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/zombar/wordwise/internal/analyzer"
	"github.com/zombar/wordwise/internal/models"
	"github.com/zombar/wordwise/pkg/metrics"
)

// Store is the persistence the worker needs. *database.DB satisfies it.
type Store interface {
	GetAnalysis(ctx context.Context, id string) (*models.Analysis, error)
	SaveAnalysis(ctx context.Context, analysis *models.Analysis) error
	MarkFailed(ctx context.Context, id string, cause error) error
}

// Enqueuer schedules the AI feedback stage. *Client satisfies it.
type Enqueuer interface {
	EnqueueEnrichFeedback(ctx context.Context, analysisID string) (string, error)
}

// queuePriorities weights the named queues: higher value = higher priority.
var queuePriorities = map[string]int{
	QueueAssessment: 6, // Engine assessment, fast and user-facing
	QueueAIFeedback: 3, // Ollama feedback, slow
}

// aiRetryDelays backs off Ollama tasks: ~8 hours in total.
var aiRetryDelays = []time.Duration{
	30 * time.Second,
	1 * time.Minute,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
	20 * time.Minute,
	30 * time.Minute,
	1 * time.Hour,
	2 * time.Hour,
	4 * time.Hour,
}

var assessmentRetryDelays = []time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	15 * time.Minute,
}

// retryDelay picks the n-th backoff for task, repeating the last step.
func retryDelay(n int, _ error, task *asynq.Task) time.Duration {
	delays := assessmentRetryDelays
	if task.Type() == TypeEnrichFeedback {
		delays = aiRetryDelays
	}
	if n < len(delays) {
		return delays[n]
	}
	return delays[len(delays)-1]
}

// Worker wraps the Asynq server for processing tasks
type Worker struct {
	server          *asynq.Server
	mux             *asynq.ServeMux
	store           Store
	analyzer        *analyzer.Analyzer
	enqueuer        Enqueuer
	concurrency     int
	logger          *slog.Logger
	businessMetrics *metrics.BusinessMetrics
}

// WorkerConfig contains configuration for the queue worker
type WorkerConfig struct {
	RedisAddr   string
	Concurrency int
}

// NewWorker creates a new queue worker. enqueuer may be nil, in which case
// assessed analyses are completed without AI feedback.
func NewWorker(
	cfg WorkerConfig,
	store Store,
	analyzer *analyzer.Analyzer,
	enqueuer Enqueuer,
	businessMetrics *metrics.BusinessMetrics,
) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	serverCfg := asynq.Config{
		Concurrency:    cfg.Concurrency,
		Queues:         queuePriorities,
		StrictPriority: false,
		RetryDelayFunc: retryDelay,

		// Graceful shutdown timeout
		ShutdownTimeout: 30 * time.Second,

		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)

			slog.Error("task processing error",
				"task_type", task.Type(),
				"error", err,
				"retry_count", retried,
				"max_retries", maxRetry,
			)
		}),
	}

	w := newWorker(store, analyzer, enqueuer, businessMetrics)
	w.server = asynq.NewServer(redisOpt, serverCfg)
	w.concurrency = cfg.Concurrency
	return w
}

func newWorker(store Store, a *analyzer.Analyzer, enqueuer Enqueuer, businessMetrics *metrics.BusinessMetrics) *Worker {
	w := &Worker{
		mux:             asynq.NewServeMux(),
		store:           store,
		analyzer:        a,
		enqueuer:        enqueuer,
		logger:          slog.Default(),
		businessMetrics: businessMetrics,
	}
	w.registerHandlers()
	return w
}

// registerHandlers registers all task handlers with the worker
func (w *Worker) registerHandlers() {
	w.mux.HandleFunc(TypeAssessDocument, w.handleAssessDocument)
	w.mux.HandleFunc(TypeEnrichFeedback, w.handleEnrichFeedback)
}

// aiStageEnabled reports whether assessed analyses move on to AI feedback.
func (w *Worker) aiStageEnabled() bool {
	return w.enqueuer != nil && w.analyzer.AIEnabled()
}

// Start begins processing tasks in the background
func (w *Worker) Start() error {
	w.logger.Info("starting asynq worker",
		"concurrency", w.concurrency,
		"queues", queuePriorities,
		"ai_feedback", w.aiStageEnabled(),
	)

	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("asynq server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the worker
func (w *Worker) Shutdown() {
	w.logger.Info("shutting down asynq worker")
	w.server.Shutdown()
}
