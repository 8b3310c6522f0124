package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zombar/wordwise/internal/analyzer"
	"github.com/zombar/wordwise/internal/database"
	"github.com/zombar/wordwise/internal/models"
	"github.com/zombar/wordwise/internal/plaintext"
	"github.com/zombar/wordwise/internal/queue"
	"github.com/zombar/wordwise/internal/readability"
	"github.com/zombar/wordwise/pkg/logging"
	"github.com/zombar/wordwise/pkg/tracing"
)

const (
	maxBodyBytes = 10 << 20
	defaultLimit = 10
	maxLimit     = 100
)

// Store is the persistence the API needs. *database.DB satisfies it.
type Store interface {
	SaveAnalysis(ctx context.Context, analysis *models.Analysis) error
	GetAnalysis(ctx context.Context, id string) (*models.Analysis, error)
	ListAnalyses(ctx context.Context, limit, offset int) ([]*models.Analysis, error)
	GetAnalysesByReadingLevel(ctx context.Context, level readability.ReadingLevel, limit int) ([]*models.Analysis, error)
	CountAnalyses(ctx context.Context) (int, error)
	MarkFailed(ctx context.Context, id string, cause error) error
	DeleteAnalysis(ctx context.Context, id string) error
}

// QueueClient enqueues assessments and reports task state. *queue.Client
// satisfies it.
type QueueClient interface {
	EnqueueAssessDocument(ctx context.Context, analysisID string) (string, error)
	TaskState(queueName, taskID string) (string, error)
}

// Handler handles HTTP requests
type Handler struct {
	store       Store
	analyzer    *analyzer.Analyzer
	queueClient QueueClient
	mux         *http.ServeMux
}

// NewHandler creates a new API handler with CORS support and metrics.
// queueClient may be nil, in which case POST /api/analyze answers 503.
func NewHandler(store Store, analyzer *analyzer.Analyzer, queueClient QueueClient) http.Handler {
	h := newHandler(store, analyzer, queueClient)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// Wrap with CORS
	return c.Handler(h.mux)
}

func newHandler(store Store, analyzer *analyzer.Analyzer, queueClient QueueClient) *Handler {
	h := &Handler{
		store:       store,
		analyzer:    analyzer,
		queueClient: queueClient,
		mux:         http.NewServeMux(),
	}
	h.setupRoutes()
	return h
}

// setupRoutes configures all API routes
func (h *Handler) setupRoutes() {
	h.mux.Handle("GET /metrics", promhttp.Handler()) // Prometheus metrics endpoint
	h.mux.HandleFunc("GET /health", h.handleHealth)

	// Synchronous engine endpoints
	h.mux.HandleFunc("POST /api/readability/metrics", h.handleMetrics)
	h.mux.HandleFunc("POST /api/readability/assess", h.handleAssess)
	h.mux.HandleFunc("GET /api/readability/interpret", h.handleInterpret)
	h.mux.HandleFunc("POST /api/feedback", h.handleFeedback)

	// Queued analyses
	h.mux.HandleFunc("POST /api/analyze", h.handleAnalyze)
	h.mux.HandleFunc("GET /api/jobs/{id}", h.handleJobStatus)
	h.mux.HandleFunc("GET /api/analyses", h.handleListAnalyses)
	h.mux.HandleFunc("GET /api/analyses/{id}", h.handleGetAnalysis)
	h.mux.HandleFunc("DELETE /api/analyses/{id}", h.handleDeleteAnalysis)
	h.mux.HandleFunc("GET /api/search", h.handleSearchByReadingLevel)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}, http.StatusOK)
}

// textRequest is the body shared by every endpoint that accepts a document.
type textRequest struct {
	Text        string `json:"text"`
	Format      string `json:"format,omitempty"`
	TargetLevel string `json:"target_level,omitempty"`
}

// document is a decoded textRequest with validated options.
type document struct {
	raw    string
	format models.DocumentFormat
	level  readability.TargetLevel
}

// plain returns the document reduced to plain text.
func (d document) plain() (string, error) {
	return plaintext.Convert(d.raw, d.format)
}

// decodeDocument reads and validates a textRequest, writing a 400 on failure.
func decodeDocument(w http.ResponseWriter, r *http.Request) (document, bool) {
	var req textRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return document{}, false
	}

	format, err := models.ParseDocumentFormat(req.Format)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return document{}, false
	}

	level, err := readability.ParseTargetLevel(req.TargetLevel)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return document{}, false
	}

	tracing.SetSpanAttributes(r.Context(),
		attribute.Int("text.length", len(req.Text)),
		attribute.String("document.format", string(format)),
		attribute.String("target_level", string(level)))

	return document{raw: req.Text, format: format, level: level}, true
}

// handleMetrics computes readability metrics synchronously
func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	text, err := doc.plain()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, span := tracing.StartSpan(r.Context(), "readability.calculate_metrics")
	m := readability.CalculateMetrics(text, doc.level)
	span.SetAttributes(attribute.Int("word_count", m.WordCount), attribute.Int("grade_level", m.RecommendedGradeLevel))
	span.End()

	respondJSON(w, m, http.StatusOK)
}

// handleAssess runs the full engine assessment synchronously
func (h *Handler) handleAssess(w http.ResponseWriter, r *http.Request) {
	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	text, err := doc.plain()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, span := tracing.StartSpan(r.Context(), "readability.assess")
	a := readability.AssessReadability(text, doc.level)
	span.SetAttributes(
		attribute.Int("strengths.count", len(a.Strengths)),
		attribute.Int("improvement_areas.count", len(a.ImprovementAreas)),
	)
	span.End()

	respondJSON(w, a, http.StatusOK)
}

// handleInterpret maps a raw score to its band label
func (h *Handler) handleInterpret(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	score, err := strconv.ParseFloat(q.Get("score"), 64)
	if err != nil {
		respondError(w, "score parameter must be a number", http.StatusBadRequest)
		return
	}

	metric := readability.ScoreMetric(q.Get("metric"))
	switch metric {
	case "":
		metric = readability.MetricFlesch
	case readability.MetricFlesch, readability.MetricGradeLevel:
	default:
		respondError(w, fmt.Sprintf("unknown metric %q", metric), http.StatusBadRequest)
		return
	}

	respondJSON(w, map[string]any{
		"score":  score,
		"metric": metric,
		"label":  readability.InterpretReadabilityScore(score, metric),
	}, http.StatusOK)
}

// handleFeedback returns blended engine and AI feedback synchronously
func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	text, err := doc.plain()
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, span := tracing.StartSpan(r.Context(), "analyzer.feedback",
		attribute.Bool("ai.enabled", h.analyzer.AIEnabled()))
	fb := h.analyzer.AnalyzeWithContext(ctx, text, doc.level)
	span.SetAttributes(attribute.Bool("ai.used", fb.AIUsed), attribute.Int("overall_score", fb.OverallScore))
	span.End()

	respondJSON(w, fb, http.StatusOK)
}

// handleAnalyze stores a pending analysis and queues its assessment
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if h.queueClient == nil {
		respondError(w, "Analysis queue is not configured", http.StatusServiceUnavailable)
		return
	}

	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}
	if doc.raw == "" {
		respondError(w, "Text field is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	analysis := &models.Analysis{
		ID:          uuid.NewString(),
		Text:        doc.raw,
		Format:      doc.format,
		TargetLevel: doc.level,
		Status:      models.StatusPending,
	}
	tracing.SetSpanAttributes(ctx, attribute.String("analysis.id", analysis.ID))

	if err := h.store.SaveAnalysis(ctx, analysis); err != nil {
		respondInternalError(w, r, "failed to store analysis", err)
		return
	}

	taskID, err := h.queueClient.EnqueueAssessDocument(ctx, analysis.ID)
	if err != nil {
		if markErr := h.store.MarkFailed(ctx, analysis.ID, err); markErr != nil {
			slog.ErrorContext(ctx, "failed to mark analysis failed", "analysis_id", analysis.ID, "error", markErr)
		}
		respondInternalError(w, r, "failed to enqueue analysis", err)
		return
	}

	// Return job ID immediately
	respondJSON(w, map[string]any{
		"job_id":  analysis.ID,
		"task_id": taskID,
		"status":  "queued",
		"message": "Analysis queued for processing",
	}, http.StatusAccepted)
}

// handleJobStatus reports the pipeline state of an analysis
func (h *Handler) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	ctx := r.Context()

	analysis, err := h.store.GetAnalysis(ctx, jobID)
	if errors.Is(err, database.ErrNotFound) {
		respondJSON(w, map[string]any{
			"job_id":  jobID,
			"status":  "not_found",
			"message": "Analysis not found - it may have been deleted",
		}, http.StatusNotFound)
		return
	}
	if err != nil {
		respondInternalError(w, r, "failed to load analysis", err)
		return
	}

	response := map[string]any{
		"job_id":     jobID,
		"status":     analysis.Status,
		"created_at": analysis.CreatedAt,
		"updated_at": analysis.UpdatedAt,
	}

	switch analysis.Status {
	case models.StatusPending:
		h.addTaskState(response, queue.QueueAssessment, queue.AssessTaskID(jobID))
	case models.StatusAssessed:
		h.addTaskState(response, queue.QueueAIFeedback, queue.EnrichTaskID(jobID))
		response["analysis"] = analysis // Engine feedback is already usable
	case models.StatusCompleted:
		response["analysis"] = analysis
	case models.StatusFailed:
		response["error"] = analysis.LastError
	}

	respondJSON(w, response, http.StatusOK)
}

// addTaskState adds the asynq state of an in-flight task, when known.
func (h *Handler) addTaskState(response map[string]any, queueName, taskID string) {
	if h.queueClient == nil {
		return
	}
	state, err := h.queueClient.TaskState(queueName, taskID)
	if err != nil {
		return
	}
	response["task_state"] = state
}

// handleListAnalyses handles listing all analyses with pagination
func (h *Handler) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := min(queryInt(r, "limit", defaultLimit, 1), maxLimit)
	offset := queryInt(r, "offset", 0, 0)

	analyses, err := h.store.ListAnalyses(ctx, limit, offset)
	if err != nil {
		respondInternalError(w, r, "failed to list analyses", err)
		return
	}

	if total, err := h.store.CountAnalyses(ctx); err == nil {
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
	}
	respondJSON(w, analyses, http.StatusOK)
}

// handleGetAnalysis retrieves a specific analysis
func (h *Handler) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	analysis, err := h.store.GetAnalysis(ctx, r.PathValue("id"))
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		respondInternalError(w, r, "failed to load analysis", err)
		return
	}
	respondJSON(w, analysis, http.StatusOK)
}

// handleDeleteAnalysis deletes a specific analysis
func (h *Handler) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.store.DeleteAnalysis(ctx, r.PathValue("id"))
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		respondInternalError(w, r, "failed to delete analysis", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSearchByReadingLevel handles searching analyses by reading level
func (h *Handler) handleSearchByReadingLevel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw := r.URL.Query().Get("reading_level")
	if raw == "" {
		respondError(w, "reading_level parameter is required", http.StatusBadRequest)
		return
	}
	level, err := readability.ParseReadingLevel(raw)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := min(queryInt(r, "limit", maxLimit, 1), maxLimit)

	analyses, err := h.store.GetAnalysesByReadingLevel(ctx, level, limit)
	if err != nil {
		respondInternalError(w, r, "failed to search analyses", err)
		return
	}
	respondJSON(w, analyses, http.StatusOK)
}

// queryInt reads an integer query parameter, falling back to def when it is
// missing, malformed or below floor.
func queryInt(r *http.Request, name string, def, floor int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < floor {
		return def
	}
	return v
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, map[string]string{
		"error": message,
	}, statusCode)
}

// respondInternalError logs err and sends a 500 with message.
func respondInternalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	logging.HTTPErrorLogger(slog.Default(), http.StatusInternalServerError, fmt.Errorf("%s: %w", message, err), r)
	respondError(w, fmt.Sprintf("%s: %v", message, err), http.StatusInternalServerError)
}
