// Package metrics defines the Prometheus collectors exported by WordWise.
package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Stage labels for AnalysisDuration.
const (
	StageAssessment = "assessment"
	StageAIFeedback = "ai_feedback"
)

// AI outcome labels for AIFeedbackTotal.
const (
	AIOutcomeSuccess  = "success"
	AIOutcomeFallback = "fallback"
	AIOutcomeDisabled = "disabled"
)

// BusinessMetrics tracks analyses flowing through the service. A nil
// *BusinessMetrics records nothing.
type BusinessMetrics struct {
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	GradeLevel       *prometheus.HistogramVec
	AIFeedbackTotal  *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers business metrics under namespace.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	m := &BusinessMetrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses processed, by resulting status.",
		}, []string{"status"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent producing feedback, by pipeline stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"stage"}),
		GradeLevel: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommended_grade_level",
			Help:      "Recommended grade level of assessed documents, by target level.",
			Buckets:   prometheus.LinearBuckets(1, 1, 16),
		}, []string{"target_level"}),
		AIFeedbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_feedback_total",
			Help:      "AI feedback requests, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.AnalysesTotal, m.AnalysisDuration, m.GradeLevel, m.AIFeedbackTotal)
	return m
}

// RecordAnalysis counts an analysis reaching status.
func (m *BusinessMetrics) RecordAnalysis(status string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(status).Inc()
}

// RecordGrade observes a recommended grade level.
func (m *BusinessMetrics) RecordGrade(targetLevel string, grade int) {
	if m == nil {
		return
	}
	m.GradeLevel.WithLabelValues(targetLevel).Observe(float64(grade))
}

// RecordAIOutcome counts an AI feedback attempt.
func (m *BusinessMetrics) RecordAIOutcome(outcome string) {
	if m == nil {
		return
	}
	m.AIFeedbackTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records the time since start for stage, attaching the
// trace ID in ctx as an exemplar when one is present.
func (m *BusinessMetrics) ObserveDuration(ctx context.Context, stage string, start time.Time) {
	if m == nil {
		return
	}
	ObserveWithExemplar(ctx, m.AnalysisDuration.WithLabelValues(stage), time.Since(start).Seconds())
}

// ObserveWithExemplar observes v, linking it to the trace in ctx if possible.
func ObserveWithExemplar(ctx context.Context, obs prometheus.Observer, v float64) {
	sc := trace.SpanContextFromContext(ctx)
	if eo, ok := obs.(prometheus.ExemplarObserver); ok && sc.HasTraceID() {
		eo.ObserveWithExemplar(v, prometheus.Labels{"trace_id": sc.TraceID().String()})
		return
	}
	obs.Observe(v)
}

// DatabaseMetrics exposes sql.DBStats as gauges.
type DatabaseMetrics struct {
	OpenConnections prometheus.Gauge
	InUse           prometheus.Gauge
	Idle            prometheus.Gauge
	WaitCount       prometheus.Gauge
	WaitDuration    prometheus.Gauge
}

// NewDatabaseMetrics creates and registers connection pool gauges.
func NewDatabaseMetrics(namespace string, reg prometheus.Registerer) *DatabaseMetrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      name,
			Help:      help,
		})
	}

	m := &DatabaseMetrics{
		OpenConnections: gauge("open_connections", "Established connections, in use and idle."),
		InUse:           gauge("in_use_connections", "Connections currently in use."),
		Idle:            gauge("idle_connections", "Idle connections."),
		WaitCount:       gauge("wait_count", "Total connections waited for."),
		WaitDuration:    gauge("wait_duration_seconds", "Total time blocked waiting for a connection."),
	}

	reg.MustRegister(m.OpenConnections, m.InUse, m.Idle, m.WaitCount, m.WaitDuration)
	return m
}

// UpdateDBStats copies the pool statistics of db into the gauges.
func (m *DatabaseMetrics) UpdateDBStats(db *sql.DB) {
	stats := db.Stats()
	m.OpenConnections.Set(float64(stats.OpenConnections))
	m.InUse.Set(float64(stats.InUse))
	m.Idle.Set(float64(stats.Idle))
	m.WaitCount.Set(float64(stats.WaitCount))
	m.WaitDuration.Set(stats.WaitDuration.Seconds())
}

// Poll refreshes the database gauges every interval until ctx is done.
func (m *DatabaseMetrics) Poll(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.UpdateDBStats(db)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.UpdateDBStats(db)
		}
	}
}
