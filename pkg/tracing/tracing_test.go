package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func setupRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })
	return tp, recorder
}

func TestIDsFromContext(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
	assert.Empty(t, SpanIDFromContext(context.Background()))

	setupRecorder(t)
	ctx, span := StartSpan(context.Background(), "test")
	defer span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))
	assert.Equal(t, span.SpanContext().SpanID().String(), SpanIDFromContext(ctx))
	assert.Len(t, TraceIDFromContext(ctx), 32)
	assert.Len(t, SpanIDFromContext(ctx), 16)
}

func TestSetSpanAttributes(t *testing.T) {
	_, recorder := setupRecorder(t)

	ctx, span := StartSpan(context.Background(), "attrs")
	SetSpanAttributes(ctx, attribute.String("analysis.id", "abc"))
	span.End()

	// No span in context is a no-op
	SetSpanAttributes(context.Background(), attribute.String("ignored", "x"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("analysis.id", "abc"))
}

func TestContextWithRemoteParent(t *testing.T) {
	_, recorder := setupRecorder(t)

	_, parent := StartSpan(context.Background(), "enqueue")
	parent.End()
	sc := parent.SpanContext()

	ctx, ok := ContextWithRemoteParent(context.Background(), sc.TraceID().String(), sc.SpanID().String())
	require.True(t, ok)

	_, child := StartSpan(ctx, "process")
	child.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, sc.TraceID(), spans[1].SpanContext().TraceID())
	assert.Equal(t, sc.SpanID(), spans[1].Parent().SpanID())

	_, ok = ContextWithRemoteParent(context.Background(), "not-hex", sc.SpanID().String())
	assert.False(t, ok)
	_, ok = ContextWithRemoteParent(context.Background(), sc.TraceID().String(), "")
	assert.False(t, ok)
}

func TestHTTPMiddleware(t *testing.T) {
	_, recorder := setupRecorder(t)

	var traceID string
	handler := HTTPMiddleware("wordwise-test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, traceID)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, traceID, spans[0].SpanContext().TraceID().String())
}
