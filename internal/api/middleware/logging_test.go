package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/abokiste/abokiste/internal/api/middleware"
)

func captureLog(t *testing.T, handler http.Handler, req *http.Request) map[string]interface{} {
	t.Helper()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logBuf.Bytes(), &entry))
	return entry
}

var logBuf bytes.Buffer

func newLoggedHandler(inner http.HandlerFunc) http.Handler {
	logBuf.Reset()
	log := zerolog.New(&logBuf)
	return middleware.Logger(log)(inner)
}

func TestLogger_LogsRequest(t *testing.T) {
	handler := newLoggedHandler(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("response body"))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/products", http.NoBody)
	req.Header.Set("User-Agent", "test-agent")

	entry := captureLog(t, handler, req)

	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/v1/products", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, float64(13), entry["bytes"]) // len("response body")
	assert.Equal(t, "test-agent", entry["user_agent"])
	assert.NotEmpty(t, entry["duration"])
}

func TestLogger_LogsErrorStatus(t *testing.T) {
	handler := newLoggedHandler(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/orders", http.NoBody)
	entry := captureLog(t, handler, req)

	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, float64(500), entry["status"])
}

func TestLogger_IncludesRequestID(t *testing.T) {
	handler := middleware.RequestID(newLoggedHandler(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/categories", http.NoBody)
	entry := captureLog(t, handler, req)

	requestID, ok := entry["request_id"].(string)
	assert.True(t, ok)
	assert.Contains(t, requestID, "req_")
}

func TestLogger_IncludesTraceID(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer func() { _ = tp.Shutdown(context.Background()) }()

	handler := middleware.Tracing("test-service")(newLoggedHandler(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/aboboxes", http.NoBody)
	entry := captureLog(t, handler, req)

	traceID, ok := entry["trace_id"].(string)
	assert.True(t, ok)
	assert.Len(t, traceID, 32) // 32 hex chars

	spanID, ok := entry["span_id"].(string)
	assert.True(t, ok)
	assert.Len(t, spanID, 16) // 16 hex chars
}

func TestLogger_OmitsTraceWithoutSpan(t *testing.T) {
	handler := newLoggedHandler(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/categories", http.NoBody)
	entry := captureLog(t, handler, req)

	_, hasTrace := entry["trace_id"]
	assert.False(t, hasTrace)
}

func TestLogger_DefaultStatusCode(t *testing.T) {
	handler := newLoggedHandler(func(w http.ResponseWriter, _ *http.Request) {
		// No explicit WriteHeader: 200 is implied.
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/suppliers", http.NoBody)
	entry := captureLog(t, handler, req)

	assert.Equal(t, float64(200), entry["status"])
}
