package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen11/core-api/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/core-api/internal/platform/logging"
)

func TestLogging_AccessLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	r := chi.NewRouter()
	r.Use(middleware.RequestID(), middleware.CorrelationID(), middleware.Logging(testLogger(&buf)))
	r.Get("/v{version}/generic/retrieve", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"status":{"code":"502","message":"Unable to retrieve value!"}}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/generic/retrieve", http.NoBody)
	req.Header.Set("X-Request-ID", "req-log-test")
	req.Header.Set("X-Correlation-ID", "corr-log-test")
	r.ServeHTTP(httptest.NewRecorder(), req)

	output := buf.String()
	for _, want := range []string{
		`msg="request started"`,
		`msg="request completed"`,
		"method=GET",
		"path=/v1/generic/retrieve",
		"route=/v{version}/generic/retrieve",
		"status=502",
		"bytes=63",
		"duration=",
		"request_id=req-log-test",
		"correlation_id=corr-log-test",
	} {
		assert.Contains(t, output, want)
	}
}

func TestLogging_StoresEnrichedLoggerInContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Logging(testLogger(&buf)),
	)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("handler log")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/generic/retrieve", http.NoBody)
	req.Header.Set("X-Request-ID", "ctx-logger-test")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "handler log") {
			assert.Contains(t, line, "request_id=ctx-logger-test")
			return
		}
	}
	t.Error("handler log not captured through the context logger")
}

func TestLogging_HeadersRedactedAtDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := middleware.Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/generic/retrieve", http.NoBody)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	req.Header.Set("Api-Version", "2.0")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	output := buf.String()
	assert.Contains(t, output, "headers.Authorization=[REDACTED]")
	assert.Contains(t, output, "headers.Api-Version=2.0")
	assert.NotContains(t, output, "abc.def.ghi")
}

func TestLogging_ProbesAtDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := middleware.Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Contains(t, line, "level=DEBUG")
	}
}
