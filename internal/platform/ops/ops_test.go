package ops

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, New().Router(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestReadyz(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		h := New(WithLogger(quiet()), WithCheck("postgres", func(context.Context) error { return nil }))
		rec := get(t, h.Router(), "/readyz")

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "ok", body["postgres"])
	})

	t.Run("failing check returns 503", func(t *testing.T) {
		h := New(
			WithLogger(quiet()),
			WithCheck("postgres", func(context.Context) error { return nil }),
			WithCheck("redis", func(context.Context) error { return errors.New("connection refused") }),
		)
		rec := get(t, h.Router(), "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "connection refused", body["redis"])
		assert.Equal(t, "ok", body["postgres"])
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "clearance_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	rec := get(t, New(WithGatherer(reg)).Router(), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "clearance_test_total 1")
}
