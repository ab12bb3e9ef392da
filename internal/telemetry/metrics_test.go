package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordOperation(t *testing.T) {
	m := NewMetrics()
	m.RecordOperation("create", "ok")
	m.RecordOperation("create", "ok")
	m.RecordOperation("delete", "not_found")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ProjectOperations.WithLabelValues("create", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ProjectOperations.WithLabelValues("delete", "not_found")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.RecordOperation("create", "ok") })
	assert.Nil(t, m.CleanupCounter())
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.CleanupCounter().Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "portfolio_file_cleanup_failures_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}
