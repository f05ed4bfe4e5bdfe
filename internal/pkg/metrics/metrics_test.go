package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/building-analyzer/internal/pkg/metrics"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.CacheHit()
		m.CacheMiss()
		m.ObserveRequest("/x", 200, time.Millisecond)
		m.DatasetParsed(time.Second, 3)
		m.SetDatasetRows(10)
	})
	assert.Nil(t, m.Registry())
}

func TestMetricsExport(t *testing.T) {
	m := metrics.New()
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.ObserveRequest("/api/v1/analysis", 200, 20*time.Millisecond)
	m.DatasetParsed(2*time.Second, 4)
	m.SetDatasetRows(1234)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "dataset_cache_hits_total 1")
	assert.Contains(t, text, "dataset_cache_misses_total 2")
	assert.Contains(t, text, `http_requests_total{route="/api/v1/analysis",status="200"} 1`)
	assert.Contains(t, text, "dataset_parse_errors_total 4")
	assert.Contains(t, text, "dataset_rows 1234")

	// a second instance has its own registry
	assert.NotPanics(t, func() { metrics.New() })
}
