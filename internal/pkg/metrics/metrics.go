// Package metrics - счётчики Prometheus для HTTP и загрузки датасета.
// Все методы безопасны для nil, поэтому метрики можно не подключать.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	parseDuration     prometheus.Histogram
	parseErrors       prometheus.Counter
	datasetRows       prometheus.Gauge
}

// New регистрирует метрики в собственном реестре
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataset_cache_hits_total",
			Help: "Dataset loads served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataset_cache_misses_total",
			Help: "Dataset loads that required parsing.",
		}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dataset_parse_duration_seconds",
			Help:    "Time spent parsing the raw building document.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		parseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dataset_parse_errors_total",
			Help: "Buildings skipped because of malformed data.",
		}),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dataset_rows",
			Help: "Rows in the current building table.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.cacheHits,
		m.cacheMisses,
		m.parseDuration,
		m.parseErrors,
		m.datasetRows,
	)
	return m
}

// Handler - http.Handler для /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry нужен тестам для чтения значений
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRequest(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, statusLabel(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// DatasetParsed фиксирует длительность разбора и число пропущенных с ошибкой зданий
func (m *Metrics) DatasetParsed(duration time.Duration, errors int) {
	if m == nil {
		return
	}
	m.parseDuration.Observe(duration.Seconds())
	if errors > 0 {
		m.parseErrors.Add(float64(errors))
	}
}

func (m *Metrics) SetDatasetRows(rows int) {
	if m == nil {
		return
	}
	m.datasetRows.Set(float64(rows))
}
