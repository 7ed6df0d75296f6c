// Package metrics provides Prometheus metrics for the habit dashboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter

	tableLoads        *prometheus.CounterVec
	tableLoadDuration prometheus.Histogram
	tableRecords      prometheus.Gauge
	cacheLookups      *prometheus.CounterVec

	scoreQueries *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kanso",
		subsystem:        "dashboard",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.rateLimited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	})

	m.tableLoads = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "table_loads_total",
			Help:      "Habit table loads from the underlying source, by source and result",
		},
		[]string{"source", "result"},
	)

	m.tableLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "table_load_duration_milliseconds",
		Help:      "Time spent loading and parsing the habit table",
		Buckets:   m.histogramBuckets,
	})

	m.tableRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "table_records",
		Help:      "Number of records in the most recently loaded habit table",
	})

	m.cacheLookups = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "table_cache_lookups_total",
			Help:      "Parsed table cache lookups by layer (memory, redis) and result (hit, miss, error)",
		},
		[]string{"layer", "result"},
	)

	m.scoreQueries = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "score_queries_total",
			Help:      "Leaderboard computations by scope kind (week, all)",
		},
		[]string{"scope"},
	)
}

// RecordHTTPRequest increments the request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes a request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

func RecordRateLimited() {
	globalManager.rateLimited.Inc()
}

// RecordTableLoad counts a load against the underlying source.
func RecordTableLoad(source, result string) {
	globalManager.tableLoads.WithLabelValues(source, result).Inc()
}

func RecordTableLoadDuration(durationMs float64) {
	globalManager.tableLoadDuration.Observe(durationMs)
}

func UpdateTableRecords(count int) {
	globalManager.tableRecords.Set(float64(count))
}

// RecordCacheLookup counts a cache lookup for a layer ("memory", "redis") and result.
func RecordCacheLookup(layer, result string) {
	globalManager.cacheLookups.WithLabelValues(layer, result).Inc()
}

func RecordScoreQuery(scope string) {
	globalManager.scoreQueries.WithLabelValues(scope).Inc()
}

// GetRegistry returns the custom registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler exposes the custom registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
