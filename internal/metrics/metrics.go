package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics of the mock server
type Metrics struct {
	// API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec
	APIErrorsTotal            *prometheus.CounterVec

	// Corpus and queries
	CorpusSize   prometheus.Gauge
	QueryResults *prometheus.HistogramVec

	// Rate limiting
	RateLimitExceededTotal prometheus.Counter

	UptimeSeconds prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campaignmock_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campaignmock_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		APIErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campaignmock_api_errors_total",
				Help: "Total number of API errors",
			},
			[]string{"error_type"},
		),

		CorpusSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "campaignmock_corpus_size",
				Help: "Number of campaigns in the generated corpus",
			},
		),
		QueryResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "campaignmock_query_results",
				Help:    "Campaigns returned per list request",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"filtered"},
		),

		RateLimitExceededTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "campaignmock_ratelimit_exceeded_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),

		UptimeSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "campaignmock_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),

		registry: reg,
	}

	reg.MustRegister(
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		m.APIErrorsTotal,
		m.CorpusSize,
		m.QueryResults,
		m.RateLimitExceededTotal,
		m.UptimeSeconds,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// SetCorpusSize records the number of generated campaigns
func SetCorpusSize(n int) {
	m := Global()
	if m != nil {
		m.CorpusSize.Set(float64(n))
	}
}

// ObserveQueryResults records the size of one returned page
func ObserveQueryResults(n int, filtered bool) {
	m := Global()
	if m != nil {
		m.QueryResults.WithLabelValues(strconv.FormatBool(filtered)).Observe(float64(n))
	}
}

// IncRateLimitExceeded increments rate limit exceeded counter
func IncRateLimitExceeded() {
	m := Global()
	if m != nil {
		m.RateLimitExceededTotal.Inc()
	}
}

// SetUptime records seconds since start
func SetUptime(seconds float64) {
	m := Global()
	if m != nil {
		m.UptimeSeconds.Set(seconds)
	}
}
