package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rpd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveSaveDuration(duration time.Duration)
	AddPagesRead(count int)
	SetTrackedUsers(count int)
	SetActiveSessions(count int)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	saveDuration    prometheus.Histogram
	pagesRead       prometheus.Counter
	trackedUsers    prometheus.Gauge
	activeSessions  prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveSaveDuration(duration time.Duration) {
	m.saveDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) AddPagesRead(count int) {
	m.pagesRead.Add(float64(count))
}

func (m *MetricsProvider) SetTrackedUsers(count int) {
	m.trackedUsers.Set(float64(count))
}

func (m *MetricsProvider) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rpd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rpd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rpd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rpd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		saveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rpd_save_duration_seconds",
			Help:    "Duration of stats store merge-saves in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		pagesRead: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rpd_pages_read_total",
			Help: "Total number of pages promoted to read",
		}),

		trackedUsers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rpd_tracked_users",
			Help: "Number of users with a persisted stats record",
		}),

		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rpd_sessions_active",
			Help: "Current number of active reading sessions",
		}),
	}

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveSaveDuration(_ time.Duration)              {}
func (n *noopMetrics) AddPagesRead(_ int)                               {}
func (n *noopMetrics) SetTrackedUsers(_ int)                            {}
func (n *noopMetrics) SetActiveSessions(_ int)                          {}
