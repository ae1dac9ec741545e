package providers

import (
	"playtrack/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	ObserveIngestDuration(duration time.Duration)
	IncIngestTotal(outcome string)
	IncSummariesTotal(outcome string)
}

const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeExists  = "exists"
	OutcomeNoData  = "no_data"
	OutcomeUpdated = "updated"
)

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	ingestDuration      prometheus.Histogram
	ingestTotal         *prometheus.CounterVec
	summariesTotal      *prometheus.CounterVec
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

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveIngestDuration(duration time.Duration) {
	m.ingestDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncIngestTotal(outcome string) {
	m.ingestTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncSummariesTotal(outcome string) {
	m.summariesTotal.WithLabelValues(outcome).Inc()
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

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "playtrack_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "playtrack_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "playtrack_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "playtrack_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "playtrack_persistence_duration_seconds",
			Help:    "Duration of transactional summary writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		ingestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "playtrack_ingest_duration_seconds",
			Help:    "Duration of ingestion runs in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		ingestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "playtrack_ingest_runs_total",
			Help: "Ingestion runs by outcome",
		}, []string{"outcome"}),

		summariesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "playtrack_summary_runs_total",
			Help: "Daily summary generation requests by outcome",
		}, []string{"outcome"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) ObserveIngestDuration(_ time.Duration)            {}
func (n *noopMetrics) IncIngestTotal(_ string)                          {}
func (n *noopMetrics) IncSummariesTotal(_ string)                       {}
