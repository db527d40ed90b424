package providers

import (
	"time"
	"votekiosk/internal/structures"
	"votekiosk/internal/voting/interfaces"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(kind string)
	IncCacheMisses(kind string)
	IncCacheEvictions(kind string)
	IncVerifications(outcome string)
	IncVotes(outcome string)
	IncTransitions(from, to string)
	IncDisplayFailures()
	ObserveBackendDuration(endpoint string, duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	cacheEvictions  *prometheus.CounterVec
	verifications   *prometheus.CounterVec
	votes           *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	displayFailures prometheus.Counter
	backendDuration *prometheus.HistogramVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(kind string) {
	m.cacheLookups.WithLabelValues(kind, "hit").Inc()
}

func (m *MetricsProvider) IncCacheMisses(kind string) {
	m.cacheLookups.WithLabelValues(kind, "miss").Inc()
}

func (m *MetricsProvider) IncCacheEvictions(kind string) {
	m.cacheEvictions.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncVerifications(outcome string) {
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncVotes(outcome string) {
	m.votes.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncTransitions(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *MetricsProvider) IncDisplayFailures() {
	m.displayFailures.Inc()
}

func (m *MetricsProvider) ObserveBackendDuration(endpoint string, duration time.Duration) {
	m.backendDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
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

func NewMetricsProvider(conf *structures.Config, store interfaces.SessionStoreInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kiosk_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_cache_lookups_total",
			Help: "Cache lookups by entry kind and result",
		}, []string{"kind", "result"}),

		cacheEvictions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_cache_evictions_total",
			Help: "Cache entries dropped before expiry, by entry kind",
		}, []string{"kind"}),

		verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_verifications_total",
			Help: "Verification attempts by outcome",
		}, []string{"outcome"}),

		votes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_votes_total",
			Help: "Vote submissions by outcome",
		}, []string{"outcome"}),

		transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_state_transitions_total",
			Help: "Voting state machine transitions",
		}, []string{"from", "to"}),

		displayFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kiosk_display_failures_total",
			Help: "Failed requests for exclusive display",
		}),

		backendDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kiosk_backend_duration_seconds",
			Help:    "Latency of calls to the verification and voting backend",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "kiosk_session_resident",
		Help: "1 when a voter session is resident in durable storage",
	}, func() float64 {
		if _, ok := store.Read(); ok {
			return 1
		}
		return 0
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) IncCacheEvictions(_ string)                       {}
func (n *noopMetrics) IncVerifications(_ string)                        {}
func (n *noopMetrics) IncVotes(_ string)                                {}
func (n *noopMetrics) IncTransitions(_, _ string)                       {}
func (n *noopMetrics) IncDisplayFailures()                              {}
func (n *noopMetrics) ObserveBackendDuration(_ string, _ time.Duration) {}
