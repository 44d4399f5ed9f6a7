package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"warden/internal/structures"
)

// StatsSource feeds the gauge functions; the document store implements it.
type StatsSource interface {
	TrackedUsers() int
	ActiveMutes() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncEventsTotal(kind string)
	IncCommandsTotal(name string)
	IncPresenceTransitions(direction string)
	IncAuditLookups(outcome string)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	eventsTotal         *prometheus.CounterVec
	commandsTotal       *prometheus.CounterVec
	presenceTransitions *prometheus.CounterVec
	auditLookups        *prometheus.CounterVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncEventsTotal(kind string) {
	m.eventsTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncCommandsTotal(name string) {
	m.commandsTotal.WithLabelValues(name).Inc()
}

func (m *MetricsProvider) IncPresenceTransitions(direction string) {
	m.presenceTransitions.WithLabelValues(direction).Inc()
}

func (m *MetricsProvider) IncAuditLookups(outcome string) {
	m.auditLookups.WithLabelValues(outcome).Inc()
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

func NewMetricsProvider(conf *structures.Config, stats StatsSource) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "warden_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		eventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_events_total",
			Help: "Total number of gateway events processed",
		}, []string{"kind"}),

		commandsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_commands_total",
			Help: "Total number of commands dispatched",
		}, []string{"command"}),

		presenceTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_presence_transitions_total",
			Help: "Presence state transitions by direction",
		}, []string{"direction"}),

		auditLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_audit_lookups_total",
			Help: "Audit attribution lookups by outcome",
		}, []string{"outcome"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "warden_message_cache_hits_total",
			Help: "Total number of message cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "warden_message_cache_misses_total",
			Help: "Total number of message cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "warden_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "warden_tracked_users",
		Help: "Number of users with presence records",
	}, func() float64 {
		return float64(stats.TrackedUsers())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "warden_active_mutes",
		Help: "Number of live mute records",
	}, func() float64 {
		return float64(stats.ActiveMutes())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncEventsTotal(_ string)                          {}
func (n *noopMetrics) IncCommandsTotal(_ string)                        {}
func (n *noopMetrics) IncPresenceTransitions(_ string)                  {}
func (n *noopMetrics) IncAuditLookups(_ string)                         {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
