// Package metrics provides Prometheus metrics for the parkspot web front-end.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the parkspot front-end.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// API client
	apiRequests          *prometheus.CounterVec
	apiRequestDuration   *prometheus.HistogramVec
	apiTransportErrors   *prometheus.CounterVec
	sessionClears        prometheus.Counter
	sessionClearFailures prometheus.Counter

	// Navigation
	routeResolutions *prometheus.CounterVec

	// Dev server
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	proxyUpstreamErrors prometheus.Counter

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "parkspot",
		subsystem:        "web",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)

	m.apiRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("api_client_requests_total"),
			Help:        "API client calls by method, outcome and status code",
			ConstLabels: m.customLabels,
		},
		[]string{"method", "outcome", "status_code"},
	)

	m.apiRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("api_client_request_duration_milliseconds"),
			Help:        "API client call latency in milliseconds, body read included",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.customLabels,
		},
		[]string{"method", "outcome"},
	)

	m.apiTransportErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("api_client_transport_errors_total"),
			Help:        "API client calls that failed before a response was read",
			ConstLabels: m.customLabels,
		},
		[]string{"method"},
	)

	m.sessionClears = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("session_clears_total"),
		Help:        "Session role markers cleared after a 401 response",
		ConstLabels: m.customLabels,
	})

	m.sessionClearFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("session_clear_failures_total"),
		Help:        "Session clears that failed and were swallowed",
		ConstLabels: m.customLabels,
	})

	m.routeResolutions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("route_resolutions_total"),
			Help:        "Navigation decisions by view and decision",
			ConstLabels: m.customLabels,
		},
		[]string{"view", "decision"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Dev server HTTP requests by endpoint, method and status code",
			ConstLabels: m.customLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "Dev server HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.customLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.proxyUpstreamErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("proxy_upstream_errors_total"),
		Help:        "API proxy requests that could not reach the backend",
		ConstLabels: m.customLabels,
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "Heap bytes allocated by the process",
		ConstLabels: m.customLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: m.customLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: m.customLabels,
	})
}

// RecordAPIRequest counts one API client call that produced a response.
func RecordAPIRequest(method, outcome, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.apiRequests.WithLabelValues(method, outcome, statusCode).Inc()
}

// RecordAPIRequestDuration records API client call latency in milliseconds.
func RecordAPIRequestDuration(method, outcome string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.apiRequestDuration.WithLabelValues(method, outcome).Observe(durationMs)
}

// RecordAPITransportError counts an API client call that failed in transport.
func RecordAPITransportError(method string) {
	if !globalManager.enabled {
		return
	}
	globalManager.apiTransportErrors.WithLabelValues(method).Inc()
}

// RecordSessionCleared counts a session marker eviction.
func RecordSessionCleared() {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionClears.Inc()
}

// RecordSessionClearFailure counts a swallowed session eviction failure.
func RecordSessionClearFailure() {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionClearFailures.Inc()
}

// RecordRouteResolution counts a navigation decision.
func RecordRouteResolution(view, decision string) {
	if !globalManager.enabled {
		return
	}
	globalManager.routeResolutions.WithLabelValues(view, decision).Inc()
}

// RecordHTTPRequest records a dev server HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records dev server HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordProxyUpstreamError counts a proxied request the backend never answered.
func RecordProxyUpstreamError() {
	if !globalManager.enabled {
		return
	}
	globalManager.proxyUpstreamErrors.Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval is how often periodic gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
