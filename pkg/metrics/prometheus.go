// Package metrics provides Prometheus metrics for the birdie tournament
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric the service exports.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Edits
	editsApplied  *prometheus.CounterVec
	editsRejected *prometheus.CounterVec
	editLatency   prometheus.Histogram

	// Derivation
	derivations       prometheus.Counter
	derivationLatency prometheus.Histogram
	memoHits          prometheus.Counter
	memoMisses        prometheus.Counter
	memoSize          prometheus.Gauge

	// Tournament state
	snapshotVersion  prometheus.Gauge
	participants     prometheus.Gauge
	pendingFixtures  prometheus.Gauge
	knockoutReady    prometheus.Gauge
	knockoutResolved prometheus.Gauge

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "birdie",
		subsystem:      "tournament",
		latencyBuckets: LatencyBuckets,
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels,
		Buckets:     m.latencyBuckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.editsApplied = m.counterVec("edits_applied_total", "Edits applied to the snapshot by kind", "kind")
	m.editsRejected = m.counterVec("edits_rejected_total", "Edits rejected by kind and reason", "kind", "reason")
	m.editLatency = m.histogram("edit_apply_latency_milliseconds", "Time to apply one edit in milliseconds")

	m.derivations = m.counter("derivations_total", "Full view derivations computed")
	m.derivationLatency = m.histogram("derivation_latency_milliseconds", "Time to derive a view in milliseconds")
	m.memoHits = m.counter("memo_hits_total", "View lookups served from the cache")
	m.memoMisses = m.counter("memo_misses_total", "View lookups that required a derivation")
	m.memoSize = m.gauge("memo_size", "Views currently cached")

	m.snapshotVersion = m.gauge("snapshot_version", "Version of the current snapshot")
	m.participants = m.gauge("participants", "Participants across all groups")
	m.pendingFixtures = m.gauge("pending_fixtures", "Group fixtures feeding the bracket without a winner")
	m.knockoutReady = m.gauge("knockout_ready", "1 when every feeding group is complete")
	m.knockoutResolved = m.gauge("podium_places_resolved", "Podium places with a resolved participant")

	m.queueSize = m.gauge("queue_size", "Edits waiting to be applied")
	m.queueCapacity = m.gauge("queue_capacity", "Edit queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Edit queue fill ratio (0-1)")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Edits accepted into the queue")
	m.queueDequeued = m.counter("queue_dequeue_total", "Edits taken off the queue")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Edits refused by the queue", "reason")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     m.latencyBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint",
		"endpoint", "method", "error_type")
	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type",
		"component", "error_type")
}

// RecordEditApplied counts an applied edit and its latency.
func RecordEditApplied(kind string, latencyMs float64) {
	globalManager.editsApplied.WithLabelValues(kind).Inc()
	globalManager.editLatency.Observe(latencyMs)
}

// RecordEditRejected counts an edit that failed validation.
func RecordEditRejected(kind, reason string) {
	globalManager.editsRejected.WithLabelValues(kind, reason).Inc()
}

// RecordDerivation counts a derivation and its latency.
func RecordDerivation(latencyMs float64) {
	globalManager.derivations.Inc()
	globalManager.derivationLatency.Observe(latencyMs)
}

// RecordMemoHit counts a cache hit.
func RecordMemoHit() { globalManager.memoHits.Inc() }

// RecordMemoMiss counts a cache miss.
func RecordMemoMiss() { globalManager.memoMisses.Inc() }

// UpdateMemoSize sets the number of cached views.
func UpdateMemoSize(size int64) { globalManager.memoSize.Set(float64(size)) }

// UpdateSnapshotVersion sets the current snapshot version.
func UpdateSnapshotVersion(version uint64) { globalManager.snapshotVersion.Set(float64(version)) }

// UpdateParticipants sets the roster size.
func UpdateParticipants(count int) { globalManager.participants.Set(float64(count)) }

// UpdatePendingFixtures sets the number of undecided feeding fixtures.
func UpdatePendingFixtures(count int) { globalManager.pendingFixtures.Set(float64(count)) }

// UpdateKnockoutReady records the readiness gate.
func UpdateKnockoutReady(ready bool) {
	v := 0.0
	if ready {
		v = 1
	}
	globalManager.knockoutReady.Set(v)
}

// UpdatePodiumResolved sets how many podium places are decided.
func UpdatePodiumResolved(count int) { globalManager.knockoutResolved.Set(float64(count)) }

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueSize sets the queue length and utilization.
func UpdateQueueSize(size, capacity int) {
	globalManager.queueSize.Set(float64(size))
	if capacity > 0 {
		globalManager.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// RecordQueueEnqueue counts an accepted edit.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue counts a dequeued edit.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError counts a refused edit.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent counts an error raised inside a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
