// Package metrics provides Prometheus metrics for the learner clustering service.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Default buckets. Inference latency is in seconds, the rest in milliseconds.
var (
	defaultInferenceBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}
	defaultLatencyBuckets   = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	inferenceBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Inference
	inferenceRequests  prometheus.Counter
	inferenceErrors    *prometheus.CounterVec
	inferenceLatency   prometheus.Histogram
	clusterAssignments *prometheus.CounterVec
	modelInfo          *prometheus.GaugeVec

	// Datastore
	datastoreQueryLatency *prometheus.HistogramVec
	datastoreErrors       *prometheus.CounterVec
	datastoreRows         *prometheus.CounterVec
	breakerState          *prometheus.GaugeVec
	breakerTransitions    *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager. Metric names keep the
// cluster_inference_* prefix dashboards already query.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "",
		subsystem:        "cluster",
		histogramBuckets: defaultLatencyBuckets,
		inferenceBuckets: defaultInferenceBuckets,
		constLabels:      nil,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.inferenceRequests = auto.NewCounter(m.counterOpts(
		"inference_requests_total", "Total number of cluster inference requests"))
	m.inferenceErrors = auto.NewCounterVec(m.counterOpts(
		"inference_errors_total", "Total number of failed cluster inference requests by error kind"),
		[]string{"kind"})
	m.inferenceLatency = auto.NewHistogram(m.histogramOpts(
		"inference_latency_seconds", "Cluster inference latency in seconds", m.inferenceBuckets))
	m.clusterAssignments = auto.NewCounterVec(m.counterOpts(
		"assignments_total", "Number of learners assigned to each cluster"),
		[]string{"cluster"})
	m.modelInfo = auto.NewGaugeVec(m.gaugeOpts(
		"model_info", "Loaded model artifact; value is always 1"),
		[]string{"version", "family", "interpretation_version"})

	m.datastoreQueryLatency = auto.NewHistogramVec(m.histogramOpts(
		"datastore_query_latency_milliseconds", "Datastore query latency in milliseconds", m.histogramBuckets),
		[]string{"operation"})
	m.datastoreErrors = auto.NewCounterVec(m.counterOpts(
		"datastore_errors_total", "Total number of failed datastore queries"),
		[]string{"operation"})
	m.datastoreRows = auto.NewCounterVec(m.counterOpts(
		"datastore_rows_total", "Total number of records read from the datastore"),
		[]string{"operation"})
	m.breakerState = auto.NewGaugeVec(m.gaugeOpts(
		"breaker_state", "Circuit breaker state (0=closed, 1=half-open, 2=open)"),
		[]string{"name"})
	m.breakerTransitions = auto.NewCounterVec(m.counterOpts(
		"breaker_transitions_total", "Circuit breaker state transitions"),
		[]string{"name", "from", "to"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
}

// RecordInferenceRequest increments the inference request counter.
func RecordInferenceRequest() {
	globalManager.inferenceRequests.Inc()
}

// RecordInferenceError increments the error counter for an error kind.
func RecordInferenceError(kind string) {
	globalManager.inferenceErrors.WithLabelValues(kind).Inc()
}

// RecordInferenceLatency observes inference latency in seconds.
func RecordInferenceLatency(seconds float64) {
	globalManager.inferenceLatency.Observe(seconds)
}

// RecordClusterAssignment counts a learner assigned to cluster.
func RecordClusterAssignment(cluster int) {
	globalManager.clusterAssignments.WithLabelValues(strconv.Itoa(cluster)).Inc()
}

// SetModelInfo publishes the loaded artifact identity.
func SetModelInfo(version, family, interpretationVersion string) {
	globalManager.modelInfo.Reset()
	globalManager.modelInfo.WithLabelValues(version, family, interpretationVersion).Set(1)
}

// RecordDatastoreQuery observes a datastore query latency in milliseconds
// and the number of rows it returned.
func RecordDatastoreQuery(operation string, latencyMs float64, rows int) {
	globalManager.datastoreQueryLatency.WithLabelValues(operation).Observe(latencyMs)
	globalManager.datastoreRows.WithLabelValues(operation).Add(float64(rows))
}

// RecordDatastoreError increments the datastore error counter.
func RecordDatastoreError(operation string) {
	globalManager.datastoreErrors.WithLabelValues(operation).Inc()
}

// UpdateBreakerState sets the circuit breaker state gauge.
func UpdateBreakerState(name string, state float64) {
	globalManager.breakerState.WithLabelValues(name).Set(state)
}

// RecordBreakerTransition counts a circuit breaker state change.
func RecordBreakerTransition(name, from, to string) {
	globalManager.breakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Value returns the current value of a counter or gauge in the custom
// registry whose labels include the given ones.
func Value(name string, labels map[string]string) (float64, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrGatherFailed, err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			if !hasLabels(metric, labels) {
				continue
			}
			switch {
			case metric.GetCounter() != nil:
				return metric.GetCounter().GetValue(), nil
			case metric.GetGauge() != nil:
				return metric.GetGauge().GetValue(), nil
			case metric.GetHistogram() != nil:
				return float64(metric.GetHistogram().GetSampleCount()), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrMetricNotFound, name)
}

func hasLabels(metric *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(metric.GetLabel()))
	for _, lp := range metric.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}
