// Package metrics provides Prometheus metrics for the nestudio site.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Enhancement capability states mirrored as a labelled gauge.
var enhanceStates = []string{"unloaded", "loaded", "failed"} //nolint:gochecknoglobals // fixed label set

// Manager manages all Prometheus metrics for the site.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// Catalog and filter
	filterQueries prometheus.Counter
	filterResults prometheus.Histogram

	// Label graphics
	labelRenders   *prometheus.CounterVec
	qrRequests     *prometheus.CounterVec
	qrFetchLatency prometheus.Histogram
	qrCacheEntries prometheus.Gauge

	// QR warm-up queue and workers
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueue            prometheus.Counter
	queueDequeue            prometheus.Counter
	queueEnqueueErrors      prometheus.Counter
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Theme and enhancement
	themeToggles     *prometheus.CounterVec
	themeStoreErrors prometheus.Counter
	enhanceState     *prometheus.GaugeVec

	// System
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

// Configure rebuilds the global manager on a fresh registry with opts.
// Call it at startup, before any handler captures GetRegistry.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nestudio",
		subsystem:        "site",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorsByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.filterQueries = auto.NewCounter(m.counterOpts("filter_queries_total", "Total number of catalog filter evaluations"))
	m.filterResults = auto.NewHistogram(m.histogramOpts(
		"filter_results", "Number of projects returned per filter evaluation", []float64{0, 1, 2, 3, 4, 5, 10, 25},
	))

	m.labelRenders = auto.NewCounterVec(
		m.counterOpts("label_renders_total", "Label graphics rendered by kind"),
		[]string{"kind"},
	)
	m.qrRequests = auto.NewCounterVec(
		m.counterOpts("qr_requests_total", "QR image requests by the source that served them"),
		[]string{"source"},
	)
	m.qrFetchLatency = auto.NewHistogram(m.histogramOpts(
		"qr_fetch_latency_milliseconds", "Latency of calls to the external QR endpoint", m.histogramBuckets,
	))
	m.qrCacheEntries = auto.NewGauge(m.gaugeOpts("qr_cache_entries", "Number of QR images held in the cache"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("warm_queue_size", "Current number of pending QR warm-up jobs"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("warm_queue_capacity", "Maximum number of pending QR warm-up jobs"))
	m.queueEnqueue = auto.NewCounter(m.counterOpts("warm_queue_enqueue_total", "Total QR warm-up jobs enqueued"))
	m.queueDequeue = auto.NewCounter(m.counterOpts("warm_queue_dequeue_total", "Total QR warm-up jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("warm_queue_enqueue_errors_total", "Total QR warm-up jobs dropped"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("warm_worker_count", "Number of QR warm-up workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"warm_worker_latency_milliseconds", "Time spent processing one QR warm-up job", m.histogramBuckets,
	))
	m.workerErrors = auto.NewCounter(m.counterOpts("warm_worker_errors_total", "Total failed QR warm-up jobs"))

	m.themeToggles = auto.NewCounterVec(
		m.counterOpts("theme_toggles_total", "Theme toggles by resulting theme"),
		[]string{"theme"},
	)
	m.themeStoreErrors = auto.NewCounter(m.counterOpts("theme_store_errors_total", "Theme preference store failures"))
	m.enhanceState = auto.NewGaugeVec(
		m.gaugeOpts("enhance_state", "Enhancement script capability state (1 for the current state)"),
		[]string{"state"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error against an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordFilter records one filter evaluation and its result size.
func RecordFilter(results int) {
	globalManager.filterQueries.Inc()
	globalManager.filterResults.Observe(float64(results))
}

// RecordLabelRender counts a rendered label graphic ("barcode", "pattern", "field", "placeholder").
func RecordLabelRender(kind string) {
	globalManager.labelRenders.WithLabelValues(kind).Inc()
}

// RecordQRRequest counts a QR image served from source ("remote", "cache", "fallback", "placeholder").
func RecordQRRequest(source string) {
	globalManager.qrRequests.WithLabelValues(source).Inc()
}

// RecordQRFetchLatency records the latency of an external QR call.
func RecordQRFetchLatency(latencyMs float64) {
	globalManager.qrFetchLatency.Observe(latencyMs)
}

// UpdateQRCacheEntries sets the QR cache size.
func UpdateQRCacheEntries(n int) {
	globalManager.qrCacheEntries.Set(float64(n))
}

// UpdateQueueSize sets the warm-up queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the warm-up queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an enqueued warm-up job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue counts a dequeued warm-up job.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError counts a dropped warm-up job.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of warm-up workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records the time spent on one warm-up job.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed warm-up job.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordThemeToggle counts a theme toggle by the resulting theme.
func RecordThemeToggle(theme string) {
	globalManager.themeToggles.WithLabelValues(theme).Inc()
}

// RecordThemeStoreError counts a failed preference read or write.
func RecordThemeStoreError() {
	globalManager.themeStoreErrors.Inc()
}

// SetEnhanceState marks state as the current enhancement capability state.
func SetEnhanceState(state string) error {
	known := false
	for _, s := range enhanceStates {
		if s == state {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownState, state)
	}
	for _, s := range enhanceStates {
		v := 0.0
		if s == state {
			v = 1
		}
		globalManager.enhanceState.WithLabelValues(s).Set(v)
	}
	return nil
}

// UpdateSystemMemoryUsage sets heap memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
