package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric dockprep records.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Expansion
	DerivativesGenerated CounterVec
	ExpansionDuration    HistogramVec
	ExpansionsRejected   CounterVec

	// Substituent tables
	TableLoadsTotal CounterVec
	TableEntries    GaugeVec

	// Artifacts
	ArtifactWritesTotal CounterVec
	ArtifactWriteErrors CounterVec

	// Infrastructure
	CacheHitsTotal     CounterVec
	CacheMissesTotal   CounterVec
	EventsPublished    CounterVec
	ErrorsTotal        CounterVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets      = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultExpansionDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 30}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.DerivativesGenerated = collector.RegisterCounter("derivatives_generated_total", "Derivatives produced by template expansion", "pattern")
	m.ExpansionDuration = collector.RegisterHistogram("expansion_duration_seconds", "Template expansion duration", DefaultExpansionDurationBuckets, "pattern")
	m.ExpansionsRejected = collector.RegisterCounter("expansions_rejected_total", "Expansions refused by the derivative count guard", "reason")

	m.TableLoadsTotal = collector.RegisterCounter("substituent_table_loads_total", "Substituent table loads", "status")
	m.TableEntries = collector.RegisterGauge("substituent_table_entries", "Entries in the most recently loaded substituent table", "source")

	m.ArtifactWritesTotal = collector.RegisterCounter("artifact_writes_total", "Derivative artifacts persisted", "sink", "format")
	m.ArtifactWriteErrors = collector.RegisterCounter("artifact_write_errors_total", "Failed derivative artifact writes", "sink", "format")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Domain events published", "topic", "status")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "code")

	return m
}

// NewNoopAppMetrics returns AppMetrics that record nothing.
func NewNoopAppMetrics() *AppMetrics { return NewAppMetrics(NewNoopCollector()) }

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordExpansion(metrics *AppMetrics, pattern string, count int, duration time.Duration) {
	metrics.DerivativesGenerated.WithLabelValues(pattern).Add(float64(count))
	metrics.ExpansionDuration.WithLabelValues(pattern).Observe(duration.Seconds())
}

func RecordTableLoad(metrics *AppMetrics, source string, entries int, err error) {
	if err != nil {
		metrics.TableLoadsTotal.WithLabelValues("failure").Inc()
		return
	}
	metrics.TableLoadsTotal.WithLabelValues("success").Inc()
	metrics.TableEntries.WithLabelValues(source).Set(float64(entries))
}

func RecordArtifactWrite(metrics *AppMetrics, sink, format string, err error) {
	if err != nil {
		metrics.ArtifactWriteErrors.WithLabelValues(sink, format).Inc()
		return
	}
	metrics.ArtifactWritesTotal.WithLabelValues(sink, format).Inc()
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordEventPublished(metrics *AppMetrics, topic string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.EventsPublished.WithLabelValues(topic, status).Inc()
}

func RecordError(metrics *AppMetrics, component, code string) {
	metrics.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
