// Package metrics exposes Prometheus instrumentation for the ingestion pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coursepilot"

// Metrics holds the pipeline's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// Upload pipeline
	Uploads            *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	ParseSource        *prometheus.CounterVec
	EventsPerSyllabus  prometheus.Histogram

	// Documents read by the generic byte decoder.
	DegradedExtractions *prometheus.CounterVec

	// Sync
	SyncedEntries *prometheus.CounterVec
	SyncFailures  prometheus.Counter

	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers the collectors with a fresh registry, including Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors with reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Syllabus uploads by media type and final state",
		}, []string{"media_type", "state"}),
		ExtractionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time spent extracting text from an uploaded document",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"media_type"}),
		DegradedExtractions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_extractions_total",
			Help:      "Extractions that fell back to generic byte decoding, by media type",
		}, []string{"media_type"}),
		ParseSource: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_source_total",
			Help:      "Parsed syllabi by the parser that produced them (model, heuristic)",
		}, []string{"source"}),
		EventsPerSyllabus: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "events_per_syllabus",
			Help:      "Number of events found in a parsed syllabus",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		SyncedEntries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synced_entries_total",
			Help:      "Entries appended to the external stores by kind (task, event)",
		}, []string{"kind"}),
		SyncFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_failures_total",
			Help:      "Sync runs aborted by a store write failure",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		gatherer: g,
	}
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordUpload counts an upload that ended in state.
func (m *Metrics) RecordUpload(mediaType, state string) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(mediaType, state).Inc()
}

// ObserveExtraction records how long extraction took.
func (m *Metrics) ObserveExtraction(mediaType string, d time.Duration) {
	if m == nil {
		return
	}
	m.ExtractionDuration.WithLabelValues(mediaType).Observe(d.Seconds())
}

// RecordDegraded counts an extraction produced by the generic fallback.
func (m *Metrics) RecordDegraded(mediaType string) {
	if m == nil {
		return
	}
	m.DegradedExtractions.WithLabelValues(mediaType).Inc()
}

// RecordParse counts a parsed syllabus and its event count.
func (m *Metrics) RecordParse(source string, events int) {
	if m == nil {
		return
	}
	m.ParseSource.WithLabelValues(source).Inc()
	m.EventsPerSyllabus.Observe(float64(events))
}

// RecordSync counts appended entries, and the failure if err is non-nil.
func (m *Metrics) RecordSync(tasks, events int, err error) {
	if m == nil {
		return
	}
	m.SyncedEntries.WithLabelValues("task").Add(float64(tasks))
	m.SyncedEntries.WithLabelValues("event").Add(float64(events))
	if err != nil {
		m.SyncFailures.Inc()
	}
}

// ObserveHTTP records one handled request.
func (m *Metrics) ObserveHTTP(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, status).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
