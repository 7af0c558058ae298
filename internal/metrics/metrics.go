package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	analysesTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	expertActions    *prometheus.CounterVec
	snapshotFetches  *prometheus.CounterVec
	cacheRequests    *prometheus.CounterVec
	scansTotal       prometheus.Counter
	archiveWrites    *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elite_analyses_total",
			Help: "Total number of composite analyses produced",
		},
		[]string{"instrument_type", "recommendation"},
	)
	r.analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "elite_analysis_duration_seconds",
			Help:    "Analysis duration in seconds, including the snapshot fetch",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.expertActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elite_expert_actions_total",
			Help: "Expert decisions by action",
		},
		[]string{"action"},
	)
	r.snapshotFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elite_snapshot_fetch_total",
			Help: "Snapshot fetches by provider and outcome",
		},
		[]string{"provider", "status"},
	)
	r.cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elite_cache_requests_total",
			Help: "Result cache lookups by result",
		},
		[]string{"result"},
	)
	r.scansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "elite_scans_total",
			Help: "Total number of hot-instrument scans",
		},
	)
	r.archiveWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elite_archive_writes_total",
			Help: "Archived analyses by outcome",
		},
		[]string{"status"},
	)

	reg.MustRegister(r.analysesTotal)
	reg.MustRegister(r.analysisDuration)
	reg.MustRegister(r.expertActions)
	reg.MustRegister(r.snapshotFetches)
	reg.MustRegister(r.cacheRequests)
	reg.MustRegister(r.scansTotal)
	reg.MustRegister(r.archiveWrites)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}

// RecordAnalysis records a completed composite analysis.
func (r *Registry) RecordAnalysis(instrumentType, recommendation, expertAction string, duration float64) {
	r.analysesTotal.WithLabelValues(instrumentType, recommendation).Inc()
	r.expertActions.WithLabelValues(expertAction).Inc()
	r.analysisDuration.Observe(duration)
}

// RecordSnapshotFetch records a snapshot fetch outcome ("ok", "not_found", "error").
func (r *Registry) RecordSnapshotFetch(provider, status string) {
	r.snapshotFetches.WithLabelValues(provider, status).Inc()
}

// RecordCache records a cache lookup ("hit", "miss", "error").
func (r *Registry) RecordCache(result string) {
	r.cacheRequests.WithLabelValues(result).Inc()
}

// RecordScan records a hot-instrument scan.
func (r *Registry) RecordScan() {
	r.scansTotal.Inc()
}

// RecordArchive records an archive write ("ok", "error").
func (r *Registry) RecordArchive(status string) {
	r.archiveWrites.WithLabelValues(status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
