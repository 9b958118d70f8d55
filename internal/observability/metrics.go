package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "peer_support"

// Metrics keeps in-memory counters for the JSON snapshot and mirrors them
// into a private Prometheus registry for scraping.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	submissions   map[string]int64
	escalations   int64
	totalDuration time.Duration

	registry       *prometheus.Registry
	promRequests   *prometheus.CounterVec
	promLatency    *prometheus.HistogramVec
	promErrors     *prometheus.CounterVec
	promSubmission *prometheus.CounterVec
	promEscalation prometheus.Counter
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests           map[string]int64 `json:"requests"`
	Errors             map[string]int64 `json:"errors"`
	SubmissionsByLevel map[string]int64 `json:"submissions_by_level"`
	Escalations        int64            `json:"escalations"`
	AvgLatencyMillis   float64          `json:"avg_latency_ms"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	m := &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		submissions:  make(map[string]int64),
		registry:     prometheus.NewRegistry(),
		promRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		promLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		promErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Error responses by route, method and error code.",
		}, []string{"route", "method", "code"}),
		promSubmission: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Messages submitted, by crisis level.",
		}, []string{"crisis_level"}),
		promEscalation: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Submissions whose effective urgency differs from the declared one.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.promRequests,
		m.promLatency,
		m.promErrors,
		m.promSubmission,
		m.promEscalation,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.promRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.promLatency.WithLabelValues(path, method).Observe(duration.Seconds())

	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalDuration += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.promErrors.WithLabelValues(path, method, code).Inc()

	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordSubmission counts a new message by crisis level and whether its
// urgency was changed by escalation.
func (m *Metrics) RecordSubmission(level string, escalated bool) {
	if m == nil {
		return
	}
	m.promSubmission.WithLabelValues(level).Inc()
	if escalated {
		m.promEscalation.Inc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[level]++
	if escalated {
		m.escalations++
	}
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{
		Requests:           copyCounts(m.requestCount),
		Errors:             copyCounts(m.errorCount),
		SubmissionsByLevel: copyCounts(m.submissions),
		Escalations:        m.escalations,
	}
	var total int64
	for _, n := range m.requestCount {
		total += n
	}
	if total > 0 {
		snap.AvgLatencyMillis = float64(m.totalDuration.Milliseconds()) / float64(total)
	}
	return snap
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
