// Package monitoring exposes Prometheus metrics for upstream fetches, stale
// list responses and served HTTP requests.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tender_boq"

// Outcome labels for upstream fetches.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	fetches      *prometheus.CounterVec
	fetchSeconds *prometheus.HistogramVec
	staleDropped prometheus.Counter
	httpRequests *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Tender API requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		fetchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Tender API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		staleDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_dropped_total",
			Help:      "List responses discarded because a newer page was requested.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Served HTTP requests by route pattern and status.",
		}, []string{"route", "status"}),
	}
	reg.MustRegister(m.fetches, m.fetchSeconds, m.staleDropped, m.httpRequests)
	return m
}

// ObserveFetch records one upstream call. Its signature matches
// runway.Observer.
func (m *Metrics) ObserveFetch(op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.fetches.WithLabelValues(op, outcome).Inc()
	m.fetchSeconds.WithLabelValues(op).Observe(elapsed.Seconds())
}

// StaleDropped counts a discarded out-of-date list response.
func (m *Metrics) StaleDropped() {
	if m == nil {
		return
	}
	m.staleDropped.Inc()
}

// ObserveHTTP counts a served request.
func (m *Metrics) ObserveHTTP(route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
