// Package metrics records client-side request telemetry in Prometheus form.
//
// A Collector is handed to the HTTP client as its Observer; long-running commands
// can expose it through Handler for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metric names.
const (
	MetricRequestsTotal          = "tripnara_client_requests_total"
	MetricRequestDurationSeconds = "tripnara_client_request_duration_seconds"
	MetricTokenRefreshTotal      = "tripnara_client_token_refresh_total"
	MetricPollsTotal             = "tripnara_client_polls_total"
)

// StatusTransportError labels requests that never produced an HTTP status.
const StatusTransportError = "error"

// Collector owns a private registry so tests and multiple clients never collide.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Collector struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	refresh  *prometheus.CounterVec
	polls    *prometheus.CounterVec
}

// NewCollector creates a Collector with its metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRequestsTotal,
			Help: "API requests by method, route template and HTTP status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricRequestDurationSeconds,
			Help:    "API request latency including the refresh retry.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		refresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricTokenRefreshTotal,
			Help: "Access token refresh attempts by result.",
		}, []string{"result"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPollsTotal,
			Help: "Poll ticks by poller name and outcome.",
		}, []string{"poller", "outcome"}),
	}
	c.registry.MustRegister(c.requests, c.duration, c.refresh, c.polls)
	return c
}

// ObserveRequest records one API call. status 0 means the request failed before a response.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	label := StatusTransportError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.requests.WithLabelValues(method, route, label).Inc()
	c.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) ObserveRefresh(result string) {
	c.refresh.WithLabelValues(result).Inc()
}

// ObservePoll records a poller tick; outcome is "ok", "error" or "skipped".
func (c *Collector) ObservePoll(poller, outcome string) {
	c.polls.WithLabelValues(poller, outcome).Inc()
}

// Registry returns the private registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
