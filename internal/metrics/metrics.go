// Package metrics collects and exposes Prometheus metrics for the planner.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers the planner's counters: login outcomes, session expiry,
// purge volume, and HTTP traffic. It satisfies the recorder interfaces the
// application services accept.
type Collector struct {
	loginsGranted   *prometheus.CounterVec
	loginsRejected  *prometheus.CounterVec
	sessionsExpired prometheus.Counter
	recordsPurged   *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpLatency     prometheus.Histogram
}

// NewCollector builds a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginsGranted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_logins_granted_total",
			Help: "Successful logins, split by whether a takeover was forced.",
		}, []string{"forced"}),
		loginsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_logins_rejected_total",
			Help: "Rejected logins by reason.",
		}, []string{"reason"}),
		sessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_sessions_expired_total",
			Help: "Sessions removed by expiry sweeps.",
		}),
		recordsPurged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_records_purged_total",
			Help: "Records removed by administrative purges, by kind.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "HTTP responses by method and status code.",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.loginsGranted,
		c.loginsRejected,
		c.sessionsExpired,
		c.recordsPurged,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

// LoginGranted records a successful login.
func (c *Collector) LoginGranted(forced bool) {
	c.loginsGranted.WithLabelValues(strconv.FormatBool(forced)).Inc()
}

// LoginRejected records a rejected login with its reason.
func (c *Collector) LoginRejected(reason string) {
	c.loginsRejected.WithLabelValues(reason).Inc()
}

// SessionsExpired records sessions dropped by an expiry sweep.
func (c *Collector) SessionsExpired(count int) {
	c.sessionsExpired.Add(float64(count))
}

// RecordsPurged records how many records of one kind a purge removed.
func (c *Collector) RecordsPurged(kind string, count int) {
	c.recordsPurged.WithLabelValues(kind).Add(float64(count))
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// Handler returns the scrape handler for the gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
