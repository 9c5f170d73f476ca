// Package metrics provides Prometheus instrumentation for the fraud service.
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path pattern, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trustlens",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trustlens",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// EvaluationsTotal counts fraud evaluations by verdict.
	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trustlens",
			Name:      "evaluations_total",
			Help:      "Total fraud evaluations by verdict (anomalous/clean).",
		},
		[]string{"verdict"},
	)

	// RuleHitsTotal counts triggered detection rules by name.
	RuleHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trustlens",
			Name:      "rule_hits_total",
			Help:      "Total triggered detection rules by rule name.",
		},
		[]string{"rule"},
	)

	// BlacklistInsertsTotal counts blacklist insertions by source.
	BlacklistInsertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trustlens",
			Name:      "blacklist_inserts_total",
			Help:      "Total blacklist insertions by source (engine/manual).",
		},
		[]string{"source"},
	)

	// SMSDeliveriesTotal counts SMS delivery attempts by result.
	SMSDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trustlens",
			Name:      "sms_deliveries_total",
			Help:      "Total SMS delivery attempts by result (sent/simulated/failed).",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		EvaluationsTotal,
		RuleHitsTotal,
		BlacklistInsertsTotal,
		SMSDeliveriesTotal,
	)
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // route pattern, not actual path (avoids cardinality explosion)
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// Handler exposes the Prometheus scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
