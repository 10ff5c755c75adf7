package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter       *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	AuditWriteFailures   prometheus.Counter
	QuotaRejections      *prometheus.CounterVec
	AuthorizationDenials *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuditWriteFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "audit_write_failures_total",
				Help: "Audit records that could not be persisted",
			},
		),
		QuotaRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quota_rejections_total",
				Help: "Creations rejected by plan limits",
			},
			[]string{"resource"},
		),
		AuthorizationDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authorization_denials_total",
				Help: "Requests denied by the role authorization guard",
			},
			[]string{"action"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDuration,
		m.AuditWriteFailures,
		m.QuotaRejections,
		m.AuthorizationDenials,
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.RequestCounter.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// IncAuditFailure is safe to call on a nil receiver.
func (m *Metrics) IncAuditFailure() {
	if m == nil {
		return
	}
	m.AuditWriteFailures.Inc()
}

// IncQuotaRejection is safe to call on a nil receiver.
func (m *Metrics) IncQuotaRejection(resource string) {
	if m == nil {
		return
	}
	m.QuotaRejections.WithLabelValues(resource).Inc()
}

// IncAuthorizationDenial is safe to call on a nil receiver.
func (m *Metrics) IncAuthorizationDenial(action string) {
	if m == nil {
		return
	}
	m.AuthorizationDenials.WithLabelValues(action).Inc()
}
