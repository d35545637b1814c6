package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the application-level Prometheus instruments.
type Metrics struct {
	httpDuration      *prometheus.HistogramVec
	subscribeOutcomes *prometheus.CounterVec
	limitDecisions    *prometheus.CounterVec
	limitEvictions    prometheus.Counter
}

// New registers the instruments on the default registry.
func New() *Metrics {
	return &Metrics{
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "momta_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		subscribeOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "momta_subscribe_total",
			Help: "Waitlist subscribe attempts by outcome.",
		}, []string{"outcome"}),
		limitDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "momta_rate_limit_decisions_total",
			Help: "Rate limiter admissions and rejections.",
		}, []string{"decision"}),
		limitEvictions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "momta_rate_limit_evictions_total",
			Help: "Expired rate-limit entries removed by the background sweep.",
		}),
	}
}

// Subscribe outcomes recorded by the intake handler.
const (
	OutcomeSuccess     = "success"
	OutcomeDuplicate   = "already_registered"
	OutcomeRateLimited = "rate_limited"
	OutcomeInvalid     = "validation_error"
	OutcomeError       = "error"
)

func (m *Metrics) ObserveSubscribe(outcome string) {
	if m == nil {
		return
	}
	m.subscribeOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLimitDecision(allowed bool) {
	if m == nil {
		return
	}
	decision := "rejected"
	if allowed {
		decision = "allowed"
	}
	m.limitDecisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) ObserveLimitEvictions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.limitEvictions.Add(float64(n))
}

// GinMiddleware records request duration per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.httpDuration.WithLabelValues(
			route,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
