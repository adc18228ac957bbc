package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for note operations.
const (
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Metrics holds the collectors exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	// 按路由与状态码统计请求数
	RequestsTotal *prometheus.CounterVec
	// 请求耗时（秒）
	ResponseTime *prometheus.HistogramVec
	// 笔记操作结果，按操作与结果分类
	NoteOperations *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notekeeper_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		ResponseTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notekeeper_http_response_time_seconds",
				Help:    "Response time in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		NoteOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notekeeper_note_operations_total",
				Help: "Note operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
	}

	m.registry.MustRegister(m.RequestsTotal, m.ResponseTime, m.NoteOperations)
	return m
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.ResponseTime.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveNoteOperation counts a finished note operation.
func (m *Metrics) ObserveNoteOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.NoteOperations.WithLabelValues(operation, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
