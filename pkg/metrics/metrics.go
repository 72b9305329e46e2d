package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes recorded by ObserveGeneration.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeRejected = "rejected"
)

// Metrics owns a private Prometheus registry for the service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	generations     *prometheus.CounterVec
	unassigned      prometheus.Histogram
}

// New registers the collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generations_total",
		Help: "Schedule generation attempts by outcome",
	}, []string{"outcome"})

	unassigned := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_unassigned_dates",
		Help:    "Dates left without a doctor per generated month",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 31},
	})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		generations,
		unassigned,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		generations:     generations,
		unassigned:      unassigned,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(m.handler)
}

// Middleware records request count and latency.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// ObserveGeneration records one generator run. unassigned is ignored unless
// the outcome is a success.
func (m *Metrics) ObserveGeneration(outcome string, unassigned int) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.unassigned.Observe(float64(unassigned))
	}
}
