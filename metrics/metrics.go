// Package metrics exposes Prometheus metrics for the HTTP API.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pokemon_api"

// Metrics holds the collectors registered for one server instance.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec   // by method, route, status
	RequestDuration *prometheus.HistogramVec // by method, route
	ImageUploads    *prometheus.CounterVec   // by mime type, result
	ImageBytes      prometheus.Counter       // decoded bytes written

	registry *prometheus.Registry
}

// New creates the metrics and registers them, together with the Go runtime
// and process collectors, on registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ImageUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_uploads_total",
			Help:      "Image upload attempts by MIME type and result.",
		}, []string{"mime_type", "result"}),
		ImageBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_upload_bytes_total",
			Help:      "Decoded image bytes written to asset storage.",
		}),
		registry: registry,
	}

	for _, c := range []prometheus.Collector{
		m.RequestsTotal,
		m.RequestDuration,
		m.ImageUploads,
		m.ImageBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Middleware records request count and latency. Unmatched routes are
// grouped under a single label to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveUpload records the outcome of one image upload. mimeType may be
// empty when the request was rejected before it was known.
func (m *Metrics) ObserveUpload(mimeType, result string, size int) {
	if mimeType == "" {
		mimeType = "unknown"
	}
	m.ImageUploads.WithLabelValues(mimeType, result).Inc()
	if size > 0 {
		m.ImageBytes.Add(float64(size))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
