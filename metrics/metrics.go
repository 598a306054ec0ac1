// Package metrics exposes Prometheus collectors for storage operations and
// the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector receives storage operation outcomes.
// Implement this interface to integrate with a monitoring system.
type Collector interface {
	// RecordAppend is called after each append. err is nil on success.
	RecordAppend(duration time.Duration, err error)

	// RecordCount is called after each row count.
	RecordCount(duration time.Duration, err error)

	// SetDegraded reports whether the storage backend is unavailable.
	SetDegraded(degraded bool)
}

// Noop is a Collector that records nothing.
type Noop struct{}

func (Noop) RecordAppend(time.Duration, error) {}
func (Noop) RecordCount(time.Duration, error)  {}
func (Noop) SetDegraded(bool)                  {}

// Prometheus implements Collector on a private registry and also provides
// HTTP request instrumentation.
type Prometheus struct {
	opLatency *prometheus.HistogramVec
	opErrors  *prometheus.CounterVec
	degraded  prometheus.Gauge

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewPrometheus creates the collectors under namespace.
func NewPrometheus(namespace string) *Prometheus {
	if namespace == "" {
		namespace = "vecnode"
	}
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "storage_operation_seconds",
			Help:      "Latency of storage operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		opErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Total failed storage operations",
		}, []string{"op"}),
		degraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "storage_degraded",
			Help:      "1 when the storage backend is unavailable",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	p.registry.MustRegister(
		p.opLatency,
		p.opErrors,
		p.degraded,
		p.requestsTotal,
		p.requestDuration,
	)
	return p
}

// Registry returns the registry holding all collectors.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

func (p *Prometheus) record(op string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		p.opErrors.WithLabelValues(op).Inc()
	}
	p.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
}

// RecordAppend implements Collector.
func (p *Prometheus) RecordAppend(d time.Duration, err error) { p.record("append", d, err) }

// RecordCount implements Collector.
func (p *Prometheus) RecordCount(d time.Duration, err error) { p.record("count", d, err) }

// SetDegraded implements Collector.
func (p *Prometheus) SetDegraded(degraded bool) {
	if degraded {
		p.degraded.Set(1)
		return
	}
	p.degraded.Set(0)
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Middleware records request totals and durations. Routes are labelled by
// their registered pattern to keep cardinality bounded.
func (p *Prometheus) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		p.requestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		p.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

var (
	_ Collector = Noop{}
	_ Collector = (*Prometheus)(nil)
)
