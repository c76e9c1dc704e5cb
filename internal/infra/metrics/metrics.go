// Package metrics exposes engine counters in Prometheus format.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"parking-engine/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "parking"

type Metrics struct {
	registry *prometheus.Registry

	notifications  *prometheus.CounterVec
	sweeps         *prometheus.CounterVec
	sweepExpired   prometheus.Counter
	sweepFailures  prometheus.Counter
	sweepDuration  prometheus.Histogram
	sweepBacklog   prometheus.Gauge
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// New builds a private registry so tests and multiple engines never collide
// on the global one.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_events_total",
			Help:      "Booking lifecycle events by category.",
		}, []string{"category"}),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reaper",
			Name:      "sweeps_total",
			Help:      "Expiry sweeps by result.",
		}, []string{"result"}),
		sweepExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reaper",
			Name:      "expired_total",
			Help:      "Bookings expired by the reaper.",
		}),
		sweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reaper",
			Name:      "failures_total",
			Help:      "Bookings the reaper failed to expire.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reaper",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of one expiry sweep.",
			Buckets:   prometheus.DefBuckets,
		}),
		sweepBacklog: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reaper",
			Name:      "last_scanned",
			Help:      "Overdue bookings found by the most recent sweep.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.notifications,
		m.sweeps,
		m.sweepExpired,
		m.sweepFailures,
		m.sweepDuration,
		m.sweepBacklog,
		m.requests,
		m.requestLatency,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Notify counts lifecycle events; it is registered as a notification sink.
func (m *Metrics) Notify(_ context.Context, n usecase.Notification) error {
	m.notifications.WithLabelValues(n.Category.String()).Inc()
	return nil
}

func (m *Metrics) ObserveSweep(report usecase.SweepReport) {
	result := "completed"
	switch {
	case report.LeaseHeld:
		result = "lease_held"
	case report.Interrupted:
		result = "interrupted"
	}
	m.sweeps.WithLabelValues(result).Inc()
	m.sweepExpired.Add(float64(report.Expired))
	m.sweepFailures.Add(float64(len(report.Failures)))
	m.sweepDuration.Observe(report.Duration.Seconds())
	m.sweepBacklog.Set(float64(report.Scanned))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency keyed by the matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
