package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the engine
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Engine metrics
	Operations        *prometheus.CounterVec
	Rejections        *prometheus.CounterVec
	Queries           *prometheus.CounterVec
	Recalculations    *prometheus.CounterVec
	StaleSolves       prometheus.Counter
	SolveDuration     prometheus.Histogram
	DroppedConnectors prometheus.Counter
	LayoutFailures    prometheus.Counter
	BreakerState      *prometheus.GaugeVec
}

// NewCollector creates a metrics collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Committed editor operations",
			},
			[]string{"operation"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Operations rejected by an invariant",
			},
			[]string{"code"},
		),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Read model queries by outcome",
			},
			[]string{"query", "outcome"},
		),
		Recalculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recalculations_total",
				Help:      "Recalculation passes by outcome",
			},
			[]string{"outcome"},
		),
		StaleSolves: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_solves_total",
				Help:      "Solver results discarded because the diagram changed meanwhile",
			},
		),
		SolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "External solver call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		DroppedConnectors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "load_dropped_connectors_total",
				Help:      "Connectors dropped at load because an endpoint did not resolve",
			},
		),
		LayoutFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "layout_removal_failures_total",
				Help:      "Failed best-effort layout component removals",
			},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Operations,
		c.Rejections,
		c.Queries,
		c.Recalculations,
		c.StaleSolves,
		c.SolveDuration,
		c.DroppedConnectors,
		c.LayoutFailures,
		c.BreakerState,
	)

	return c
}

// RecordOperation counts a committed operation
func (c *Collector) RecordOperation(operation string) {
	c.Operations.WithLabelValues(operation).Inc()
}

// RecordRejection counts an invariant rejection
func (c *Collector) RecordRejection(code string) {
	c.Rejections.WithLabelValues(code).Inc()
}

// RecordQuery counts a read model query
func (c *Collector) RecordQuery(query, outcome string) {
	c.Queries.WithLabelValues(query, outcome).Inc()
}

// RecordRecalculation counts a recalculation pass and its solve time
func (c *Collector) RecordRecalculation(outcome string, duration time.Duration) {
	c.Recalculations.WithLabelValues(outcome).Inc()
	c.SolveDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records a served request
func (c *Collector) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
