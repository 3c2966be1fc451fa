// Package metrics holds the Prometheus instrumentation of the storefront host.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shopfront"

// Metrics groups every collector exposed on /metrics
type Metrics struct {
	Registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	RequestInFlight prometheus.Gauge

	CatalogMutations *prometheus.CounterVec
	OrdersPlaced     prometheus.Counter
	OrderValue       prometheus.Histogram
	FeedFetches      *prometheus.CounterVec
	WSClients        prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		RequestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),

		CatalogMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "mutations_total",
				Help:      "Admin catalog mutations by entity and action.",
			},
			[]string{"entity", "action"}, // brand|partner|collection|product, create|update|delete|import
		),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total orders placed.",
		}),
		OrderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "total_value",
			Help:      "Order totals including fees.",
			Buckets:   []float64{20, 50, 100, 250, 500, 1000, 5000},
		}),
		FeedFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "feed",
				Name:      "loads_total",
				Help:      "Storefront feed loads by source.",
			},
			[]string{"source"}, // "remote" | "cache"
		),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Connected websocket clients.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.RequestTotal,
		m.RequestInFlight,
		m.CatalogMutations,
		m.OrdersPlaced,
		m.OrderValue,
		m.FeedFetches,
		m.WSClients,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// CatalogMutation records an admin change
func (m *Metrics) CatalogMutation(entity, action string) {
	m.CatalogMutations.WithLabelValues(entity, action).Inc()
}

// OrderPlaced records a completed checkout
func (m *Metrics) OrderPlaced(total float64) {
	m.OrdersPlaced.Inc()
	m.OrderValue.Observe(total)
}

// FeedLoaded records where the storefront feed came from
func (m *Metrics) FeedLoaded(fromCache bool) {
	source := "remote"
	if fromCache {
		source = "cache"
	}
	m.FeedFetches.WithLabelValues(source).Inc()
}
