// Package metrics defines the Prometheus collectors for the server and exposes
// an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors. Each instance owns its registry so
// several servers (and tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        *prometheus.HistogramVec
	SearchResultsCount   prometheus.Histogram
	ChatMessagesTotal    *prometheus.CounterVec
	RateLimitedTotal     *prometheus.CounterVec
	CartOperationsTotal  *prometheus.CounterVec
	ProductsInserted     prometheus.Counter
	CatalogProducts      prometheus.Gauge
	CatalogReloadsTotal  *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by kind (search, suggest, branch, browse) and outcome (hit, zero_result).",
			},
			[]string{"kind", "outcome"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
			},
			[]string{"kind"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of ranked products per search query.",
				Buckets: []float64{0, 1, 3, 5, 10, 25, 50, 100},
			},
		),
		ChatMessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_messages_total",
				Help: "Total chat messages by reply intent (buy, product, fallback).",
			},
			[]string{"intent"},
		),
		RateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limited_requests_total",
				Help: "Requests rejected by a rate limiter.",
			},
			[]string{"route"},
		),
		CartOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cart_operations_total",
				Help: "Cart operations by operation and status.",
			},
			[]string{"operation", "status"},
		),
		ProductsInserted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_products_inserted_total",
				Help: "Products added to the catalog at runtime.",
			},
		),
		CatalogProducts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_products",
				Help: "Number of distinct products in the live catalog.",
			},
		),
		CatalogReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_reloads_total",
				Help: "Catalog file reloads by status.",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.ChatMessagesTotal,
		m.RateLimitedTotal,
		m.CartOperationsTotal,
		m.ProductsInserted,
		m.CatalogProducts,
		m.CatalogReloadsTotal,
	)

	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler for this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one search of the given kind. Nil receivers are ignored.
func (m *Metrics) ObserveSearch(kind string, results int, seconds float64) {
	if m == nil {
		return
	}
	outcome := "hit"
	if results == 0 {
		outcome = "zero_result"
	}
	m.SearchQueriesTotal.WithLabelValues(kind, outcome).Inc()
	m.SearchLatency.WithLabelValues(kind).Observe(seconds)
	if kind == "search" {
		m.SearchResultsCount.Observe(float64(results))
	}
}

// SetCatalogSize records the current number of products. Nil receivers are ignored.
func (m *Metrics) SetCatalogSize(n int) {
	if m == nil {
		return
	}
	m.CatalogProducts.Set(float64(n))
}

// ObserveReload records a catalog reload attempt. Nil receivers are ignored.
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.CatalogReloadsTotal.WithLabelValues(status).Inc()
}

// ObserveChat counts a chat reply by intent. Nil receivers are ignored.
func (m *Metrics) ObserveChat(intent string) {
	if m == nil {
		return
	}
	m.ChatMessagesTotal.WithLabelValues(intent).Inc()
}

// ObserveCart counts a cart operation. Nil receivers are ignored.
func (m *Metrics) ObserveCart(operation string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.CartOperationsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveInsert counts a runtime product insert and updates the catalog size.
// Nil receivers are ignored.
func (m *Metrics) ObserveInsert(catalogSize int) {
	if m == nil {
		return
	}
	m.ProductsInserted.Inc()
	m.CatalogProducts.Set(float64(catalogSize))
}

// ObserveRateLimited counts a request rejected on route. Nil receivers are ignored.
func (m *Metrics) ObserveRateLimited(route string) {
	if m == nil {
		return
	}
	m.RateLimitedTotal.WithLabelValues(route).Inc()
}
