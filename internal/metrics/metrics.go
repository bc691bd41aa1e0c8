// Package metrics provides Prometheus metrics for the ASIN analyzer.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asin_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Keepa API Metrics
	KeepaRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asin_keepa_requests_total",
			Help: "Total number of Keepa API requests made",
		},
		[]string{"endpoint", "status"}, // endpoint: "product" or "seller"; status: HTTP code or "error"
	)

	KeepaRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asin_keepa_request_duration_seconds",
			Help:    "Keepa API call latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	KeepaTokensLeft = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asin_keepa_tokens_left",
			Help: "Keepa tokens remaining after the last response",
		},
	)

	KeepaRefillRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asin_keepa_refill_rate",
			Help: "Keepa tokens refilled per minute",
		},
	)

	// Analysis Metrics
	SellerLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asin_seller_lookups_total",
			Help: "Seller identity lookups by result",
		},
		[]string{"result"}, // "found", "absent", "failed"
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asin_analyses_total",
			Help: "Product analyses by outcome",
		},
		[]string{"outcome"}, // "ok", "upstream_error", "empty"
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asin_analysis_duration_seconds",
			Help:    "Time taken to fetch and summarize one product",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	SellerRowsPerAnalysis = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asin_seller_rows_per_analysis",
			Help:    "Number of seller rows in a successful analysis",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
)
