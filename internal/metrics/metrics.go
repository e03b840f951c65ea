// Package metrics defines Prometheus metrics for the stock overview service.
// All collectors are registered upfront on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PoolState is 1 for the pool manager's current lifecycle state, 0 otherwise.
	PoolState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stock_pool_state",
		Help: "Current lifecycle state of the shared SQL Server pool (1 = current)",
	}, []string{"state"})

	// PoolConnectAttempts counts pool-creation attempts by outcome.
	PoolConnectAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_pool_connect_attempts_total",
		Help: "Total pool creation attempts",
	}, []string{"status"})

	// PoolConnectDuration tracks how long pool creation takes.
	PoolConnectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_pool_connect_duration_seconds",
		Help:    "Duration of pool creation attempts",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 15, 30},
	})

	// SummaryQueryDuration tracks the materials summary query execution time.
	SummaryQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_summary_query_duration_seconds",
		Help:    "Materials summary query duration",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	// SummaryRequests counts summary fetches by source and outcome.
	SummaryRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_summary_requests_total",
		Help: "Total materials summary fetches",
	}, []string{"source", "status"})

	// SummaryRows tracks the number of rows returned by the last summary query.
	SummaryRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stock_summary_rows",
		Help: "Rows returned by the most recent materials summary query",
	})

	// CacheOperations counts Redis cache operations.
	CacheOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_cache_operations_total",
		Help: "Total summary cache operations",
	}, []string{"operation", "status"})

	// HTTPRequests counts facade requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_http_requests_total",
		Help: "Total HTTP requests handled",
	}, []string{"route", "status"})

	// HTTPDuration tracks facade request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stock_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)
