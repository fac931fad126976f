// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

// Package metrics provides Prometheus instrumentation for Ordersight:
// API endpoint latency and throughput, DuckDB query performance, analytics
// engine operation timing, and malformed-record accounting.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Engine metrics. Every operation re-scans order history, so these
	// histograms track the real cost of each analytics call.
	EngineOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_operation_duration_seconds",
			Help:    "Duration of analytics engine operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine", "operation"},
	)

	// MalformedOrders counts orders whose embedded line-item blob failed to
	// parse and was skipped. A rising rate points at a checkout-side
	// serialization problem; skipped orders silently dilute aggregates.
	MalformedOrders = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "malformed_order_items_total",
			Help: "Total number of orders skipped due to unparsable line-item payloads",
		},
	)

	// OrdersScanned counts orders read during history scans.
	OrdersScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_scanned_total",
			Help: "Total number of orders read during history scans",
		},
	)

	// BreakerStateChanges counts repository circuit breaker transitions.
	BreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_breaker_state_changes_total",
			Help: "Total number of repository circuit breaker state transitions",
		},
		[]string{"name", "to"},
	)
)

// RecordDBQuery observes the duration of a database query and counts errors.
func RecordDBQuery(operation, table string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest counts a completed API request and observes its duration.
func RecordAPIRequest(method, path string, status int, start time.Time) {
	APIRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
}

// RecordEngineOperation observes the duration of one engine operation.
func RecordEngineOperation(engine, operation string, start time.Time) {
	EngineOperationDuration.WithLabelValues(engine, operation).Observe(time.Since(start).Seconds())
}
