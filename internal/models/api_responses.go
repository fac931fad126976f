// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints. It provides a consistent structure for both successful and
// error responses, with metadata for observability.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"product_id": "p-1", "risk_level": "high", ...},
//	  "metadata": {"timestamp": "2026-02-11T12:00:00Z", "query_time_ms": 12}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "product not found"},
//	  "metadata": {"timestamp": "2026-02-11T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	// Timestamp is the server time when the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// QueryTimeMS is how long the underlying computation took. Every call
	// re-scans order history, so this reflects real scan cost.
	QueryTimeMS int64 `json:"query_time_ms"`
}

// APIError describes a failed request.
type APIError struct {
	// Code is a stable machine-readable error code, e.g. NOT_FOUND,
	// VALIDATION_ERROR, REPOSITORY_FAILURE.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Details carries optional structured context (failing field, etc.).
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the /health endpoint.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StoreConnected bool    `json:"store_connected"`
	BreakerState   string  `json:"breaker_state"`
	Uptime         float64 `json:"uptime_seconds"`
}
