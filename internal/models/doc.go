// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

/*
Package models defines data structures for the Ordersight application.

It is the single source of truth for data structure definitions shared across
the storage layer, the analytics engines, and the HTTP API.

Model Categories:

1. Store Models (read-only views of collaborator-owned data):
  - Order: historical purchase record with an embedded line-item JSON blob
  - LineItem: one purchased item, parsed out of the order blob
  - Product: partial catalog view (identity, attributes, stock)

2. Derived Models (computed per request, never persisted):
  - ForecastResult: per-product exhaustion forecast with reorder guidance
  - FleetSummary: risk distribution across the scanned fleet
  - RecommendationResult: ranked product recommendations per strategy
  - CustomerAnalytics: lifetime metrics, RFM scoring, and purchase timeline

3. API Models:
  - APIResponse: standard response wrapper
  - APIError: error details
  - Metadata: response metadata (timestamp, query time)

All derived models are stateless: they are recomputed fully on every call and
carry no cache or invalidation semantics.

Thread Safety:

All models are immutable after creation and safe for concurrent read access.
No internal mutexes are needed (data structures only).
*/
package models
