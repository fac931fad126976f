// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package api

import (
	"context"
	"time"

	"github.com/tomtom215/ordersight/internal/config"
	"github.com/tomtom215/ordersight/internal/forecast"
	"github.com/tomtom215/ordersight/internal/recommend"
	"github.com/tomtom215/ordersight/internal/segment"
)

// HealthStore is the subset of the store the health endpoints probe.
// *database.BreakerStore satisfies it.
type HealthStore interface {
	Ping(ctx context.Context) error
	State() string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: Shared helper functions
//   - handlers_health.go: Health and readiness probes
//   - handlers_forecast.go: Inventory forecast endpoints
//   - handlers_recommend.go: Product recommendation endpoints
//   - handlers_customers.go: Customer segmentation endpoints
type Handler struct {
	store       HealthStore
	calculator  *forecast.Calculator
	aggregator  *forecast.Aggregator
	recommender *recommend.Engine
	segmenter   *segment.Engine
	config      *config.Config
	startTime   time.Time
}

// NewHandler creates a new API handler with all required dependencies.
//
// Dependencies:
//   - store: breaker-wrapped store used for health probes
//   - calculator: single-product forecast engine
//   - aggregator: fleet-wide forecast scanning and summary
//   - recommender: recommendation strategies with fallback chains
//   - segmenter: RFM customer segmentation
//   - cfg: application configuration
func NewHandler(store HealthStore, calculator *forecast.Calculator, aggregator *forecast.Aggregator, recommender *recommend.Engine, segmenter *segment.Engine, cfg *config.Config) *Handler {
	return &Handler{
		store:       store,
		calculator:  calculator,
		aggregator:  aggregator,
		recommender: recommender,
		segmenter:   segmenter,
		config:      cfg,
		startTime:   time.Now(),
	}
}

// queryTimeout bounds every handler's downstream work. A full order log
// re-scan over a large store should still finish well inside this.
const queryTimeout = 10 * time.Second
