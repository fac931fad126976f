// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

// Package forecast computes per-product inventory-exhaustion forecasts and
// fleet-wide risk aggregates from raw order history. Every call re-scans the
// windowed history; nothing is cached or persisted.
package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/ordersight/internal/config"
	"github.com/tomtom215/ordersight/internal/history"
	"github.com/tomtom215/ordersight/internal/metrics"
	"github.com/tomtom215/ordersight/internal/models"
)

// Calculator computes sales velocity, trend, and stockout risk for one
// product. It is stateless; concurrent calls are fully independent.
type Calculator struct {
	accessor *history.Accessor
	products history.ProductRepository
	policy   config.ForecastPolicy

	// now is injected for tests; defaults to time.Now.
	now func() time.Time
}

// NewCalculator creates a Calculator with the given policy.
func NewCalculator(accessor *history.Accessor, products history.ProductRepository, policy config.ForecastPolicy) *Calculator {
	return &Calculator{
		accessor: accessor,
		products: products,
		policy:   policy,
		now:      time.Now,
	}
}

// Forecast computes the inventory forecast for one product over the given
// analysis window. windowDays <= 0 uses the configured default. Returns
// history.ErrNotFound when the product does not exist; this is an expected
// outcome, not a fault.
func (c *Calculator) Forecast(ctx context.Context, productID string, windowDays int) (*models.ForecastResult, error) {
	defer metrics.RecordEngineOperation("forecast", "forecast", time.Now())

	if windowDays <= 0 {
		windowDays = c.policy.DefaultWindowDays
	}

	product, err := c.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return nil, history.ErrNotFound
	}

	now := c.now()
	start := now.AddDate(0, 0, -windowDays)
	orders, err := c.accessor.OrdersInRange(ctx, start, now)
	if err != nil {
		return nil, err
	}

	totalSold, dailySales := accumulateSales(orders, productID)

	// The denominator is the fixed window length, not the order count, so
	// sparse sales dilute the average correctly.
	avgDailySales := float64(totalSold) / float64(windowDays)

	daysUntilStockout := c.daysUntilStockout(product.Stock, avgDailySales)
	trend := c.classifyTrend(dailySales, start, windowDays)

	horizon := c.policy.OrderHorizonDays
	if trend == models.TrendIncreasing {
		horizon = c.policy.IncreasingHorizonDays
	}

	return &models.ForecastResult{
		ProductID:               product.ID,
		ProductName:             product.Name,
		CurrentStock:            product.Stock,
		AverageDailySales:       avgDailySales,
		DaysUntilStockout:       daysUntilStockout,
		RecommendedReorderPoint: int(math.Ceil(avgDailySales * float64(c.policy.LeadTimeDays+c.policy.SafetyStockDays))),
		SuggestedOrderQuantity:  int(math.Ceil(avgDailySales * float64(horizon))),
		Trend:                   trend,
		RiskLevel:               c.riskLevel(daysUntilStockout),
	}, nil
}

// accumulateSales sums units of productID sold across the parsed orders and
// buckets them by order creation date at day granularity.
func accumulateSales(orders []history.ParsedOrder, productID string) (int, map[string]int) {
	totalSold := 0
	dailySales := make(map[string]int)
	for _, po := range orders {
		for _, item := range po.Items {
			if item.ProductID != productID {
				continue
			}
			totalSold += item.Quantity
			day := po.Order.CreatedAt.Format("2006-01-02")
			dailySales[day] += item.Quantity
		}
	}
	return totalSold, dailySales
}

// daysUntilStockout converts stock and velocity into days of cover. Zero
// stock means already out. Zero or non-finite velocity yields the configured
// sentinel, deliberately a finite value so it stays sortable.
func (c *Calculator) daysUntilStockout(stock int, avgDailySales float64) int {
	if stock == 0 {
		return 0
	}
	if avgDailySales <= 0 || math.IsNaN(avgDailySales) || math.IsInf(avgDailySales, 0) {
		return c.policy.StockoutSentinelDays
	}
	return int(math.Floor(float64(stock) / avgDailySales))
}

// classifyTrend splits the per-day buckets at the window midpoint and
// compares half-window totals. A zero first half always classifies stable.
func (c *Calculator) classifyTrend(dailySales map[string]int, start time.Time, windowDays int) models.Trend {
	midpoint := start.AddDate(0, 0, windowDays/2).Format("2006-01-02")

	var firstHalf, secondHalf int
	for day, qty := range dailySales {
		if day < midpoint {
			firstHalf += qty
		} else {
			secondHalf += qty
		}
	}

	if firstHalf == 0 {
		return models.TrendStable
	}

	percentChange := float64(secondHalf-firstHalf) / float64(firstHalf) * 100
	switch {
	case percentChange > c.policy.TrendUpPct:
		return models.TrendIncreasing
	case percentChange < -c.policy.TrendDownPct:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// riskLevel is a pure step function of daysUntilStockout. Boundaries are
// inclusive on the lower bucket.
func (c *Calculator) riskLevel(daysUntilStockout int) models.RiskLevel {
	switch {
	case daysUntilStockout <= c.policy.CriticalDays:
		return models.RiskCritical
	case daysUntilStockout <= c.policy.HighDays:
		return models.RiskHigh
	case daysUntilStockout <= c.policy.MediumDays:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
