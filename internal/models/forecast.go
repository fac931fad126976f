// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package models

// Trend classifies demand direction across the analysis window.
type Trend string

// Trend values.
const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

// RiskLevel buckets a product's stockout proximity. It is a pure step
// function of days-until-stockout; the buckets themselves are policy and
// live in config.ForecastPolicy.
type RiskLevel string

// RiskLevel values, most urgent first.
const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

// Rank returns the sort rank of the risk level: critical sorts before high,
// high before medium, medium before low. Unknown levels sort last.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskCritical:
		return 0
	case RiskHigh:
		return 1
	case RiskMedium:
		return 2
	case RiskLow:
		return 3
	default:
		return 4
	}
}

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskCritical, RiskHigh, RiskMedium, RiskLow:
		return true
	default:
		return false
	}
}

// ForecastResult is a per-product inventory exhaustion forecast. It is
// derived on every call and never persisted.
type ForecastResult struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`

	// CurrentStock is the stock level at computation time.
	CurrentStock int `json:"current_stock"`

	// AverageDailySales is total units sold in the window divided by the
	// window length in days. The fixed denominator dilutes sparse sales
	// correctly. Always >= 0.
	AverageDailySales float64 `json:"average_daily_sales"`

	// DaysUntilStockout is floor(stock / velocity). 0 when already out of
	// stock; the configured sentinel (999 by default) when there were no
	// sales in the window.
	DaysUntilStockout int `json:"days_until_stockout"`

	// RecommendedReorderPoint is the stock level at which replenishment
	// should be triggered to cover lead time plus safety stock.
	RecommendedReorderPoint int `json:"recommended_reorder_point"`

	// SuggestedOrderQuantity covers the restock horizon at current velocity.
	SuggestedOrderQuantity int `json:"suggested_order_quantity"`

	Trend     Trend     `json:"trend"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// FleetSummary aggregates forecast risk across all scan candidates.
type FleetSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`

	// NeedsReorder counts products at or below their reorder point.
	NeedsReorder int `json:"needs_reorder"`

	// AverageDaysToStockout excludes sentinel and long-tail forecasts so the
	// mean reflects products actually approaching exhaustion. 0 when no
	// forecast qualifies.
	AverageDaysToStockout float64 `json:"average_days_to_stockout"`
}
