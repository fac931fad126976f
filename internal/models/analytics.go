// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package models

import "time"

// RecommendationResult is an ordered product list produced by one
// recommendation strategy. Length never exceeds the requested limit.
type RecommendationResult struct {
	// Strategy names the strategy that produced the products. When a
	// fallback chain fired, this is the strategy that actually answered.
	Strategy string `json:"strategy"`

	Products []Product `json:"products"`
}

// RFMScore holds Recency/Frequency/Monetary scoring for one customer.
// Each component is 1-5; Score is their sum and spans 3-15.
type RFMScore struct {
	Recency   int `json:"recency"`
	Frequency int `json:"frequency"`
	Monetary  int `json:"monetary"`
	Score     int `json:"score"`
}

// Customer segment labels, from the top-down segment ladder.
const (
	SegmentVIP     = "VIP"
	SegmentLoyal   = "Loyal"
	SegmentRegular = "Regular"
	SegmentAtRisk  = "At Risk"
	SegmentNew     = "New"
)

// CategoryPreference is one entry of a customer's category affinity ranking.
type CategoryPreference struct {
	Category string `json:"category"`

	// Count is the number of line items in this category.
	Count int `json:"count"`

	// TotalSpent is quantity x unit price summed over those items,
	// rounded to 2 decimal places.
	TotalSpent float64 `json:"total_spent"`
}

// TimelineEntry is one order in a customer's chronological purchase history.
type TimelineEntry struct {
	Date time.Time `json:"date"`

	// Total is the order total rounded to 2 decimal places.
	Total float64 `json:"total"`

	// ItemCount is the sum of line-item quantities, recomputed by re-parsing
	// the order's embedded item blob. 0 when the blob is unparsable.
	ItemCount int `json:"item_count"`
}

// CustomerAnalytics is the full purchase-behavior profile for one customer.
// Derived on every call; never persisted.
type CustomerAnalytics struct {
	Email string `json:"email"`

	TotalOrders       int     `json:"total_orders"`
	TotalSpent        float64 `json:"total_spent"`
	AverageOrderValue float64 `json:"average_order_value"`

	// LifetimeValue currently equals TotalSpent. This is a deliberate
	// simplification: no discounting or churn adjustment is applied.
	LifetimeValue float64 `json:"lifetime_value"`

	DaysSinceLastOrder int       `json:"days_since_last_order"`
	FirstOrderAt       time.Time `json:"first_order_at"`
	LastOrderAt        time.Time `json:"last_order_at"`

	RFM     RFMScore `json:"rfm"`
	Segment string   `json:"segment"`

	// CategoryPreferences holds the customer's top categories by item count.
	CategoryPreferences []CategoryPreference `json:"category_preferences"`

	// Timeline lists the customer's orders in chronological order.
	Timeline []TimelineEntry `json:"timeline"`
}
