// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

// Package segment computes per-customer purchase-behavior analytics: lifetime
// metrics, an RFM (Recency/Frequency/Monetary) score and segment label,
// category preferences, and an order timeline. Everything is recomputed from
// raw order history on every call.
package segment

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/ordersight/internal/config"
	"github.com/tomtom215/ordersight/internal/history"
	"github.com/tomtom215/ordersight/internal/metrics"
	"github.com/tomtom215/ordersight/internal/models"
)

// uncategorized is the category bucket for line items with no category label.
const uncategorized = "Uncategorized"

// Engine computes customer analytics. Stateless; concurrent calls are fully
// independent.
type Engine struct {
	accessor *history.Accessor
	policy   config.RFMPolicy

	// now is injected for tests; defaults to time.Now.
	now func() time.Time
}

// NewEngine creates a segmentation engine with the given policy.
func NewEngine(accessor *history.Accessor, policy config.RFMPolicy) *Engine {
	return &Engine{
		accessor: accessor,
		policy:   policy,
		now:      time.Now,
	}
}

// Analyze computes the full purchase-behavior profile for one customer.
// Returns history.ErrNotFound when the customer has no orders.
func (e *Engine) Analyze(ctx context.Context, email string) (*models.CustomerAnalytics, error) {
	defer metrics.RecordEngineOperation("segment", "analyze", time.Now())

	orders, err := e.accessor.OrdersByCustomer(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, history.ErrNotFound
	}

	// Orders arrive in chronological order from the repository.
	totalOrders := len(orders)
	var totalSpent float64
	for _, po := range orders {
		totalSpent += po.Order.Total
	}

	firstOrderAt := orders[0].Order.CreatedAt
	lastOrderAt := orders[totalOrders-1].Order.CreatedAt
	daysSinceLastOrder := int(e.now().Sub(lastOrderAt).Hours() / 24)

	rfm := e.score(daysSinceLastOrder, totalOrders, totalSpent)

	return &models.CustomerAnalytics{
		Email:               email,
		TotalOrders:         totalOrders,
		TotalSpent:          totalSpent,
		AverageOrderValue:   totalSpent / float64(totalOrders),
		LifetimeValue:       totalSpent,
		DaysSinceLastOrder:  daysSinceLastOrder,
		FirstOrderAt:        firstOrderAt,
		LastOrderAt:         lastOrderAt,
		RFM:                 rfm,
		Segment:             e.segment(rfm.Score, daysSinceLastOrder, totalOrders),
		CategoryPreferences: e.categoryPreferences(orders),
		Timeline:            timeline(orders),
	}, nil
}

// score buckets each RFM component into 1-5.
func (e *Engine) score(daysSinceLastOrder, totalOrders int, totalSpent float64) models.RFMScore {
	var recency int
	switch {
	case daysSinceLastOrder > e.policy.RecencyDays1:
		recency = 1
	case daysSinceLastOrder > e.policy.RecencyDays2:
		recency = 2
	case daysSinceLastOrder > e.policy.RecencyDays3:
		recency = 3
	case daysSinceLastOrder > e.policy.RecencyDays4:
		recency = 4
	default:
		recency = 5
	}

	var frequency int
	switch {
	case totalOrders >= e.policy.FrequencyOrders5:
		frequency = 5
	case totalOrders >= e.policy.FrequencyOrders4:
		frequency = 4
	case totalOrders >= e.policy.FrequencyOrders3:
		frequency = 3
	case totalOrders >= e.policy.FrequencyOrders2:
		frequency = 2
	default:
		frequency = 1
	}

	var monetary int
	switch {
	case totalSpent >= e.policy.MonetarySpend5:
		monetary = 5
	case totalSpent >= e.policy.MonetarySpend4:
		monetary = 4
	case totalSpent >= e.policy.MonetarySpend3:
		monetary = 3
	case totalSpent >= e.policy.MonetarySpend2:
		monetary = 2
	default:
		monetary = 1
	}

	return models.RFMScore{
		Recency:   recency,
		Frequency: frequency,
		Monetary:  monetary,
		Score:     recency + frequency + monetary,
	}
}

// segment applies the top-down segment ladder; first match wins. The order
// is load-bearing: a low-RFM customer with long inactivity and repeat
// purchases is At Risk rather than New, but only when no score band already
// matched.
func (e *Engine) segment(score, daysSinceLastOrder, totalOrders int) string {
	switch {
	case score >= e.policy.VIPScore:
		return models.SegmentVIP
	case score >= e.policy.LoyalScore:
		return models.SegmentLoyal
	case score >= e.policy.RegularScore:
		return models.SegmentRegular
	case daysSinceLastOrder > e.policy.AtRiskDays && totalOrders > 1:
		return models.SegmentAtRisk
	default:
		return models.SegmentNew
	}
}

// categoryPreferences accumulates item counts and spend per category across
// all of the customer's orders. Items without a category label fold into one
// Uncategorized bucket.
func (e *Engine) categoryPreferences(orders []history.ParsedOrder) []models.CategoryPreference {
	counts := make(map[string]int)
	spend := make(map[string]float64)
	var encounter []string

	for _, po := range orders {
		for _, item := range po.Items {
			category := item.Category
			if category == "" {
				category = uncategorized
			}
			if _, seen := counts[category]; !seen {
				encounter = append(encounter, category)
			}
			counts[category]++
			spend[category] += float64(item.Quantity) * item.UnitPrice
		}
	}

	prefs := make([]models.CategoryPreference, 0, len(counts))
	for _, category := range encounter {
		prefs = append(prefs, models.CategoryPreference{
			Category:   category,
			Count:      counts[category],
			TotalSpent: round2(spend[category]),
		})
	}
	sort.SliceStable(prefs, func(i, j int) bool { return prefs[i].Count > prefs[j].Count })

	if e.policy.TopCategories > 0 && len(prefs) > e.policy.TopCategories {
		prefs = prefs[:e.policy.TopCategories]
	}
	return prefs
}

// timeline emits one entry per order in chronological order. Item counts are
// recomputed from the parsed items; an unparsable blob counts 0 items.
func timeline(orders []history.ParsedOrder) []models.TimelineEntry {
	entries := make([]models.TimelineEntry, 0, len(orders))
	for _, po := range orders {
		itemCount := 0
		for _, item := range po.Items {
			itemCount += item.Quantity
		}
		entries = append(entries, models.TimelineEntry{
			Date:      po.Order.CreatedAt,
			Total:     round2(po.Order.Total),
			ItemCount: itemCount,
		})
	}
	return entries
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
