// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

// Package recommend implements four product recommendation strategies over
// raw order history: co-purchase, category-affinity, trending, and
// personalized. All strategies share one frequency-ranking primitive and a
// defined fallback chain. An unknown seed product or customer yields an
// empty list, never an error.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/ordersight/internal/config"
	"github.com/tomtom215/ordersight/internal/history"
	"github.com/tomtom215/ordersight/internal/metrics"
	"github.com/tomtom215/ordersight/internal/models"
)

// Strategy names reported in results. A fired fallback reports the strategy
// that actually answered.
const (
	StrategyCoPurchase       = "co-purchase"
	StrategyBoughtTogether   = "frequently-bought-together"
	StrategyCategoryAffinity = "category-affinity"
	StrategyTrending         = "trending"
	StrategyNewest           = "newest"
	StrategyPersonalized     = "personalized"
)

// Engine computes product recommendations. It is stateless; every call
// re-scans order history, and concurrent calls are fully independent.
type Engine struct {
	accessor *history.Accessor
	products history.ProductRepository
	policy   config.RecommendPolicy

	// now is injected for tests; defaults to time.Now.
	now func() time.Time
}

// NewEngine creates a recommendation engine with the given policy.
func NewEngine(accessor *history.Accessor, products history.ProductRepository, policy config.RecommendPolicy) *Engine {
	return &Engine{
		accessor: accessor,
		products: products,
		policy:   policy,
		now:      time.Now,
	}
}

// CoPurchase recommends products frequently bought in the same orders as the
// seed product. When no co-occurrence exists in history, it falls back to
// CategoryAffinity for the same seed; the fallback is mandatory, not
// best-effort.
func (e *Engine) CoPurchase(ctx context.Context, productID string, limit int) (*models.RecommendationResult, error) {
	if limit <= 0 {
		limit = e.policy.DefaultLimit
	}
	return e.coPurchase(ctx, StrategyCoPurchase, productID, limit)
}

// BoughtTogether is an alias of CoPurchase with a smaller default limit.
// Same algorithm, different default.
func (e *Engine) BoughtTogether(ctx context.Context, productID string, limit int) (*models.RecommendationResult, error) {
	if limit <= 0 {
		limit = e.policy.BoughtTogetherLimit
	}
	return e.coPurchase(ctx, StrategyBoughtTogether, productID, limit)
}

func (e *Engine) coPurchase(ctx context.Context, strategy, productID string, limit int) (*models.RecommendationResult, error) {
	defer metrics.RecordEngineOperation("recommend", strategy, time.Now())

	orders, err := e.accessor.OrdersInRange(ctx, time.Time{}, e.now())
	if err != nil {
		return nil, err
	}

	// Structural parse-then-match. Matching the serialized blob by substring
	// would false-positive whenever one product id is a textual substring of
	// another.
	counter := newFrequencyCounter()
	for _, po := range orders {
		if !containsProduct(po.Items, productID) {
			continue
		}
		for _, item := range po.Items {
			if item.ProductID != productID {
				counter.Add(item.ProductID, 1)
			}
		}
	}

	if counter.Len() == 0 {
		return e.categoryAffinity(ctx, productID, limit)
	}

	products, err := e.resolveRanked(ctx, counter.Top(limit))
	if err != nil {
		return nil, err
	}
	return &models.RecommendationResult{Strategy: strategy, Products: products}, nil
}

// CategoryAffinity recommends in-stock products sharing the seed product's
// category or material, newest first. An unknown seed yields an empty list.
func (e *Engine) CategoryAffinity(ctx context.Context, productID string, limit int) (*models.RecommendationResult, error) {
	defer metrics.RecordEngineOperation("recommend", StrategyCategoryAffinity, time.Now())

	if limit <= 0 {
		limit = e.policy.DefaultLimit
	}
	return e.categoryAffinity(ctx, productID, limit)
}

func (e *Engine) categoryAffinity(ctx context.Context, productID string, limit int) (*models.RecommendationResult, error) {
	result := &models.RecommendationResult{Strategy: StrategyCategoryAffinity, Products: []models.Product{}}

	seed, err := e.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up seed product: %w", err)
	}
	if seed == nil {
		return result, nil
	}

	matches, err := e.products.FindByAttribute(ctx, seed.Category, seed.Material, true)
	if err != nil {
		return nil, fmt.Errorf("failed to find related products: %w", err)
	}
	for _, p := range matches {
		if p.ID == seed.ID {
			continue
		}
		result.Products = append(result.Products, p)
		if len(result.Products) == limit {
			break
		}
	}
	return result, nil
}

// Trending recommends the best-selling in-stock products of the trailing
// sales window. With no sales in the window, it falls back to the newest
// in-stock products.
func (e *Engine) Trending(ctx context.Context, limit int) (*models.RecommendationResult, error) {
	defer metrics.RecordEngineOperation("recommend", StrategyTrending, time.Now())

	if limit <= 0 {
		limit = e.policy.DefaultLimit
	}

	now := e.now()
	orders, err := e.accessor.OrdersInRange(ctx, now.AddDate(0, 0, -e.policy.TrendingWindowDays), now)
	if err != nil {
		return nil, err
	}

	counter := newFrequencyCounter()
	for _, po := range orders {
		for _, item := range po.Items {
			counter.Add(item.ProductID, item.Quantity)
		}
	}

	if counter.Len() == 0 {
		newest, err := e.products.ListNewest(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list newest products: %w", err)
		}
		if newest == nil {
			newest = []models.Product{}
		}
		return &models.RecommendationResult{Strategy: StrategyNewest, Products: newest}, nil
	}

	products, err := e.resolveRanked(ctx, counter.Top(limit))
	if err != nil {
		return nil, err
	}
	return &models.RecommendationResult{Strategy: StrategyTrending, Products: products}, nil
}

// Personalized recommends in-stock products matching the customer's dominant
// category and material preferences, derived from their most recent orders,
// excluding everything they already bought. An unknown customer yields an
// empty list.
func (e *Engine) Personalized(ctx context.Context, email string, limit int) (*models.RecommendationResult, error) {
	defer metrics.RecordEngineOperation("recommend", StrategyPersonalized, time.Now())

	if limit <= 0 {
		limit = e.policy.DefaultLimit
	}
	result := &models.RecommendationResult{Strategy: StrategyPersonalized, Products: []models.Product{}}

	orders, err := e.accessor.OrdersByCustomer(ctx, email, e.policy.PersonalizedOrderCount)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return result, nil
	}

	// Purchased product ids, in encounter order for the batch lookup.
	purchased := make(map[string]bool)
	var purchasedIDs []string
	for _, po := range orders {
		for _, item := range po.Items {
			if !purchased[item.ProductID] {
				purchased[item.ProductID] = true
				purchasedIDs = append(purchasedIDs, item.ProductID)
			}
		}
	}
	if len(purchasedIDs) == 0 {
		return result, nil
	}

	// One batch lookup resolves every distinct purchased product, then each
	// line item votes for its product's category and material.
	resolved, err := e.products.FindByIDs(ctx, purchasedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve purchased products: %w", err)
	}
	byID := make(map[string]models.Product, len(resolved))
	for _, p := range resolved {
		byID[p.ID] = p
	}

	categories := newFrequencyCounter()
	materials := newFrequencyCounter()
	for _, po := range orders {
		for _, item := range po.Items {
			p, ok := byID[item.ProductID]
			if !ok {
				continue
			}
			if p.Category != "" {
				categories.Add(p.Category, 1)
			}
			if p.Material != "" {
				materials.Add(p.Material, 1)
			}
		}
	}

	topCategory := categories.Max()
	topMaterial := materials.Max()
	if topCategory == "" && topMaterial == "" {
		return result, nil
	}

	matches, err := e.products.FindByAttribute(ctx, topCategory, topMaterial, true)
	if err != nil {
		return nil, fmt.Errorf("failed to find preferred products: %w", err)
	}
	for _, p := range matches {
		if purchased[p.ID] {
			continue
		}
		result.Products = append(result.Products, p)
		if len(result.Products) == limit {
			break
		}
	}
	return result, nil
}

// resolveRanked fetches the ranked product ids in one batch and returns the
// in-stock matches in ranking order.
func (e *Engine) resolveRanked(ctx context.Context, rankedIDs []string) ([]models.Product, error) {
	products := []models.Product{}
	if len(rankedIDs) == 0 {
		return products, nil
	}

	resolved, err := e.products.FindByIDs(ctx, rankedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ranked products: %w", err)
	}
	byID := make(map[string]models.Product, len(resolved))
	for _, p := range resolved {
		byID[p.ID] = p
	}
	for _, id := range rankedIDs {
		if p, ok := byID[id]; ok && p.InStock() {
			products = append(products, p)
		}
	}
	return products, nil
}

// containsProduct reports whether productID appears among the parsed items.
func containsProduct(items []models.LineItem, productID string) bool {
	for _, item := range items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
