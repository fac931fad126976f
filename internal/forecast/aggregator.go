// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package forecast

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/ordersight/internal/config"
	"github.com/tomtom215/ordersight/internal/history"
	"github.com/tomtom215/ordersight/internal/metrics"
	"github.com/tomtom215/ordersight/internal/models"
)

// Aggregator bulk-runs the Calculator over at-risk catalog candidates and
// produces fleet-level views.
type Aggregator struct {
	calculator *Calculator
	products   history.ProductRepository
	policy     config.ForecastPolicy
}

// NewAggregator creates an Aggregator over the given calculator.
func NewAggregator(calculator *Calculator, products history.ProductRepository, policy config.ForecastPolicy) *Aggregator {
	return &Aggregator{
		calculator: calculator,
		products:   products,
		policy:     policy,
	}
}

// ScanFleet forecasts every scan candidate, filters by risk level, sorts by
// urgency, and truncates to limit. An empty riskFilter keeps all levels;
// limit <= 0 keeps everything.
//
// Sort contract: primary key is risk rank (critical before high before
// medium before low), secondary key is ascending days until stockout. Ties
// break by stockout proximity, never by name or id.
func (a *Aggregator) ScanFleet(ctx context.Context, riskFilter []models.RiskLevel, limit int) ([]models.ForecastResult, error) {
	defer metrics.RecordEngineOperation("forecast", "scan_fleet", time.Now())

	results, err := a.forecastCandidates(ctx)
	if err != nil {
		return nil, err
	}

	if len(riskFilter) > 0 {
		wanted := make(map[models.RiskLevel]bool, len(riskFilter))
		for _, level := range riskFilter {
			wanted[level] = true
		}
		filtered := results[:0]
		for _, r := range results {
			if wanted[r.RiskLevel] {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RiskLevel.Rank() != results[j].RiskLevel.Rank() {
			return results[i].RiskLevel.Rank() < results[j].RiskLevel.Rank()
		}
		return results[i].DaysUntilStockout < results[j].DaysUntilStockout
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// FleetSummary aggregates forecast risk counts across all scan candidates.
func (a *Aggregator) FleetSummary(ctx context.Context) (*models.FleetSummary, error) {
	defer metrics.RecordEngineOperation("forecast", "fleet_summary", time.Now())

	results, err := a.forecastCandidates(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.FleetSummary{Total: len(results)}
	var daysSum, daysCount int
	for _, r := range results {
		switch r.RiskLevel {
		case models.RiskCritical:
			summary.Critical++
		case models.RiskHigh:
			summary.High++
		case models.RiskMedium:
			summary.Medium++
		case models.RiskLow:
			summary.Low++
		}
		if r.CurrentStock <= r.RecommendedReorderPoint {
			summary.NeedsReorder++
		}
		// Exclude the sentinel and true long-tail values so they do not
		// skew the mean toward products that are not actually at risk.
		if r.DaysUntilStockout < a.policy.SummaryExcludeDays {
			daysSum += r.DaysUntilStockout
			daysCount++
		}
	}
	if daysCount > 0 {
		summary.AverageDaysToStockout = float64(daysSum) / float64(daysCount)
	}
	return summary, nil
}

// forecastCandidates forecasts every product at or below the candidate stock
// cutoff. Products that disappear mid-scan are skipped.
func (a *Aggregator) forecastCandidates(ctx context.Context) ([]models.ForecastResult, error) {
	candidates, err := a.products.ListCandidates(ctx, a.policy.CandidateMaxStock)
	if err != nil {
		return nil, fmt.Errorf("failed to list fleet candidates: %w", err)
	}

	results := make([]models.ForecastResult, 0, len(candidates))
	for _, candidate := range candidates {
		result, err := a.calculator.Forecast(ctx, candidate.ID, 0)
		if err != nil {
			if errors.Is(err, history.ErrNotFound) {
				// Disappeared between listing and forecasting.
				continue
			}
			return nil, err
		}
		results = append(results, *result)
	}
	return results, nil
}
