// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package forecast

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tomtom215/ordersight/internal/config"
	"github.com/tomtom215/ordersight/internal/history"
	"github.com/tomtom215/ordersight/internal/models"
)

// fakeStore is an in-memory order and product store for engine tests.
type fakeStore struct {
	orders   []models.Order
	products map[string]models.Product
	err      error
}

func (f *fakeStore) FindInRange(_ context.Context, start, end time.Time) ([]models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Order
	for _, o := range f.orders {
		if !o.CreatedAt.Before(start) && !o.CreatedAt.After(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByCustomer(_ context.Context, email string, limit int) ([]models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Order
	for _, o := range f.orders {
		if o.CustomerEmail == email {
			out = append(out, o)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) FindByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByAttribute(_ context.Context, category, material string, inStockOnly bool) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, p := range f.products {
		if (category != "" && p.Category == category) || (material != "" && p.Material == material) {
			if inStockOnly && p.Stock <= 0 {
				continue
			}
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCandidates(_ context.Context, maxStock int) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, p := range f.products {
		if p.Stock <= maxStock {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListNewest(_ context.Context, limit int) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, p := range f.products {
		if p.Stock > 0 {
			out = append(out, p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func testPolicy() config.ForecastPolicy {
	return config.ForecastPolicy{
		DefaultWindowDays:     30,
		LeadTimeDays:          7,
		SafetyStockDays:       7,
		StockoutSentinelDays:  999,
		OrderHorizonDays:      30,
		IncreasingHorizonDays: 60,
		TrendUpPct:            20,
		TrendDownPct:          20,
		CriticalDays:          3,
		HighDays:              7,
		MediumDays:            14,
		CandidateMaxStock:     50,
		SummaryExcludeDays:    365,
	}
}

// singleItemOrder builds an order holding one line item of the given product.
func singleItemOrder(productID string, qty int, createdAt time.Time) models.Order {
	return models.Order{
		ID:            fmt.Sprintf("order-%s-%d", createdAt.Format("20060102"), qty),
		CustomerEmail: "buyer@example.com",
		ItemsJSON:     fmt.Sprintf(`[{"product_id":%q,"quantity":%d,"unit_price":10}]`, productID, qty),
		Total:         float64(qty) * 10,
		Status:        "completed",
		CreatedAt:     createdAt,
	}
}

func newTestCalculator(store *fakeStore, now time.Time) *Calculator {
	calc := NewCalculator(history.NewAccessor(store), store, testPolicy())
	calc.now = func() time.Time { return now }
	return calc
}

func TestForecastNotFound(t *testing.T) {
	store := &fakeStore{products: map[string]models.Product{}}
	calc := newTestCalculator(store, time.Now())

	_, err := calc.Forecast(context.Background(), "missing", 30)
	if !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestForecastZeroStock(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		products: map[string]models.Product{
			"p1": {ID: "p1", Name: "Sold Out", Stock: 0},
		},
		// Strong sales history must not matter: zero stock is already out.
		orders: []models.Order{
			singleItemOrder("p1", 20, now.AddDate(0, 0, -2)),
		},
	}
	calc := newTestCalculator(store, now)

	result, err := calc.Forecast(context.Background(), "p1", 30)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.DaysUntilStockout != 0 {
		t.Errorf("Expected 0 days until stockout, got %d", result.DaysUntilStockout)
	}
	if result.RiskLevel != models.RiskCritical {
		t.Errorf("Expected critical risk, got %s", result.RiskLevel)
	}
}

func TestForecastNoSales(t *testing.T) {
	store := &fakeStore{
		products: map[string]models.Product{
			"p1": {ID: "p1", Name: "Slow Mover", Stock: 40},
		},
	}
	calc := newTestCalculator(store, time.Now())

	result, err := calc.Forecast(context.Background(), "p1", 30)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.AverageDailySales != 0 {
		t.Errorf("Expected 0 average daily sales, got %v", result.AverageDailySales)
	}
	if result.DaysUntilStockout != 999 {
		t.Errorf("Expected sentinel 999, got %d", result.DaysUntilStockout)
	}
	if result.RiskLevel != models.RiskLow {
		t.Errorf("Expected low risk, got %s", result.RiskLevel)
	}
	if result.Trend != models.TrendStable {
		t.Errorf("Expected stable trend, got %s", result.Trend)
	}
}

func TestForecastComputation(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		products: map[string]models.Product{
			"p1": {ID: "p1", Name: "Steady Seller", Stock: 10},
		},
	}
	// 30 units spread evenly across the 30-day window: 1/day.
	for i := 1; i <= 30; i++ {
		store.orders = append(store.orders, singleItemOrder("p1", 1, now.AddDate(0, 0, -i+1).Add(-time.Hour)))
	}
	calc := newTestCalculator(store, now)

	result, err := calc.Forecast(context.Background(), "p1", 30)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.AverageDailySales != 1.0 {
		t.Errorf("Expected 1.0 average daily sales, got %v", result.AverageDailySales)
	}
	if result.DaysUntilStockout != 10 {
		t.Errorf("Expected 10 days until stockout, got %d", result.DaysUntilStockout)
	}
	if result.RiskLevel != models.RiskMedium {
		t.Errorf("Expected medium risk, got %s", result.RiskLevel)
	}
	if result.RecommendedReorderPoint != 14 {
		t.Errorf("Expected reorder point 14, got %d", result.RecommendedReorderPoint)
	}
	if result.SuggestedOrderQuantity != 30 {
		t.Errorf("Expected suggested quantity 30, got %d", result.SuggestedOrderQuantity)
	}
}

func TestForecastDefaultWindow(t *testing.T) {
	store := &fakeStore{
		products: map[string]models.Product{
			"p1": {ID: "p1", Name: "Widget", Stock: 5},
		},
	}
	calc := newTestCalculator(store, time.Now())

	// windowDays <= 0 falls back to the configured default.
	result, err := calc.Forecast(context.Background(), "p1", 0)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.DaysUntilStockout != 999 {
		t.Errorf("Expected sentinel with no sales, got %d", result.DaysUntilStockout)
	}
}

func TestRiskBoundaries(t *testing.T) {
	calc := newTestCalculator(&fakeStore{}, time.Now())

	tests := []struct {
		days int
		want models.RiskLevel
	}{
		{0, models.RiskCritical},
		{3, models.RiskCritical},
		{4, models.RiskHigh},
		{7, models.RiskHigh},
		{8, models.RiskMedium},
		{14, models.RiskMedium},
		{15, models.RiskLow},
		{999, models.RiskLow},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d days", tt.days), func(t *testing.T) {
			if got := calc.riskLevel(tt.days); got != tt.want {
				t.Errorf("riskLevel(%d) = %s, want %s", tt.days, got, tt.want)
			}
		})
	}
}

func TestTrendClassification(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		firstHalf  int // units sold in days [-30, -15)
		secondHalf int // units sold in days [-15, now]
		want       models.Trend
	}{
		{"increasing demand", 5, 10, models.TrendIncreasing},
		{"decreasing demand", 10, 5, models.TrendDecreasing},
		{"flat demand", 10, 10, models.TrendStable},
		{"within thresholds", 10, 11, models.TrendStable},
		{"no early sales classifies stable", 0, 10, models.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{
				products: map[string]models.Product{
					"p1": {ID: "p1", Name: "Widget", Stock: 100},
				},
			}
			if tt.firstHalf > 0 {
				store.orders = append(store.orders, singleItemOrder("p1", tt.firstHalf, now.AddDate(0, 0, -20)))
			}
			if tt.secondHalf > 0 {
				store.orders = append(store.orders, singleItemOrder("p1", tt.secondHalf, now.AddDate(0, 0, -5)))
			}
			calc := newTestCalculator(store, now)

			result, err := calc.Forecast(context.Background(), "p1", 30)
			if err != nil {
				t.Fatalf("Forecast failed: %v", err)
			}
			if result.Trend != tt.want {
				t.Errorf("Expected trend %s, got %s", tt.want, result.Trend)
			}
		})
	}
}

func TestForecastIncreasingHorizon(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		products: map[string]models.Product{
			"p1": {ID: "p1", Name: "Hot Item", Stock: 100},
		},
		orders: []models.Order{
			singleItemOrder("p1", 5, now.AddDate(0, 0, -20)),
			singleItemOrder("p1", 25, now.AddDate(0, 0, -5)),
		},
	}
	calc := newTestCalculator(store, now)

	result, err := calc.Forecast(context.Background(), "p1", 30)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.Trend != models.TrendIncreasing {
		t.Fatalf("Expected increasing trend, got %s", result.Trend)
	}
	// 30 units / 30 days = 1/day; increasing trend uses the 60-day horizon.
	if result.SuggestedOrderQuantity != 60 {
		t.Errorf("Expected suggested quantity 60, got %d", result.SuggestedOrderQuantity)
	}
}

func TestForecastSkipsMalformedOrders(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		products: map[string]models.Product{
			"p1": {ID: "p1", Name: "Widget", Stock: 30},
		},
		orders: []models.Order{
			singleItemOrder("p1", 15, now.AddDate(0, 0, -10)),
			{
				ID:            "broken",
				CustomerEmail: "buyer@example.com",
				ItemsJSON:     `[{"product_id":"p1","quantity":`,
				Total:         10,
				Status:        "completed",
				CreatedAt:     now.AddDate(0, 0, -5),
			},
			singleItemOrder("p1", 15, now.AddDate(0, 0, -2)),
		},
	}
	calc := newTestCalculator(store, now)

	result, err := calc.Forecast(context.Background(), "p1", 30)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	// 30 good units over 30 days; the malformed order contributes nothing.
	if result.AverageDailySales != 1.0 {
		t.Errorf("Expected 1.0 average daily sales from good orders, got %v", result.AverageDailySales)
	}
}

func TestForecastRepositoryFailure(t *testing.T) {
	repoErr := errors.New("store unreachable")
	store := &fakeStore{err: repoErr}
	calc := newTestCalculator(store, time.Now())

	if _, err := calc.Forecast(context.Background(), "p1", 30); !errors.Is(err, repoErr) {
		t.Errorf("Expected repository failure to propagate, got %v", err)
	}
}

func TestForecastIdempotent(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		products: map[string]models.Product{
			"p1": {ID: "p1", Name: "Widget", Stock: 12},
		},
		orders: []models.Order{
			singleItemOrder("p1", 6, now.AddDate(0, 0, -20)),
			singleItemOrder("p1", 6, now.AddDate(0, 0, -4)),
		},
	}
	calc := newTestCalculator(store, now)

	first, err := calc.Forecast(context.Background(), "p1", 30)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	second, err := calc.Forecast(context.Background(), "p1", 30)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if *first != *second {
		t.Errorf("Expected identical results over unchanged data:\n%+v\n%+v", first, second)
	}
}
