// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package segment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/tomtom215/ordersight/internal/config"
	"github.com/tomtom215/ordersight/internal/history"
	"github.com/tomtom215/ordersight/internal/models"
)

// fakeOrderRepo is an in-memory OrderRepository for segmentation tests.
type fakeOrderRepo struct {
	orders []models.Order
	err    error
}

func (f *fakeOrderRepo) FindInRange(_ context.Context, start, end time.Time) ([]models.Order, error) {
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

func (f *fakeOrderRepo) FindByCustomer(_ context.Context, email string, limit int) ([]models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Order
	for _, o := range f.orders {
		if o.CustomerEmail == email {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func testPolicy() config.RFMPolicy {
	return config.RFMPolicy{
		RecencyDays1:     180,
		RecencyDays2:     90,
		RecencyDays3:     60,
		RecencyDays4:     30,
		FrequencyOrders5: 20,
		FrequencyOrders4: 10,
		FrequencyOrders3: 5,
		FrequencyOrders2: 2,
		MonetarySpend5:   1000,
		MonetarySpend4:   500,
		MonetarySpend3:   250,
		MonetarySpend2:   100,
		VIPScore:         13,
		LoyalScore:       10,
		RegularScore:     7,
		AtRiskDays:       90,
		TopCategories:    5,
	}
}

// simpleOrder builds an order with a single-item blob in the given category.
func simpleOrder(email string, total float64, category string, qty int, createdAt time.Time) models.Order {
	categoryField := ""
	if category != "" {
		categoryField = fmt.Sprintf(`,"category":%q`, category)
	}
	return models.Order{
		ID:            fmt.Sprintf("order-%d", createdAt.UnixNano()),
		CustomerEmail: email,
		ItemsJSON:     fmt.Sprintf(`[{"product_id":"p1","quantity":%d,"unit_price":%g%s}]`, qty, total/float64(qty), categoryField),
		Total:         total,
		Status:        "completed",
		CreatedAt:     createdAt,
	}
}

func newTestEngine(repo *fakeOrderRepo, now time.Time) *Engine {
	engine := NewEngine(history.NewAccessor(repo), testPolicy())
	engine.now = func() time.Time { return now }
	return engine
}

func TestAnalyzeNotFound(t *testing.T) {
	engine := newTestEngine(&fakeOrderRepo{}, time.Now())

	_, err := engine.Analyze(context.Background(), "nobody@example.com")
	if !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for customer with no orders, got %v", err)
	}
}

func TestAnalyzeVIP(t *testing.T) {
	now := time.Now()
	repo := &fakeOrderRepo{}
	// 25 orders, $1200 total, most recent yesterday.
	for i := 0; i < 25; i++ {
		repo.orders = append(repo.orders, simpleOrder("vip@example.com", 48, "Kitchen", 1, now.AddDate(0, 0, -i-1)))
	}
	engine := newTestEngine(repo, now)

	analytics, err := engine.Analyze(context.Background(), "vip@example.com")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analytics.RFM.Recency != 5 || analytics.RFM.Frequency != 5 || analytics.RFM.Monetary != 5 {
		t.Errorf("Expected 5/5/5 RFM components, got %d/%d/%d",
			analytics.RFM.Recency, analytics.RFM.Frequency, analytics.RFM.Monetary)
	}
	if analytics.RFM.Score != 15 {
		t.Errorf("Expected score 15, got %d", analytics.RFM.Score)
	}
	if analytics.Segment != models.SegmentVIP {
		t.Errorf("Expected VIP segment, got %s", analytics.Segment)
	}
	if analytics.TotalOrders != 25 {
		t.Errorf("Expected 25 orders, got %d", analytics.TotalOrders)
	}
	if analytics.TotalSpent != 1200 {
		t.Errorf("Expected $1200 spent, got %v", analytics.TotalSpent)
	}
	if analytics.LifetimeValue != analytics.TotalSpent {
		t.Errorf("Lifetime value %v should equal total spent %v", analytics.LifetimeValue, analytics.TotalSpent)
	}
	if analytics.AverageOrderValue != 48 {
		t.Errorf("Expected average order value 48, got %v", analytics.AverageOrderValue)
	}
}

func TestAnalyzeNewCustomer(t *testing.T) {
	now := time.Now()
	repo := &fakeOrderRepo{orders: []models.Order{
		simpleOrder("new@example.com", 50, "Decor", 1, now.AddDate(0, 0, -200)),
	}}
	engine := newTestEngine(repo, now)

	analytics, err := engine.Analyze(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analytics.RFM.Recency != 1 || analytics.RFM.Frequency != 1 || analytics.RFM.Monetary != 1 {
		t.Errorf("Expected 1/1/1 RFM components, got %d/%d/%d",
			analytics.RFM.Recency, analytics.RFM.Frequency, analytics.RFM.Monetary)
	}
	if analytics.RFM.Score != 3 {
		t.Errorf("Expected score 3, got %d", analytics.RFM.Score)
	}
	// A single order never qualifies as At Risk regardless of inactivity.
	if analytics.Segment != models.SegmentNew {
		t.Errorf("Expected New segment, got %s", analytics.Segment)
	}
}

func TestAnalyzeAtRisk(t *testing.T) {
	now := time.Now()
	repo := &fakeOrderRepo{orders: []models.Order{
		simpleOrder("gone@example.com", 25, "Decor", 1, now.AddDate(0, 0, -250)),
		simpleOrder("gone@example.com", 25, "Decor", 1, now.AddDate(0, 0, -200)),
	}}
	engine := newTestEngine(repo, now)

	analytics, err := engine.Analyze(context.Background(), "gone@example.com")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// recency 1, frequency 2, monetary 1: score 4, below every score band,
	// but repeat purchases plus long inactivity marks At Risk.
	if analytics.RFM.Score != 4 {
		t.Errorf("Expected score 4, got %d", analytics.RFM.Score)
	}
	if analytics.Segment != models.SegmentAtRisk {
		t.Errorf("Expected At Risk segment, got %s", analytics.Segment)
	}
}

func TestSegmentLadderPrecedence(t *testing.T) {
	// Long-inactive repeat customer whose spend still clears a score band:
	// the score band wins over the At-Risk override.
	now := time.Now()
	repo := &fakeOrderRepo{orders: []models.Order{
		simpleOrder("big@example.com", 600, "Decor", 1, now.AddDate(0, 0, -250)),
		simpleOrder("big@example.com", 600, "Decor", 1, now.AddDate(0, 0, -200)),
	}}
	engine := newTestEngine(repo, now)

	analytics, err := engine.Analyze(context.Background(), "big@example.com")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// recency 1, frequency 2, monetary 5: score 8 lands in Regular even
	// though the At-Risk conditions also hold.
	if analytics.RFM.Score != 8 {
		t.Errorf("Expected score 8, got %d", analytics.RFM.Score)
	}
	if analytics.Segment != models.SegmentRegular {
		t.Errorf("Expected Regular segment, got %s", analytics.Segment)
	}
}

func TestRecencyBoundaries(t *testing.T) {
	engine := newTestEngine(&fakeOrderRepo{}, time.Now())

	tests := []struct {
		days int
		want int
	}{
		{200, 1},
		{181, 1},
		{180, 2},
		{91, 2},
		{90, 3},
		{61, 3},
		{60, 4},
		{31, 4},
		{30, 5},
		{0, 5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d days", tt.days), func(t *testing.T) {
			got := engine.score(tt.days, 1, 0)
			if got.Recency != tt.want {
				t.Errorf("recency(%d days) = %d, want %d", tt.days, got.Recency, tt.want)
			}
		})
	}
}

func TestFrequencyAndMonetaryBoundaries(t *testing.T) {
	engine := newTestEngine(&fakeOrderRepo{}, time.Now())

	frequencyTests := []struct {
		orders int
		want   int
	}{
		{25, 5}, {20, 5}, {19, 4}, {10, 4}, {9, 3}, {5, 3}, {4, 2}, {2, 2}, {1, 1},
	}
	for _, tt := range frequencyTests {
		if got := engine.score(0, tt.orders, 0); got.Frequency != tt.want {
			t.Errorf("frequency(%d orders) = %d, want %d", tt.orders, got.Frequency, tt.want)
		}
	}

	monetaryTests := []struct {
		spent float64
		want  int
	}{
		{1500, 5}, {1000, 5}, {999, 4}, {500, 4}, {499, 3}, {250, 3}, {249, 2}, {100, 2}, {99, 1},
	}
	for _, tt := range monetaryTests {
		if got := engine.score(0, 1, tt.spent); got.Monetary != tt.want {
			t.Errorf("monetary(%v spent) = %d, want %d", tt.spent, got.Monetary, tt.want)
		}
	}
}

func TestCategoryPreferences(t *testing.T) {
	now := time.Now()
	repo := &fakeOrderRepo{orders: []models.Order{
		{
			ID:            "o1",
			CustomerEmail: "shopper@example.com",
			ItemsJSON: `[
				{"product_id":"p1","quantity":2,"unit_price":10.333,"category":"Kitchen"},
				{"product_id":"p2","quantity":1,"unit_price":5,"category":"Kitchen"},
				{"product_id":"p3","quantity":1,"unit_price":7.5},
				{"product_id":"p4","quantity":1,"unit_price":3}
			]`,
			Total:     36.17,
			Status:    "completed",
			CreatedAt: now.AddDate(0, 0, -10),
		},
		{
			ID:            "o2",
			CustomerEmail: "shopper@example.com",
			ItemsJSON:     `[{"product_id":"p5","quantity":1,"unit_price":12,"category":"Decor"}]`,
			Total:         12,
			Status:        "completed",
			CreatedAt:     now.AddDate(0, 0, -5),
		},
	}}
	engine := newTestEngine(repo, now)

	analytics, err := engine.Analyze(context.Background(), "shopper@example.com")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	prefs := analytics.CategoryPreferences
	if len(prefs) != 3 {
		t.Fatalf("Expected 3 category preferences, got %d", len(prefs))
	}

	// Kitchen: 2 items. Uncategorized: the two unlabeled items fold into one
	// bucket. Decor: 1 item.
	if prefs[0].Category != "Kitchen" || prefs[0].Count != 2 {
		t.Errorf("Expected Kitchen x2 first, got %s x%d", prefs[0].Category, prefs[0].Count)
	}
	if prefs[1].Category != "Uncategorized" || prefs[1].Count != 2 {
		t.Errorf("Expected Uncategorized x2 second, got %s x%d", prefs[1].Category, prefs[1].Count)
	}
	if prefs[2].Category != "Decor" || prefs[2].Count != 1 {
		t.Errorf("Expected Decor x1 last, got %s x%d", prefs[2].Category, prefs[2].Count)
	}

	// Spend rounds to 2 decimal places: 2 x 10.333 + 1 x 5 = 25.666 -> 25.67.
	if prefs[0].TotalSpent != 25.67 {
		t.Errorf("Expected Kitchen spend 25.67, got %v", prefs[0].TotalSpent)
	}
}

func TestCategoryPreferencesTopFive(t *testing.T) {
	now := time.Now()
	repo := &fakeOrderRepo{}
	for i := 0; i < 8; i++ {
		category := fmt.Sprintf("Category%d", i)
		// Category0 gets 8 items, Category7 gets 1.
		for j := 0; j < 8-i; j++ {
			repo.orders = append(repo.orders,
				simpleOrder("many@example.com", 10, category, 1, now.AddDate(0, 0, -i*10-j-1)))
		}
	}
	engine := newTestEngine(repo, now)

	analytics, err := engine.Analyze(context.Background(), "many@example.com")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	prefs := analytics.CategoryPreferences
	if len(prefs) != 5 {
		t.Fatalf("Expected top-5 truncation, got %d preferences", len(prefs))
	}
	for i := 1; i < len(prefs); i++ {
		if prefs[i].Count > prefs[i-1].Count {
			t.Errorf("Preferences not sorted by count at index %d", i)
		}
	}
}

func TestTimeline(t *testing.T) {
	now := time.Now()
	repo := &fakeOrderRepo{orders: []models.Order{
		simpleOrder("timeline@example.com", 30, "Kitchen", 3, now.AddDate(0, 0, -20)),
		{
			ID:            "broken",
			CustomerEmail: "timeline@example.com",
			ItemsJSON:     `[{"quantity":`,
			Total:         10.005,
			Status:        "completed",
			CreatedAt:     now.AddDate(0, 0, -10),
		},
		simpleOrder("timeline@example.com", 20, "Kitchen", 2, now.AddDate(0, 0, -5)),
	}}
	engine := newTestEngine(repo, now)

	analytics, err := engine.Analyze(context.Background(), "timeline@example.com")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	timeline := analytics.Timeline
	if len(timeline) != 3 {
		t.Fatalf("Expected 3 timeline entries, got %d", len(timeline))
	}

	// Chronological order.
	for i := 1; i < len(timeline); i++ {
		if timeline[i].Date.Before(timeline[i-1].Date) {
			t.Errorf("Timeline not chronological at index %d", i)
		}
	}

	// Item counts recomputed from parsed items; the unparsable order counts
	// zero items but still appears with its rounded total.
	if timeline[0].ItemCount != 3 {
		t.Errorf("Expected 3 items in first entry, got %d", timeline[0].ItemCount)
	}
	if timeline[1].ItemCount != 0 {
		t.Errorf("Expected 0 items for unparsable order, got %d", timeline[1].ItemCount)
	}
	if timeline[1].Total != 10.01 {
		t.Errorf("Expected rounded total 10.01, got %v", timeline[1].Total)
	}
	if timeline[2].ItemCount != 2 {
		t.Errorf("Expected 2 items in last entry, got %d", timeline[2].ItemCount)
	}

	// The malformed order still counts toward order-level aggregates.
	if analytics.TotalOrders != 3 {
		t.Errorf("Expected 3 total orders, got %d", analytics.TotalOrders)
	}
}

func TestAnalyzeRepositoryFailure(t *testing.T) {
	repoErr := errors.New("store unreachable")
	engine := newTestEngine(&fakeOrderRepo{err: repoErr}, time.Now())

	if _, err := engine.Analyze(context.Background(), "a@example.com"); !errors.Is(err, repoErr) {
		t.Errorf("Expected repository failure to propagate, got %v", err)
	}
}
