// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tomtom215/ordersight/internal/logging"
	"github.com/tomtom215/ordersight/internal/models"
)

// SeedMockData seeds the database with realistic mock data for demos and
// local development. Not intended for production use.
func (db *DB) SeedMockData(ctx context.Context) error {
	logging.Info().Msg("Seeding database with mock data...")

	rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic demo data, not crypto

	const (
		numOrders     = 400
		daysOfHistory = 120
	)

	// Catalog spanning several categories and materials so every
	// recommendation strategy has something to chew on.
	catalog := []struct {
		name     string
		category string
		material string
		price    float64
		stock    int
	}{
		{"Walnut Desk Organizer", "Office", "Walnut", 48.00, 12},
		{"Oak Bookend Pair", "Office", "Oak", 32.50, 40},
		{"Maple Cutting Board", "Kitchen", "Maple", 54.00, 8},
		{"Walnut Serving Tray", "Kitchen", "Walnut", 68.00, 3},
		{"Cherry Salt Cellar", "Kitchen", "Cherry", 24.00, 55},
		{"Oak Coat Rack", "Entryway", "Oak", 89.00, 15},
		{"Walnut Key Holder", "Entryway", "Walnut", 28.00, 22},
		{"Maple Picture Frame", "Decor", "Maple", 36.00, 60},
		{"Cherry Candle Holder", "Decor", "Cherry", 19.50, 48},
		{"Oak Floating Shelf", "Decor", "Oak", 45.00, 6},
		{"Walnut Phone Stand", "Office", "Walnut", 22.00, 30},
		{"Maple Pen Tray", "Office", "Maple", 18.00, 75},
		{"Cherry Spice Rack", "Kitchen", "Cherry", 58.00, 10},
		{"Oak Napkin Holder", "Kitchen", "Oak", 26.00, 44},
		{"Walnut Wall Clock", "Decor", "Walnut", 95.00, 5},
		{"Maple Coaster Set", "Kitchen", "Maple", 21.00, 90},
		{"Cherry Jewelry Box", "Decor", "Cherry", 74.00, 18},
		{"Oak Plant Stand", "Decor", "Oak", 52.00, 2},
		{"Walnut Chess Board", "Games", "Walnut", 120.00, 7},
		{"Maple Domino Set", "Games", "Maple", 34.00, 25},
	}

	customers := []string{
		"alice@example.com", "bob@example.com", "carol@example.com",
		"dave@example.com", "erin@example.com", "frank@example.com",
		"grace@example.com", "heidi@example.com", "ivan@example.com",
		"judy@example.com", "mallory@example.com", "oscar@example.com",
	}

	statuses := []string{"completed", "completed", "completed", "shipped", "processing"}

	// 1. Seed products.
	logging.Info().Int("count", len(catalog)).Msg("Creating mock products...")
	productIDs := make([]string, len(catalog))
	for i, c := range catalog {
		id := uuid.New().String()
		productIDs[i] = id
		p := &models.Product{
			ID:        id,
			Name:      c.name,
			Category:  c.category,
			Material:  c.material,
			Price:     c.price,
			Stock:     c.stock,
			CreatedAt: time.Now().AddDate(0, 0, -daysOfHistory+rng.Intn(daysOfHistory)),
		}
		if err := db.InsertProduct(ctx, p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", c.name, err)
		}
	}
	logging.Info().Int("count", len(catalog)).Msg("Created products")

	// 2. Seed orders with embedded line-item blobs.
	logging.Info().Int("count", numOrders).Msg("Creating mock orders...")
	startDate := time.Now().AddDate(0, 0, -daysOfHistory)

	for i := 0; i < numOrders; i++ {
		dayOffset := rng.Intn(daysOfHistory)
		hourOffset := rng.Intn(24)
		createdAt := startDate.AddDate(0, 0, dayOffset).Add(time.Hour * time.Duration(hourOffset))

		// 1-4 distinct line items per order.
		numItems := 1 + rng.Intn(4)
		seen := make(map[int]bool, numItems)
		items := make([]models.LineItem, 0, numItems)
		var total float64
		for len(items) < numItems {
			idx := rng.Intn(len(catalog))
			if seen[idx] {
				continue
			}
			seen[idx] = true
			qty := 1 + rng.Intn(3)
			items = append(items, models.LineItem{
				ProductID: productIDs[idx],
				Quantity:  qty,
				UnitPrice: catalog[idx].price,
				Category:  catalog[idx].category,
			})
			total += float64(qty) * catalog[idx].price
		}

		blob, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("failed to marshal line items for order %d: %w", i, err)
		}

		order := &models.Order{
			ID:            uuid.New().String(),
			CustomerEmail: customers[rng.Intn(len(customers))],
			ItemsJSON:     string(blob),
			Total:         total,
			Status:        statuses[rng.Intn(len(statuses))],
			CreatedAt:     createdAt,
		}
		if err := db.InsertOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to seed order %d: %w", i, err)
		}
	}
	logging.Info().Int("count", numOrders).Msg("Created orders")

	logging.Info().
		Int("products", len(catalog)).
		Int("orders", numOrders).
		Int("customers", len(customers)).
		Int("days", daysOfHistory).
		Msg("Mock data seeded successfully")

	return nil
}
