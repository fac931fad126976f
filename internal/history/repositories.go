// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package history

import (
	"context"
	"time"

	"github.com/tomtom215/ordersight/internal/models"
)

// OrderRepository is the read-only view of the order log that the analytics
// engines consume. Satisfied by database.DB and database.BreakerStore.
//
// The log may be concurrently appended to by the checkout pipeline while the
// engines read. Stale-by-seconds reads are acceptable; the engines need only
// a consistent-enough snapshot for the duration of one call.
type OrderRepository interface {
	// FindInRange returns orders created within [start, end], oldest first.
	FindInRange(ctx context.Context, start, end time.Time) ([]models.Order, error)

	// FindByCustomer returns a customer's orders in chronological order.
	// A positive limit keeps only the most recent limit orders.
	FindByCustomer(ctx context.Context, email string, limit int) ([]models.Order, error)
}

// ProductRepository is the read-only view of the product catalog.
// Satisfied by database.DB and database.BreakerStore.
type ProductRepository interface {
	// Get returns a product by id, or nil when it does not exist.
	Get(ctx context.Context, id string) (*models.Product, error)

	// FindByIDs returns the products matching the given ids; unknown ids
	// are absent from the result.
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)

	// FindByAttribute returns products sharing the given category or
	// material, newest first.
	FindByAttribute(ctx context.Context, category, material string, inStockOnly bool) ([]models.Product, error)

	// ListCandidates returns products with stock at or below maxStock.
	ListCandidates(ctx context.Context, maxStock int) ([]models.Product, error)

	// ListNewest returns the newest in-stock products, up to limit.
	ListNewest(ctx context.Context, limit int) ([]models.Product, error)
}
