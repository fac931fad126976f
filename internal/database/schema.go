// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package database

import (
	"context"
	"fmt"
	"time"
)

// createTables creates the orders and products tables.
//
// Orders mirror the checkout pipeline's committed records. Line items stay
// denormalized in the items column exactly as checkout serialized them;
// there is no analytical index, every query re-scans and re-parses.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id VARCHAR PRIMARY KEY,
			customer_email VARCHAR NOT NULL,
			items VARCHAR NOT NULL,
			total DOUBLE NOT NULL,
			status VARCHAR NOT NULL DEFAULT 'completed',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			category VARCHAR,
			material VARCHAR,
			price DOUBLE NOT NULL,
			stock INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// createIndexes creates indexes for the scan-heavy access paths:
// date-range scans, per-customer lookups, and fleet candidate listing.
func (db *DB) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_email)`,
		`CREATE INDEX IF NOT EXISTS idx_products_stock ON products(stock)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
	}

	for _, idx := range indexes {
		if _, err := db.conn.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
