// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/ordersight/internal/metrics"
	"github.com/tomtom215/ordersight/internal/models"
)

// FindInRange returns all orders created within [start, end], ascending by
// creation time. The items blob comes back exactly as checkout stored it;
// parsing is the caller's concern.
func (db *DB) FindInRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	const query = `
	SELECT id, customer_email, items, total, status, created_at
	FROM orders
	WHERE created_at >= ? AND created_at <= ?
	ORDER BY created_at ASC`

	queryStart := time.Now()
	stmt, err := db.getStmt(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, start, end)
	metrics.RecordDBQuery("find_in_range", "orders", queryStart, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders in range: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// FindByCustomer returns a customer's orders in ascending chronological
// order. When limit > 0, only the customer's most recent `limit` orders are
// returned (still oldest first within that window).
func (db *DB) FindByCustomer(ctx context.Context, email string, limit int) ([]models.Order, error) {
	query := `
	SELECT id, customer_email, items, total, status, created_at
	FROM orders
	WHERE customer_email = ?
	ORDER BY created_at ASC`
	args := []interface{}{email}

	if limit > 0 {
		// Select the most recent N, then restore chronological order.
		query = `
	SELECT id, customer_email, items, total, status, created_at
	FROM (
		SELECT id, customer_email, items, total, status, created_at
		FROM orders
		WHERE customer_email = ?
		ORDER BY created_at DESC
		LIMIT ?
	)
	ORDER BY created_at ASC`
		args = append(args, limit)
	}

	queryStart := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("find_by_customer", "orders", queryStart, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for customer: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// InsertOrder stores one order record. Used by ingestion and seeding only;
// the analytics engines never write.
func (db *DB) InsertOrder(ctx context.Context, order *models.Order) error {
	const query = `
	INSERT INTO orders (id, customer_email, items, total, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	queryStart := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		order.ID, order.CustomerEmail, order.ItemsJSON, order.Total, order.Status, order.CreatedAt)
	metrics.RecordDBQuery("insert", "orders", queryStart, err)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
	}
	return nil
}

// rowScanner abstracts *sql.Rows for order scanning.
type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanOrders reads order rows into models.
func scanOrders(rows rowScanner) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CustomerEmail, &o.ItemsJSON, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order row iteration failed: %w", err)
	}
	return orders, nil
}
