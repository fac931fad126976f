// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/ordersight/internal/metrics"
	"github.com/tomtom215/ordersight/internal/models"
)

// Get returns the product with the given id, or nil when it does not exist.
// A missing product is a normal outcome, not an error.
func (db *DB) Get(ctx context.Context, id string) (*models.Product, error) {
	const query = `
	SELECT id, name, category, material, price, stock, created_at
	FROM products
	WHERE id = ?`

	queryStart := time.Now()
	stmt, err := db.getStmt(ctx, query)
	if err != nil {
		return nil, err
	}

	row := stmt.QueryRowContext(ctx, id)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("get", "products", queryStart, nil)
		return nil, nil
	}
	metrics.RecordDBQuery("get", "products", queryStart, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return product, nil
}

// FindByIDs returns the products matching the given ids. Unknown ids are
// simply absent from the result; order is not guaranteed.
func (db *DB) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
	SELECT id, name, category, material, price, stock, created_at
	FROM products
	WHERE id IN (%s)`, strings.Join(placeholders, ","))

	queryStart := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("find_by_ids", "products", queryStart, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by ids: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// FindByAttribute returns products sharing the given category or material,
// newest first. Either attribute may be empty; an empty pair matches nothing.
// With inStockOnly set, out-of-stock products are excluded.
func (db *DB) FindByAttribute(ctx context.Context, category, material string, inStockOnly bool) ([]models.Product, error) {
	if category == "" && material == "" {
		return nil, nil
	}

	var conditions []string
	var args []interface{}
	if category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, category)
	}
	if material != "" {
		conditions = append(conditions, "material = ?")
		args = append(args, material)
	}

	query := fmt.Sprintf(`
	SELECT id, name, category, material, price, stock, created_at
	FROM products
	WHERE (%s)`, strings.Join(conditions, " OR "))
	if inStockOnly {
		query += " AND stock > 0"
	}
	query += " ORDER BY created_at DESC"

	queryStart := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("find_by_attribute", "products", queryStart, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by attribute: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListCandidates returns products whose stock is at or below maxStock,
// for fleet scanning. Products comfortably stocked above the cutoff are
// never at risk within normal sales velocities and are excluded from the
// expensive per-product history scan.
func (db *DB) ListCandidates(ctx context.Context, maxStock int) ([]models.Product, error) {
	const query = `
	SELECT id, name, category, material, price, stock, created_at
	FROM products
	WHERE stock <= ?
	ORDER BY stock ASC`

	queryStart := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, maxStock)
	metrics.RecordDBQuery("list_candidates", "products", queryStart, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list fleet candidates: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListNewest returns the newest in-stock products, up to limit.
// Used as the trending strategy's cold-start fallback.
func (db *DB) ListNewest(ctx context.Context, limit int) ([]models.Product, error) {
	const query = `
	SELECT id, name, category, material, price, stock, created_at
	FROM products
	WHERE stock > 0
	ORDER BY created_at DESC
	LIMIT ?`

	queryStart := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery("list_newest", "products", queryStart, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list newest products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// InsertProduct stores one product record. Used by ingestion and seeding.
func (db *DB) InsertProduct(ctx context.Context, p *models.Product) error {
	const query = `
	INSERT INTO products (id, name, category, material, price, stock, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryStart := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		p.ID, p.Name, nullable(p.Category), nullable(p.Material), p.Price, p.Stock, p.CreatedAt)
	metrics.RecordDBQuery("insert", "products", queryStart, err)
	if err != nil {
		return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
	}
	return nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// scanner abstracts *sql.Row and *sql.Rows for single-product scanning.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct reads one product row.
func scanProduct(row scanner) (*models.Product, error) {
	var p models.Product
	var category, material sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &category, &material, &p.Price, &p.Stock, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Category = category.String
	p.Material = material.String
	return &p, nil
}

// scanProducts reads product rows into models.
func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("product row iteration failed: %w", err)
	}
	return products, nil
}
