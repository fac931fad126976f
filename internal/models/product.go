// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package models

import "time"

// Product is the partial catalog view Ordersight needs. Catalog CRUD is an
// external collaborator; this engine only reads identity, attributes, and
// current stock.
type Product struct {
	// ID is the catalog product identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Category and Material drive attribute-affinity recommendations.
	Category string `json:"category,omitempty"`
	Material string `json:"material,omitempty"`

	// Price is the current list price.
	Price float64 `json:"price"`

	// Stock is the current inventory level. Never negative.
	Stock int `json:"stock"`

	// CreatedAt orders "newest first" recommendation results.
	CreatedAt time.Time `json:"created_at"`
}

// InStock reports whether the product has sellable inventory.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
