// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package models

import "time"

// Order is an immutable historical purchase record. Orders are owned and
// written exclusively by the checkout pipeline; Ordersight only reads them.
//
// Line items are stored denormalized as an independently serialized JSON blob
// in ItemsJSON. The blob is re-parsed on every read and may fail to parse for
// any given order; callers must treat parsing as a fallible per-record step
// and skip failures without aborting the batch.
type Order struct {
	// ID is the order identifier assigned by checkout.
	ID string `json:"id"`

	// CustomerEmail identifies the purchasing customer.
	CustomerEmail string `json:"customer_email"`

	// ItemsJSON is the embedded, serialized line-item list.
	// Use history.Accessor to parse it; do not assume it is well-formed.
	ItemsJSON string `json:"-"`

	// Total is the monetary order total as committed by checkout.
	Total float64 `json:"total"`

	// Status is the order lifecycle status (e.g. "completed", "shipped").
	Status string `json:"status"`

	// CreatedAt is when checkout committed the order.
	CreatedAt time.Time `json:"created_at"`
}

// LineItem is one purchased item parsed from an order's embedded blob.
type LineItem struct {
	// ProductID identifies the purchased product.
	ProductID string `json:"product_id"`

	// Quantity is the purchased count. Positive in well-formed records.
	Quantity int `json:"quantity"`

	// UnitPrice is the per-unit price at purchase time.
	UnitPrice float64 `json:"unit_price"`

	// Category is the product category at purchase time. Optional; historical
	// records predating categorization leave it empty.
	Category string `json:"category,omitempty"`
}
