// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

// Package history provides the order-history access layer shared by all
// analytics engines. Orders carry their line items as an embedded JSON blob
// written independently by the checkout pipeline; the Accessor re-parses the
// blob on every read and contains per-record parse failures so one bad blob
// never aborts a batch.
package history

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tomtom215/ordersight/internal/logging"
	"github.com/tomtom215/ordersight/internal/metrics"
	"github.com/tomtom215/ordersight/internal/models"
)

// ParsedOrder pairs an order with its successfully parsed line items.
// Malformed reports a blob that failed to parse; such orders keep their
// order-level fields (total, timestamps) but carry no items, so item-derived
// aggregates skip them while order-level aggregates still count them.
type ParsedOrder struct {
	Order     models.Order
	Items     []models.LineItem
	Malformed bool
}

// Accessor reads order history and parses each order's embedded line-item
// blob. It is stateless; concurrent calls are fully independent.
type Accessor struct {
	orders OrderRepository
}

// NewAccessor creates an Accessor over the given order repository.
func NewAccessor(orders OrderRepository) *Accessor {
	return &Accessor{orders: orders}
}

// OrdersInRange returns orders created within [start, end], oldest first,
// each paired with its parsed line items.
func (a *Accessor) OrdersInRange(ctx context.Context, start, end time.Time) ([]ParsedOrder, error) {
	orders, err := a.orders.FindInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders in range: %w", err)
	}
	return a.parseAll(orders), nil
}

// OrdersByCustomer returns a customer's orders in chronological order, each
// paired with its parsed line items. A positive limit keeps only the most
// recent limit orders.
func (a *Accessor) OrdersByCustomer(ctx context.Context, email string, limit int) ([]ParsedOrder, error) {
	orders, err := a.orders.FindByCustomer(ctx, email, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read orders for customer: %w", err)
	}
	return a.parseAll(orders), nil
}

// parseAll parses every order's item blob, containing failures per record.
func (a *Accessor) parseAll(orders []models.Order) []ParsedOrder {
	parsed := make([]ParsedOrder, 0, len(orders))
	for _, order := range orders {
		items, err := ParseItems(&order)
		if err != nil {
			metrics.MalformedOrders.Inc()
			logging.Warn().
				Str("order_id", order.ID).
				Err(err).
				Msg("Skipping order with unparsable line items")
			parsed = append(parsed, ParsedOrder{Order: order, Malformed: true})
			continue
		}
		parsed = append(parsed, ParsedOrder{Order: order, Items: items})
	}
	metrics.OrdersScanned.Add(float64(len(orders)))
	return parsed
}

// ParseItems decodes one order's embedded line-item blob. An empty blob is a
// valid order with no items, not a parse failure.
func ParseItems(order *models.Order) ([]models.LineItem, error) {
	if order.ItemsJSON == "" {
		return nil, nil
	}
	var items []models.LineItem
	if err := json.Unmarshal([]byte(order.ItemsJSON), &items); err != nil {
		return nil, fmt.Errorf("failed to parse line items: %w", err)
	}
	return items, nil
}
