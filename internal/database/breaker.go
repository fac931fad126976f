// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tomtom215/ordersight/internal/config"
	"github.com/tomtom215/ordersight/internal/logging"
	"github.com/tomtom215/ordersight/internal/metrics"
	"github.com/tomtom215/ordersight/internal/models"
)

// BreakerStore wraps DB read access with the circuit breaker pattern.
// DuckDB is embedded, so failures here mean disk pressure or corruption
// rather than network trouble; the breaker stops every analytics endpoint
// from piling onto a struggling storage layer at once.
//
// A tripped breaker surfaces as a repository error to callers. The engines
// perform no retries of their own.
//
// DETERMINISM NOTE: the breaker uses real time (via sony/gobreaker) for its
// open-state timeout. Tests that need deterministic behavior should exercise
// the underlying *DB directly.
type BreakerStore struct {
	db   *DB
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// NewBreakerStore wraps db with a circuit breaker configured from cfg.
// With cfg.Enabled false the wrapper still works but never trips.
func NewBreakerStore(db *DB, cfg *config.BreakerConfig) *BreakerStore {
	const cbName = "duckdb-store"

	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3, // concurrent probes allowed in half-open state
		Interval:    time.Minute,
		Timeout:     openTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if !cfg.Enabled {
				return false
			}
			shouldTrip := counts.ConsecutiveFailures >= maxFailures
			if shouldTrip {
				logging.Warn().
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.BreakerStateChanges.WithLabelValues(name, toStr).Inc()
		},
	})

	return &BreakerStore{db: db, cb: cb, name: cbName}
}

// execute wraps one storage call with circuit breaker protection.
func (bs *BreakerStore) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := bs.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Warn().Err(err).Str("breaker", bs.name).Msg("[CIRCUIT BREAKER] Request rejected")
		}
		return nil, err
	}
	return result, nil
}

// castSlice type-casts a circuit breaker result to a slice with error checking.
func castSlice[T any](result interface{}, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	typed, ok := result.([]T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// FindInRange retrieves orders in a time range with breaker protection.
func (bs *BreakerStore) FindInRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	return castSlice[models.Order](bs.execute(func() (interface{}, error) {
		return bs.db.FindInRange(ctx, start, end)
	}))
}

// FindByCustomer retrieves a customer's orders with breaker protection.
func (bs *BreakerStore) FindByCustomer(ctx context.Context, email string, limit int) ([]models.Order, error) {
	return castSlice[models.Order](bs.execute(func() (interface{}, error) {
		return bs.db.FindByCustomer(ctx, email, limit)
	}))
}

// Get retrieves a product by id with breaker protection. Like the underlying
// store, a missing product returns nil, nil.
func (bs *BreakerStore) Get(ctx context.Context, id string) (*models.Product, error) {
	result, err := bs.execute(func() (interface{}, error) {
		p, err := bs.db.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, nil
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	typed, ok := result.(*models.Product)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// FindByIDs retrieves products by id with breaker protection.
func (bs *BreakerStore) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	return castSlice[models.Product](bs.execute(func() (interface{}, error) {
		return bs.db.FindByIDs(ctx, ids)
	}))
}

// FindByAttribute retrieves products by category or material with breaker protection.
func (bs *BreakerStore) FindByAttribute(ctx context.Context, category, material string, inStockOnly bool) ([]models.Product, error) {
	return castSlice[models.Product](bs.execute(func() (interface{}, error) {
		return bs.db.FindByAttribute(ctx, category, material, inStockOnly)
	}))
}

// ListCandidates retrieves fleet-scan candidates with breaker protection.
func (bs *BreakerStore) ListCandidates(ctx context.Context, maxStock int) ([]models.Product, error) {
	return castSlice[models.Product](bs.execute(func() (interface{}, error) {
		return bs.db.ListCandidates(ctx, maxStock)
	}))
}

// ListNewest retrieves the newest in-stock products with breaker protection.
func (bs *BreakerStore) ListNewest(ctx context.Context, limit int) ([]models.Product, error) {
	return castSlice[models.Product](bs.execute(func() (interface{}, error) {
		return bs.db.ListNewest(ctx, limit)
	}))
}

// Ping verifies storage health with breaker protection.
func (bs *BreakerStore) Ping(ctx context.Context) error {
	_, err := bs.execute(func() (interface{}, error) {
		return nil, bs.db.Ping(ctx)
	})
	return err
}

// State reports the current breaker state for health endpoints.
func (bs *BreakerStore) State() string {
	return stateToString(bs.cb.State())
}
