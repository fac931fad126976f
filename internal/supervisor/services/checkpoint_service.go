// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package services

import (
	"context"
	"time"

	"github.com/tomtom215/ordersight/internal/logging"
)

// Checkpointer matches the store's checkpoint method without importing the
// database package.
//
// Satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically forces a DuckDB CHECKPOINT so the WAL is
// folded into the database file while the process runs. A failed checkpoint
// is logged and retried on the next tick rather than restarting the service;
// the store stays usable either way.
//
// Example usage:
//
//	svc := services.NewCheckpointService(db, 5*time.Minute)
//	tree.AddStoreService(svc)
type CheckpointService struct {
	store    Checkpointer
	interval time.Duration
	name     string
}

// NewCheckpointService creates a checkpoint loop with the given interval.
// Intervals of zero or less fall back to 5 minutes.
func NewCheckpointService(store Checkpointer, interval time.Duration) *CheckpointService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CheckpointService{
		store:    store,
		interval: interval,
		name:     "duckdb-checkpoint",
	}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.store.Checkpoint(ctx); err != nil {
				logging.Warn().Err(err).Msg("Periodic checkpoint failed")
				continue
			}
			logging.Debug().Msg("Periodic checkpoint completed")
		}
	}
}

// String implements fmt.Stringer for logging.
func (s *CheckpointService) String() string {
	return s.name
}
