// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

// Ordersight server entry point. Boot order: configuration, logging, store,
// engines, HTTP surface, supervisor tree, then block until a shutdown signal.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/ordersight/internal/api"
	"github.com/tomtom215/ordersight/internal/config"
	"github.com/tomtom215/ordersight/internal/database"
	"github.com/tomtom215/ordersight/internal/forecast"
	"github.com/tomtom215/ordersight/internal/history"
	"github.com/tomtom215/ordersight/internal/logging"
	"github.com/tomtom215/ordersight/internal/recommend"
	"github.com/tomtom215/ordersight/internal/segment"
	"github.com/tomtom215/ordersight/internal/supervisor"
	"github.com/tomtom215/ordersight/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Default logger for config errors; config not yet available
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Int("port", cfg.Server.Port).
		Msg("Starting Ordersight")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Seed mock data if enabled (development and screenshot environments)
	if cfg.Database.SeedMockData {
		logging.Info().Msg("Mock data seeding enabled (SEED_MOCK_DATA=true)")
		if err := db.SeedMockData(context.Background()); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			logging.Fatal().Err(err).Msg("Failed to seed mock data")
		}
	}

	// Every repository call goes through the circuit breaker. A tripped
	// breaker surfaces as a repository failure to the engines.
	store := database.NewBreakerStore(db, &cfg.Breaker)

	accessor := history.NewAccessor(store)
	calculator := forecast.NewCalculator(accessor, store, cfg.Forecast)
	aggregator := forecast.NewAggregator(calculator, store, cfg.Forecast)
	recommender := recommend.NewEngine(accessor, store, cfg.Recommend)
	segmenter := segment.NewEngine(accessor, cfg.RFM)

	handler := api.NewHandler(store, calculator, aggregator, recommender, segmenter, cfg)

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.API.CORSOrigins
	mwConfig.RateLimitRequests = cfg.API.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.API.RateLimitWindow
	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddStoreService(services.NewCheckpointService(db, 5*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Supervisor finished once the channel closes
	<-errCh

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Ordersight stopped")
}
