// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/ordersight/internal/history"
	"github.com/tomtom215/ordersight/internal/models"
)

// Forecast handles GET /api/v1/forecast/{productID}
// Returns the inventory exhaustion forecast for a single product.
//
// @Summary Get a product's inventory forecast
// @Description Returns days until stockout, sales trend, risk level, and reorder guidance for one product
// @Tags Forecast
// @Accept json
// @Produce json
// @Param productID path string true "Product ID"
// @Param window_days query int false "Sales window in days (default 30)"
// @Success 200 {object} models.APIResponse{data=models.ForecastResult} "Forecast computed successfully"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 404 {object} models.APIResponse "Product not found"
// @Router /forecast/{productID} [get]
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := ForecastRequest{
		ProductID:  chi.URLParam(r, "productID"),
		WindowDays: getIntParam(r, "window_days", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	result, err := h.calculator.Forecast(ctx, req.ProductID, req.WindowDays)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute forecast", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// ForecastFleet handles GET /api/v1/forecast/fleet
// Returns forecasts for every low-stock product, most urgent first.
//
// @Summary Scan the product fleet for stockout risk
// @Description Returns forecasts for all low-stock products sorted by risk, optionally filtered by risk level
// @Tags Forecast
// @Accept json
// @Produce json
// @Param risk query string false "Comma-separated risk levels (critical,high,medium,low)"
// @Param limit query int false "Maximum results"
// @Success 200 {object} models.APIResponse{data=[]models.ForecastResult} "Fleet scan completed"
// @Failure 400 {object} models.APIResponse "Invalid risk filter"
// @Router /forecast/fleet [get]
func (h *Handler) ForecastFleet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := FleetRequest{
		Risks: parseCommaSeparated(r.URL.Query().Get("risk")),
		Limit: getIntParam(r, "limit", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	riskFilter := make([]models.RiskLevel, 0, len(req.Risks))
	for _, risk := range req.Risks {
		riskFilter = append(riskFilter, models.RiskLevel(risk))
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	results, err := h.aggregator.ScanFleet(ctx, riskFilter, req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to scan fleet", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   results,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// ForecastSummary handles GET /api/v1/forecast/summary
// Returns aggregate fleet health counts.
//
// @Summary Get fleet-wide forecast summary
// @Description Returns counts per risk level, reorder-needed count, and average days to stockout
// @Tags Forecast
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.FleetSummary} "Summary computed successfully"
// @Router /forecast/summary [get]
func (h *Handler) ForecastSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	summary, err := h.aggregator.FleetSummary(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute summary", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   summary,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
