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

	"github.com/tomtom215/ordersight/internal/history"
	"github.com/tomtom215/ordersight/internal/models"
)

// CustomerSegment handles GET /api/v1/customers/segment
// Returns the full RFM profile for one customer.
//
// @Summary Get a customer's RFM segmentation
// @Description Returns RFM scores, segment label, spend profile, category preferences, and purchase timeline computed from the customer's full order history
// @Tags Customers
// @Accept json
// @Produce json
// @Param email query string true "Customer email"
// @Success 200 {object} models.APIResponse{data=models.CustomerAnalytics} "Segmentation computed successfully"
// @Failure 400 {object} models.APIResponse "Missing or invalid email"
// @Failure 404 {object} models.APIResponse "Customer has no orders"
// @Router /customers/segment [get]
func (h *Handler) CustomerSegment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := SegmentRequest{
		Email: r.URL.Query().Get("email"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	analytics, err := h.segmenter.Analyze(ctx, req.Email)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Customer has no orders", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to analyze customer", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   analytics,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
