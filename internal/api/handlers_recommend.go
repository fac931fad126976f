// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/ordersight/internal/models"
)

// recommendFn is the common shape of the product-seeded strategies.
type recommendFn func(ctx context.Context, productID string, limit int) (*models.RecommendationResult, error)

// recommendByProduct runs a product-seeded strategy with shared parameter
// parsing and error mapping. A missing seed product is not an error here:
// the engine returns an empty result, matching storefront widgets that
// simply render nothing.
func (h *Handler) recommendByProduct(w http.ResponseWriter, r *http.Request, fn recommendFn) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := RecommendRequest{
		ProductID: chi.URLParam(r, "productID"),
		Limit:     getIntParam(r, "limit", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	result, err := fn(ctx, req.ProductID, req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to generate recommendations", err)
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

// RecommendCoPurchase handles GET /api/v1/recommend/co-purchase/{productID}
//
// @Summary Get co-purchase recommendations
// @Description Returns products most often bought in the same orders as the seed product, falling back to category affinity when no co-purchases exist
// @Tags Recommend
// @Accept json
// @Produce json
// @Param productID path string true "Seed product ID"
// @Param limit query int false "Maximum recommendations (default 4)"
// @Success 200 {object} models.APIResponse{data=models.RecommendationResult} "Recommendations generated"
// @Router /recommend/co-purchase/{productID} [get]
func (h *Handler) RecommendCoPurchase(w http.ResponseWriter, r *http.Request) {
	h.recommendByProduct(w, r, h.recommender.CoPurchase)
}

// RecommendBoughtTogether handles GET /api/v1/recommend/frequently-bought-together/{productID}
//
// @Summary Get frequently-bought-together recommendations
// @Description Same co-purchase ranking as /recommend/co-purchase with a tighter default limit, suited to product-page widgets
// @Tags Recommend
// @Accept json
// @Produce json
// @Param productID path string true "Seed product ID"
// @Param limit query int false "Maximum recommendations (default 3)"
// @Success 200 {object} models.APIResponse{data=models.RecommendationResult} "Recommendations generated"
// @Router /recommend/frequently-bought-together/{productID} [get]
func (h *Handler) RecommendBoughtTogether(w http.ResponseWriter, r *http.Request) {
	h.recommendByProduct(w, r, h.recommender.BoughtTogether)
}

// RecommendCategory handles GET /api/v1/recommend/category/{productID}
//
// @Summary Get category affinity recommendations
// @Description Returns in-stock products sharing the seed product's category or material
// @Tags Recommend
// @Accept json
// @Produce json
// @Param productID path string true "Seed product ID"
// @Param limit query int false "Maximum recommendations (default 4)"
// @Success 200 {object} models.APIResponse{data=models.RecommendationResult} "Recommendations generated"
// @Router /recommend/category/{productID} [get]
func (h *Handler) RecommendCategory(w http.ResponseWriter, r *http.Request) {
	h.recommendByProduct(w, r, h.recommender.CategoryAffinity)
}

// RecommendTrending handles GET /api/v1/recommend/trending
//
// @Summary Get trending products
// @Description Returns products ranked by units sold over the trending window, falling back to newest in-stock arrivals
// @Tags Recommend
// @Accept json
// @Produce json
// @Param limit query int false "Maximum recommendations (default 4)"
// @Success 200 {object} models.APIResponse{data=models.RecommendationResult} "Recommendations generated"
// @Router /recommend/trending [get]
func (h *Handler) RecommendTrending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := TrendingRequest{
		Limit: getIntParam(r, "limit", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	result, err := h.recommender.Trending(ctx, req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to generate recommendations", err)
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

// RecommendPersonalized handles GET /api/v1/recommend/personalized
//
// @Summary Get personalized recommendations
// @Description Returns products matching the customer's dominant category and material taste, excluding already-purchased items
// @Tags Recommend
// @Accept json
// @Produce json
// @Param email query string true "Customer email"
// @Param limit query int false "Maximum recommendations (default 4)"
// @Success 200 {object} models.APIResponse{data=models.RecommendationResult} "Recommendations generated"
// @Failure 400 {object} models.APIResponse "Missing or invalid email"
// @Router /recommend/personalized [get]
func (h *Handler) RecommendPersonalized(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	req := PersonalizedRequest{
		Email: r.URL.Query().Get("email"),
		Limit: getIntParam(r, "limit", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	result, err := h.recommender.Personalized(ctx, req.Email, req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to generate recommendations", err)
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
