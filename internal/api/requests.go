// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

// HTTP request validation structs with go-playground/validator tags.
// These structs are used to validate incoming API request parameters
// before processing.
//
// Example usage:
//
//	req := ForecastRequest{
//	    ProductID:  chi.URLParam(r, "productID"),
//	    WindowDays: getIntParam(r, "window_days", 0),
//	}
//	if err := validateRequest(&req); err != nil {
//	    respondError(w, http.StatusBadRequest, err.Code, err.Message, nil)
//	    return
//	}
package api

// ForecastRequest represents the validated parameters for GET /forecast/{productID}.
//
// Fields:
//   - ProductID: Required product identifier from the URL path
//   - WindowDays: Sales window in days (1-365, 0 means "use configured default")
type ForecastRequest struct {
	ProductID  string `validate:"required,min=1,max=128"`
	WindowDays int    `validate:"omitempty,min=1,max=365"`
}

// FleetRequest represents the validated query parameters for GET /forecast/fleet.
//
// Fields:
//   - Risks: Risk level filter parsed from the comma-separated risk parameter
//   - Limit: Maximum results to return (0 means unlimited)
type FleetRequest struct {
	Risks []string `validate:"omitempty,dive,risklevel"`
	Limit int      `validate:"omitempty,min=1,max=1000"`
}

// RecommendRequest represents the validated parameters for the product-seeded
// recommendation endpoints (co-purchase, frequently-bought-together, category).
//
// Fields:
//   - ProductID: Required seed product identifier from the URL path
//   - Limit: Maximum recommendations to return (0 means "use configured default")
type RecommendRequest struct {
	ProductID string `validate:"required,min=1,max=128"`
	Limit     int    `validate:"omitempty,min=1,max=50"`
}

// TrendingRequest represents the validated query parameters for GET /recommend/trending.
type TrendingRequest struct {
	Limit int `validate:"omitempty,min=1,max=50"`
}

// PersonalizedRequest represents the validated query parameters for
// GET /recommend/personalized.
//
// Fields:
//   - Email: Required customer email address
//   - Limit: Maximum recommendations to return (0 means "use configured default")
type PersonalizedRequest struct {
	Email string `validate:"required,email"`
	Limit int    `validate:"omitempty,min=1,max=50"`
}

// SegmentRequest represents the validated query parameters for GET /customers/segment.
type SegmentRequest struct {
	Email string `validate:"required,email"`
}
