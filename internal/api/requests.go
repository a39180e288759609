// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/basketlens/internal/models"
	"github.com/tomtom215/basketlens/internal/validation"
)

// SegmentsRequest holds the query parameters of the segments listing.
// Pages beyond the last are clamped; page sizes above the configured
// maximum are capped.
type SegmentsRequest struct {
	Page     int `json:"page" validate:"min=1"`
	PageSize int `json:"page_size" validate:"min=1"`
}

// RecommendationsRequest holds the parameters of a recommendation request.
type RecommendationsRequest struct {
	CustomerID int

	// K is nil when the query omits k.
	K *int
}

// EffectiveK translates the query into engine semantics: zero selects the
// default and negative values yield an empty list.
func (r RecommendationsRequest) EffectiveK() int {
	switch {
	case r.K == nil:
		return 0
	case *r.K <= 0:
		return -1
	default:
		return *r.K
	}
}

// parseSegmentsRequest reads and validates page and page_size.
func parseSegmentsRequest(r *http.Request, defaultPageSize int) (SegmentsRequest, *models.APIError) {
	page, _, err := queryInt(r, "page", 1)
	if err != nil {
		return SegmentsRequest{}, paramError("page", err)
	}
	size, _, err := queryInt(r, "page_size", defaultPageSize)
	if err != nil {
		return SegmentsRequest{}, paramError("page_size", err)
	}

	req := SegmentsRequest{Page: page, PageSize: size}
	if apiErr := validateRequest(&req); apiErr != nil {
		return SegmentsRequest{}, apiErr
	}
	return req, nil
}

// parseRecommendationsRequest reads the customer path parameter and k.
func parseRecommendationsRequest(r *http.Request) (RecommendationsRequest, *models.APIError) {
	customerID, apiErr := customerIDParam(r)
	if apiErr != nil {
		return RecommendationsRequest{}, apiErr
	}

	req := RecommendationsRequest{CustomerID: customerID}
	k, present, err := queryInt(r, "k", 0)
	if err != nil {
		return RecommendationsRequest{}, paramError("k", err)
	}
	if present {
		req.K = &k
	}
	return req, nil
}

// customerIDParam parses the {customerID} path parameter.
func customerIDParam(r *http.Request) (int, *models.APIError) {
	raw := chi.URLParam(r, "customerID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, paramError("customerID", fmt.Errorf("%q is not an integer", raw))
	}
	return id, nil
}

// queryInt parses an optional integer query parameter. present reports
// whether the parameter was supplied.
func queryInt(r *http.Request, key string, defaultValue int) (value int, present bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue, false, nil
	}
	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%q is not an integer", raw)
	}
	return value, true, nil
}

// validateRequest validates a struct using go-playground/validator and
// returns a VALIDATION_ERROR body on failure.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

func paramError(field string, err error) *models.APIError {
	return &models.APIError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("invalid %s: %v", field, err),
		Details: map[string]interface{}{"field": field},
	}
}
