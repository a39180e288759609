// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/basketlens/internal/logging"
	"github.com/tomtom215/basketlens/internal/models"
)

// Error codes for API responses
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeOutOfRange       = "OUT_OF_RANGE"
	ErrCodeConfiguration    = "CONFIGURATION_ERROR"
	ErrCodeDataQuality      = "DATA_QUALITY_ERROR"
	ErrCodeNotReady         = "NOT_READY"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// sanitizeLogValue escapes control characters so client input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error response. err is logged, not returned to the
// client; 5xx errors log at error level and the rest at debug.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Debug()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.
			Str("code", code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondKindError maps a classified analysis error to its HTTP status.
func respondKindError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusForKind(models.KindOf(err))
	respondError(w, r, status, code, err.Error(), err)
}

// statusForKind returns the HTTP status and error code for an error kind.
// Empty input is not an error at the API surface and never reaches here.
func statusForKind(kind models.ErrorKind) (int, string) {
	switch kind {
	case models.KindDataQuality:
		return http.StatusUnprocessableEntity, ErrCodeDataQuality
	case models.KindConfiguration:
		return http.StatusUnprocessableEntity, ErrCodeConfiguration
	case models.KindOutOfRange:
		return http.StatusNotFound, ErrCodeOutOfRange
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// respondValidationError sends validator output as a 400 response.
func respondValidationError(w http.ResponseWriter, r *http.Request, apiErr *models.APIError) {
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: apiErr,
	})
	logging.Ctx(r.Context()).Debug().
		Str("path", sanitizeLogValue(r.URL.Path)).
		Str("error", sanitizeLogValue(apiErr.Message)).
		Msg("request validation failed")
}
