// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is shared by the CSV ingest adapter
// (transaction rows), the configuration loader and the HTTP query parsers.
// Errors are reported by json field name and convert to the API's
// VALIDATION_ERROR body:
//
//	type pageQuery struct {
//	    Page     int `json:"page" validate:"gte=1"`
//	    PageSize int `json:"page_size" validate:"gte=1,lte=100"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// decimal.Decimal values validate as float64, so `validate:"gte=0"` works on
// purchase amounts.
package validation
