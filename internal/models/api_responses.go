// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status is "success" or "error". Data carries the payload on success and
// Error the failure details otherwise.
//
//	{
//	  "status": "success",
//	  "data": {"items": [...], "page": 1, "total_pages": 3},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "run_id": "..."}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`

	// RunID identifies the analysis run the data came from.
	RunID string `json:"run_id,omitempty"`
}

// APIError carries a machine-readable code and a human message.
//
// Codes in use:
//   - VALIDATION_ERROR: invalid query parameters
//   - NOT_FOUND: unknown customer or route
//   - OUT_OF_RANGE: customer outside the trained universe
//   - CONFIGURATION_ERROR / DATA_QUALITY_ERROR: analysis failures
//   - NOT_READY: no completed analysis run yet
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	// Status is "healthy", "starting" before the first analysis run, or
	// "degraded" when the latest run failed.
	Status    string     `json:"status"`
	Version   string     `json:"version"`
	Ready     bool       `json:"ready"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	Uptime    float64    `json:"uptime_seconds"`
}
