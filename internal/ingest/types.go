// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package ingest

import (
	"time"
)

// LoadStats holds statistics about a load operation.
type LoadStats struct {
	// Processed is the number of data rows read (including skipped).
	Processed int `json:"processed"`

	// Loaded is the number of rows turned into transactions.
	Loaded int `json:"loaded"`

	// Skipped is the number of rows rejected by parsing or validation.
	Skipped int `json:"skipped"`

	// Issues holds the first rejected rows with their reasons.
	Issues []RowIssue `json:"issues,omitempty"`

	// StartTime is when the load started.
	StartTime time.Time `json:"start_time"`

	// EndTime is when the load completed (zero if still running).
	EndTime time.Time `json:"end_time"`
}

// RowIssue describes a rejected row. Line is the 1-based line number in
// the file, counting the header.
type RowIssue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Duration returns the duration of the load.
func (s *LoadStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// RowsPerSecond returns the load rate.
func (s *LoadStats) RowsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}

func (s *LoadStats) skip(line int, reason string, maxIssues int) {
	s.Skipped++
	if len(s.Issues) < maxIssues {
		s.Issues = append(s.Issues, RowIssue{Line: line, Reason: reason})
	}
}
