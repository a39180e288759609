// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package analysis

import "github.com/tomtom215/basketlens/internal/segment"

// Page size limits.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SegmentPage is one page of segment assignments.
type SegmentPage struct {
	Items      []segment.Assignment `json:"items"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
	Total      int                  `json:"total"`
}

// Page slices assignments into pages. size <= 0 selects DefaultPageSize and
// sizes above MaxPageSize are capped. page is clamped to [1, TotalPages]; an
// empty input yields page 1 of 0 with no items.
func Page(assignments []segment.Assignment, page, size int) SegmentPage {
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)

	total := len(assignments)
	totalPages := (total + size - 1) / size
	page = max(1, min(page, totalPages))

	out := SegmentPage{
		Items:      []segment.Assignment{},
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		Total:      total,
	}
	if total == 0 {
		return out
	}

	lo := (page - 1) * size
	hi := min(lo+size, total)
	out.Items = assignments[lo:hi:hi]
	return out
}
