// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package segment

import (
	"github.com/tomtom215/basketlens/internal/models"
)

// Scaler holds per-dimension min/max computed from one batch. Parameters
// belong to the batch they were fitted on and are not reused across runs.
type Scaler struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// FitScaler computes column-wise min and max over rows.
func FitScaler(rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return &Scaler{}, nil
	}
	width := len(rows[0])
	s := &Scaler{
		Min: make([]float64, width),
		Max: make([]float64, width),
	}
	copy(s.Min, rows[0])
	copy(s.Max, rows[0])

	for i, row := range rows {
		if len(row) != width {
			return nil, models.NewError(models.KindDataQuality, "segment.FitScaler",
				"row %d has %d columns, want %d", i, len(row), width)
		}
		for j, v := range row {
			if v < s.Min[j] {
				s.Min[j] = v
			}
			if v > s.Max[j] {
				s.Max[j] = v
			}
		}
	}
	return s, nil
}

// Transform scales a row into [0, 1]. A constant column maps to exactly 0.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		span := s.Max[j] - s.Min[j]
		if span == 0 {
			continue
		}
		scaled := (v - s.Min[j]) / span
		// Clamp rounding drift at the edges.
		switch {
		case scaled < 0:
			scaled = 0
		case scaled > 1:
			scaled = 1
		}
		out[j] = scaled
	}
	return out
}

// Normalize applies min-max scaling to every column of m. Bounds are
// computed once over the whole batch before any row is transformed.
func Normalize(m *FeatureMatrix) (*FeatureMatrix, *Scaler, error) {
	scaler, err := FitScaler(m.Rows)
	if err != nil {
		return nil, nil, err
	}

	out := &FeatureMatrix{
		CustomerIDs: append([]int(nil), m.CustomerIDs...),
		Dimensions:  append([]string(nil), m.Dimensions...),
		Rows:        make([][]float64, len(m.Rows)),
	}
	for i, row := range m.Rows {
		out.Rows[i] = scaler.Transform(row)
	}
	return out, scaler, nil
}
