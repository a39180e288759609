// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package segment

import (
	"github.com/tomtom215/basketlens/internal/models"
)

// Feature dimension names for the two behavioral columns.
const (
	DimTotalSpent = "total_spent"
	DimFrequency  = "frequency"
)

// FeatureMatrix holds one feature row per customer. Row i belongs to
// CustomerIDs[i]; every row has len(Dimensions) columns.
type FeatureMatrix struct {
	CustomerIDs []int
	Dimensions  []string
	Rows        [][]float64
}

// Len returns the number of rows.
func (m *FeatureMatrix) Len() int {
	return len(m.Rows)
}

// Width returns the number of columns.
func (m *FeatureMatrix) Width() int {
	return len(m.Dimensions)
}

// Column returns a copy of column j.
func (m *FeatureMatrix) Column(j int) []float64 {
	col := make([]float64, len(m.Rows))
	for i, row := range m.Rows {
		col[i] = row[j]
	}
	return col
}

// BuildFeatures turns profiles into feature rows of the form
// [totalSpent, frequency, count(cat_1), ..., count(cat_K)] where the category
// columns follow vocabulary order. Categories a customer never bought are 0.
//
// An empty profile list yields an empty matrix. A non-empty profile list with
// an empty vocabulary is a configuration error.
func BuildFeatures(profiles []*CustomerProfile, vocabulary []string) (*FeatureMatrix, error) {
	dims := make([]string, 0, 2+len(vocabulary))
	dims = append(dims, DimTotalSpent, DimFrequency)
	for _, cat := range vocabulary {
		dims = append(dims, "category:"+cat)
	}

	m := &FeatureMatrix{
		CustomerIDs: make([]int, 0, len(profiles)),
		Dimensions:  dims,
		Rows:        make([][]float64, 0, len(profiles)),
	}
	if len(profiles) == 0 {
		return m, nil
	}
	if len(vocabulary) == 0 {
		return nil, models.NewError(models.KindConfiguration, "segment.BuildFeatures",
			"category vocabulary is empty for %d profiles", len(profiles))
	}

	for _, p := range profiles {
		row := make([]float64, len(dims))
		row[0] = p.TotalSpent.InexactFloat64()
		row[1] = float64(p.Frequency)
		for j, cat := range vocabulary {
			row[2+j] = float64(p.Categories.Count(cat))
		}
		m.CustomerIDs = append(m.CustomerIDs, p.ID)
		m.Rows = append(m.Rows, row)
	}
	return m, nil
}
