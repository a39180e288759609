// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/basketlens/internal/models"
)

// DefaultK is the number of recommendations returned when none is requested.
const DefaultK = 3

// UnknownCategory is the category of products missing from the catalog.
const UnknownCategory = "Unknown"

// ProductIDForIndex maps a model output index to its product ID.
func ProductIDForIndex(i int) int {
	return i + 1
}

// PlaceholderProduct describes a product the catalog does not know.
func PlaceholderProduct(id int) models.Product {
	return models.Product{
		ID:       id,
		Name:     fmt.Sprintf("Product %d", id),
		Category: UnknownCategory,
	}
}

// TopK returns the k highest scoring products of dist, best first. Equal
// scores are ordered by ascending product ID and NaN scores rank last.
// k <= 0 yields an empty list; k beyond len(dist) returns every product
// without padding.
func TopK(dist []float64, k int, catalog models.Catalog) []Recommendation {
	if k <= 0 || len(dist) == 0 {
		return []Recommendation{}
	}

	idx := make([]int, len(dist))
	for i := range idx {
		idx[i] = i
	}
	score := func(i int) float64 {
		if math.IsNaN(dist[i]) {
			return math.Inf(-1)
		}
		return dist[i]
	}
	sort.Slice(idx, func(a, b int) bool {
		sa, sb := score(idx[a]), score(idx[b])
		if sa != sb {
			return sa > sb
		}
		return idx[a] < idx[b]
	})

	n := min(k, len(idx))
	out := make([]Recommendation, 0, n)
	for _, i := range idx[:n] {
		id := ProductIDForIndex(i)
		product, ok := catalog.Lookup(id)
		if !ok {
			product = PlaceholderProduct(id)
		}
		out = append(out, Recommendation{
			ProductID: id,
			Score:     dist[i],
			Name:      product.Name,
			Category:  product.Category,
		})
	}
	return out
}
