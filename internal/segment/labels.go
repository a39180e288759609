// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package segment

import (
	"sort"

	"github.com/tomtom215/basketlens/internal/models"
)

// LabelPolicy decides which label each cluster index receives.
type LabelPolicy string

const (
	// LabelPositional gives cluster i the i-th label. Labels carry no
	// semantic guarantee under this policy: cluster 0 is not necessarily the
	// highest-spending group.
	LabelPositional LabelPolicy = "positional"

	// LabelSpendRank orders clusters by mean raw total spend, highest first,
	// and gives the r-th ranked cluster the r-th label. Ties keep cluster
	// index order.
	LabelSpendRank LabelPolicy = "spend_rank"
)

// DefaultLabels is the ordered label set for four clusters.
var DefaultLabels = []string{
	"Luxury Buyers",
	"Discount Shoppers",
	"Frequent Buyers",
	"Category Specialists",
}

// Valid reports whether p is a known policy.
func (p LabelPolicy) Valid() bool {
	return p == LabelPositional || p == LabelSpendRank
}

// LabelClusters maps cluster indices to labels. meanSpend[c] is the mean raw
// total spend of cluster c and is only consulted by LabelSpendRank.
func LabelClusters(policy LabelPolicy, labels []string, meanSpend []float64) ([]string, error) {
	k := len(meanSpend)
	if k > len(labels) {
		return nil, models.NewError(models.KindConfiguration, "segment.LabelClusters",
			"%d clusters but only %d labels", k, len(labels))
	}

	out := make([]string, k)
	switch policy {
	case LabelPositional, "":
		copy(out, labels[:k])
	case LabelSpendRank:
		order := make([]int, k)
		for c := range order {
			order[c] = c
		}
		sort.SliceStable(order, func(a, b int) bool {
			return meanSpend[order[a]] > meanSpend[order[b]]
		})
		for rank, c := range order {
			out[c] = labels[rank]
		}
	default:
		return nil, models.NewError(models.KindConfiguration, "segment.LabelClusters",
			"unknown label policy %q", policy)
	}
	return out, nil
}
