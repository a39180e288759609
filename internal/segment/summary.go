// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package segment

import (
	"github.com/shopspring/decimal"

	"github.com/tomtom215/basketlens/internal/models"
)

// CategoryStats summarizes sales of one product category.
type CategoryStats struct {
	Category        string          `json:"category"`
	Sales           decimal.Decimal `json:"sales"`
	Transactions    int             `json:"transactions"`
	AverageOrder    decimal.Decimal `json:"average_order"`
	TopProduct      string          `json:"top_product"`
	TopProductSales decimal.Decimal `json:"top_product_sales"`
}

// TierStats summarizes the customers of one spend tier.
type TierStats struct {
	Tier  string `json:"tier"`
	Count int    `json:"count"`

	// AvgSpent is the mean customer total spend, rounded to a whole amount.
	AvgSpent int64 `json:"avg_spent"`
}

// Summary holds batch-wide statistics shown next to the segments.
type Summary struct {
	TotalCustomers int             `json:"total_customers"`
	TotalProducts  int             `json:"total_products"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	Transactions   int             `json:"transactions"`
	Skipped        int             `json:"skipped"`
	Categories     []CategoryStats `json:"categories"`
	Segments       []ClusterInfo   `json:"segments"`
	Tiers          []TierStats     `json:"tiers"`
}

// Summarize computes batch statistics. Records rejected by
// Transaction.Check are excluded exactly as in Aggregate. segments and tiers
// are optional.
func Summarize(txs []models.Transaction, agg *Aggregation, segments *Result, tiers *TierClassifier) (*Summary, error) {
	s := &Summary{
		TotalCustomers: agg.Len(),
		TotalSales:     decimal.Zero,
		Skipped:        agg.Skipped,
		Categories:     []CategoryStats{},
		Segments:       []ClusterInfo{},
		Tiers:          []TierStats{},
	}

	products := make(map[int]struct{})
	byCategory := make(map[string]*Breakdown)
	for i := range txs {
		tx := &txs[i]
		if tx.Check() != "" {
			continue
		}
		s.Transactions++
		s.TotalSales = s.TotalSales.Add(tx.PurchaseAmount)
		products[tx.ProductID] = struct{}{}

		b, ok := byCategory[tx.ProductCategory]
		if !ok {
			b = newBreakdown()
			byCategory[tx.ProductCategory] = b
		}
		b.add(tx.ProductName, tx.PurchaseAmount)
	}
	s.TotalProducts = len(products)

	for _, cat := range agg.Vocabulary {
		b, ok := byCategory[cat]
		if !ok {
			continue
		}
		stats := CategoryStats{Category: cat, Sales: decimal.Zero}
		for _, name := range b.keys {
			bucket := b.buckets[name]
			stats.Sales = stats.Sales.Add(bucket.Spent)
			stats.Transactions += bucket.Count
			if stats.TopProduct == "" || bucket.Spent.GreaterThan(stats.TopProductSales) {
				stats.TopProduct = name
				stats.TopProductSales = bucket.Spent
			}
		}
		if stats.Transactions > 0 {
			stats.AverageOrder = stats.Sales.Div(decimal.NewFromInt(int64(stats.Transactions))).Round(2)
		}
		s.Categories = append(s.Categories, stats)
	}

	if segments != nil {
		s.Segments = append(s.Segments, segments.Clusters...)
	}

	if tiers != nil {
		stats, err := summarizeTiers(agg, tiers)
		if err != nil {
			return nil, err
		}
		s.Tiers = stats
	}
	return s, nil
}

func summarizeTiers(agg *Aggregation, tiers *TierClassifier) ([]TierStats, error) {
	names := tiers.Names()
	counts := make(map[string]int, len(names))
	sums := make(map[string]decimal.Decimal, len(names))

	for _, p := range agg.Ordered() {
		tier, err := tiers.Classify(p)
		if err != nil {
			return nil, err
		}
		if tier == "" {
			continue
		}
		counts[tier]++
		sums[tier] = sums[tier].Add(p.TotalSpent)
	}

	out := make([]TierStats, 0, len(names))
	for _, name := range names {
		stats := TierStats{Tier: name, Count: counts[name]}
		if stats.Count > 0 {
			stats.AvgSpent = sums[name].Div(decimal.NewFromInt(int64(stats.Count))).Round(0).IntPart()
		}
		out = append(out, stats)
	}
	return out, nil
}
