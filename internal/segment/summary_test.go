// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package segment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/basketlens/internal/models"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	txs := sampleTransactions()
	invalid := tx(9, 1, "Watch", "Luxury", 10)
	invalid.PurchaseAmount = decimal.NewFromInt(-10)
	txs = append(txs, invalid)

	agg := Aggregate(txs)
	seg, err := newTestSegmenter(t, nil).Segment(context.Background(), agg)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}
	tiers, err := NewTierClassifier(DefaultTierRules())
	if err != nil {
		t.Fatalf("NewTierClassifier() error = %v", err)
	}

	s, err := Summarize(txs, agg, seg, tiers)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if s.TotalCustomers != 6 {
		t.Errorf("TotalCustomers = %d, want 6", s.TotalCustomers)
	}
	if s.TotalProducts != 7 {
		t.Errorf("TotalProducts = %d, want 7", s.TotalProducts)
	}
	if s.Transactions != 12 || s.Skipped != 1 {
		t.Errorf("Transactions/Skipped = %d/%d, want 12/1", s.Transactions, s.Skipped)
	}
	if !s.TotalSales.Equal(decimal.NewFromInt(6894)) {
		t.Errorf("TotalSales = %s, want 6894", s.TotalSales)
	}

	wantCategories := []string{"Luxury", "Apparel", "Grocery", "Books"}
	if len(s.Categories) != len(wantCategories) {
		t.Fatalf("len(Categories) = %d, want %d", len(s.Categories), len(wantCategories))
	}
	for i, name := range wantCategories {
		if s.Categories[i].Category != name {
			t.Errorf("Categories[%d] = %q, want %q", i, s.Categories[i].Category, name)
		}
	}

	lux := s.Categories[0]
	if !lux.Sales.Equal(decimal.NewFromInt(6800)) || lux.Transactions != 3 || lux.TopProduct != "Watch" {
		t.Errorf("Luxury stats = %+v", lux)
	}
	if !lux.AverageOrder.Equal(decimal.RequireFromString("2266.67")) {
		t.Errorf("Luxury AverageOrder = %s, want 2266.67", lux.AverageOrder)
	}

	grocery := s.Categories[2]
	if grocery.TopProduct != "Bread" || !grocery.TopProductSales.Equal(decimal.NewFromInt(8)) {
		t.Errorf("Grocery top = %s (%s), want Bread (8)", grocery.TopProduct, grocery.TopProductSales)
	}

	if len(s.Segments) != len(seg.Clusters) {
		t.Errorf("len(Segments) = %d, want %d", len(s.Segments), len(seg.Clusters))
	}

	counts := map[string]int{}
	for _, ts := range s.Tiers {
		counts[ts.Tier] = ts.Count
	}
	// Customers 0 and 5 exceed 500 in a single category.
	if counts["premium"] != 0 || counts["regular"] != 2 || counts["occasional"] != 4 {
		t.Errorf("tier counts = %v, want premium 0 / regular 2 / occasional 4", counts)
	}
	for _, ts := range s.Tiers {
		if ts.Tier == "regular" && ts.AvgSpent != 3400 {
			t.Errorf("regular AvgSpent = %d, want 3400", ts.AvgSpent)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s, err := Summarize(nil, Aggregate(nil), nil, nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.TotalCustomers != 0 || s.Transactions != 0 || !s.TotalSales.IsZero() {
		t.Errorf("Summarize(empty) = %+v, want zero totals", s)
	}
	if s.Categories == nil || s.Tiers == nil || s.Segments == nil {
		t.Error("Summarize(empty) returned nil slices")
	}
}

func TestSummarize_WithoutSegments(t *testing.T) {
	t.Parallel()

	txs := []models.Transaction{tx(1, 1, "Novel", "Books", 20)}
	s, err := Summarize(txs, Aggregate(txs), nil, nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(s.Segments) != 0 || len(s.Tiers) != 0 {
		t.Errorf("Segments/Tiers = %v/%v, want empty", s.Segments, s.Tiers)
	}
	if len(s.Categories) != 1 || s.Categories[0].Category != "Books" {
		t.Errorf("Categories = %+v", s.Categories)
	}
}
