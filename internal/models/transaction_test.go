// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTransaction() Transaction {
	return Transaction{
		CustomerID:      3,
		ProductID:       2,
		ProductName:     "Kettle",
		ProductCategory: "Kitchen",
		PurchaseAmount:  decimal.RequireFromString("45.50"),
		PurchaseDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransaction_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Transaction)
		want   string
	}{
		{"valid", func(*Transaction) {}, ""},
		{"customer zero is valid", func(tx *Transaction) { tx.CustomerID = 0 }, ""},
		{"zero amount is valid", func(tx *Transaction) { tx.PurchaseAmount = decimal.Zero }, ""},
		{"negative customer", func(tx *Transaction) { tx.CustomerID = -1 }, "negative customer id"},
		{"product zero", func(tx *Transaction) { tx.ProductID = 0 }, "product id 0"},
		{"missing name", func(tx *Transaction) { tx.ProductName = "" }, "missing product name"},
		{"missing category", func(tx *Transaction) { tx.ProductCategory = "" }, "missing product category"},
		{"negative amount", func(tx *Transaction) { tx.PurchaseAmount = decimal.NewFromInt(-1) }, "negative purchase amount"},
		{"missing date", func(tx *Transaction) { tx.PurchaseDate = time.Time{} }, "missing purchase date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tx := validTransaction()
			tt.modify(&tx)
			got := tx.Check()
			if tt.want == "" && got != "" {
				t.Errorf("Check() = %q, want valid", got)
			}
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("Check() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestCatalogFromTransactions(t *testing.T) {
	t.Parallel()

	a := validTransaction()
	b := validTransaction()
	b.ProductName = "Steel Kettle"
	c := validTransaction()
	c.ProductID = 0

	catalog := CatalogFromTransactions([]Transaction{a, b, c})
	if len(catalog) != 1 {
		t.Fatalf("len(catalog) = %d, want 1", len(catalog))
	}
	p, ok := catalog.Lookup(2)
	if !ok || p.Name != "Steel Kettle" || p.Category != "Kitchen" {
		t.Errorf("Lookup(2) = %+v, %v, want last record to win", p, ok)
	}
	if _, ok := catalog.Lookup(0); ok {
		t.Error("Lookup(0) found an invalid product")
	}
	var empty Catalog
	if _, ok := empty.Lookup(1); ok {
		t.Error("nil catalog Lookup reported a product")
	}
}

func TestBatch_Pairs(t *testing.T) {
	t.Parallel()

	a := validTransaction()
	b := validTransaction()
	b.CustomerID, b.ProductID = 0, 7
	bad := validTransaction()
	bad.ProductName = ""
	negative := validTransaction()
	negative.CustomerID = -1

	batch := Batch{Transactions: []Transaction{a, bad, b, negative}}
	pairs := batch.Pairs()
	want := []Purchase{{CustomerID: 3, ProductID: 2}, {CustomerID: 0, ProductID: 7}}
	if len(pairs) != len(want) {
		t.Fatalf("len(Pairs) = %d, want %d", len(pairs), len(want))
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("Pairs[%d] = %+v, want %+v", i, pairs[i], want[i])
		}
	}
}
