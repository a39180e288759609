// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single purchase record. Transactions are immutable once
// ingested and are never mutated by the analysis pipeline.
type Transaction struct {
	// CustomerID identifies the buyer. Valid IDs are non-negative.
	CustomerID int `json:"customer_id" validate:"gte=0"`

	// ProductID identifies the product. Valid IDs start at 1.
	ProductID int `json:"product_id" validate:"gte=1"`

	// ProductName is the human-readable product name.
	ProductName string `json:"product_name" validate:"required"`

	// ProductCategory is the category the product belongs to.
	ProductCategory string `json:"product_category" validate:"required"`

	// PurchaseAmount is the amount paid. Must be non-negative.
	PurchaseAmount decimal.Decimal `json:"purchase_amount" validate:"gte=0"`

	// PurchaseDate is when the purchase happened.
	PurchaseDate time.Time `json:"purchase_date" validate:"required"`
}

// Check reports why a transaction cannot be used for analysis.
// It returns an empty string for a usable record.
func (t *Transaction) Check() string {
	switch {
	case t.CustomerID < 0:
		return fmt.Sprintf("negative customer id %d", t.CustomerID)
	case t.ProductID < 1:
		return fmt.Sprintf("product id %d out of range", t.ProductID)
	case t.ProductName == "":
		return "missing product name"
	case t.ProductCategory == "":
		return "missing product category"
	case t.PurchaseAmount.IsNegative():
		return fmt.Sprintf("negative purchase amount %s", t.PurchaseAmount.String())
	case t.PurchaseDate.IsZero():
		return "missing purchase date"
	}
	return ""
}

// Product is a catalog entry used to decorate recommendations.
type Product struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Catalog maps product IDs to product metadata.
type Catalog map[int]Product

// CatalogFromTransactions builds a catalog from the products seen in a batch.
// When the same product ID appears with different names, the last record wins.
func CatalogFromTransactions(txs []Transaction) Catalog {
	catalog := make(Catalog)
	for i := range txs {
		tx := &txs[i]
		if tx.ProductID < 1 || tx.ProductName == "" {
			continue
		}
		catalog[tx.ProductID] = Product{
			ID:       tx.ProductID,
			Name:     tx.ProductName,
			Category: tx.ProductCategory,
		}
	}
	return catalog
}

// Lookup returns the product with the given ID.
func (c Catalog) Lookup(id int) (Product, bool) {
	p, ok := c[id]
	return p, ok
}

// Batch is one complete, already-parsed set of transactions analyzed in a
// single run, together with the catalog used to name recommended products.
type Batch struct {
	Transactions []Transaction
	Catalog      Catalog
}

// Pairs extracts the (customer, product) purchase pairs of the usable
// transactions in input order. Records that fail Check are left out, so the
// pairs cover the same population as aggregation.
func (b *Batch) Pairs() []Purchase {
	pairs := make([]Purchase, 0, len(b.Transactions))
	for i := range b.Transactions {
		tx := &b.Transactions[i]
		if tx.Check() != "" {
			continue
		}
		pairs = append(pairs, Purchase{CustomerID: tx.CustomerID, ProductID: tx.ProductID})
	}
	return pairs
}

// Purchase is a bare (customer, product) pair used for model training.
type Purchase struct {
	CustomerID int `json:"customer_id"`
	ProductID  int `json:"product_id"`
}
