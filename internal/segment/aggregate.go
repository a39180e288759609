// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package segment

import (
	"github.com/shopspring/decimal"

	"github.com/tomtom215/basketlens/internal/models"
)

// maxRecordedIssues bounds the per-record issue list. Skipped still counts
// every rejected record.
const maxRecordedIssues = 100

// Bucket accumulates purchases for one category or product of a customer.
type Bucket struct {
	Count int             `json:"count"`
	Spent decimal.Decimal `json:"spent"`
}

// Breakdown is an insertion-ordered map of buckets. Iteration order is the
// order in which keys were first seen, which makes tie-breaking in Top
// reproducible across runs.
type Breakdown struct {
	keys    []string
	buckets map[string]*Bucket
}

func newBreakdown() *Breakdown {
	return &Breakdown{buckets: make(map[string]*Bucket)}
}

func (b *Breakdown) add(key string, amount decimal.Decimal) {
	bucket, ok := b.buckets[key]
	if !ok {
		bucket = &Bucket{}
		b.buckets[key] = bucket
		b.keys = append(b.keys, key)
	}
	bucket.Count++
	bucket.Spent = bucket.Spent.Add(amount)
}

// Keys returns the keys in first-seen order.
func (b *Breakdown) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Get returns the bucket for key.
func (b *Breakdown) Get(key string) (Bucket, bool) {
	bucket, ok := b.buckets[key]
	if !ok {
		return Bucket{}, false
	}
	return *bucket, true
}

// Count returns the purchase count for key, 0 when absent.
func (b *Breakdown) Count(key string) int {
	if bucket, ok := b.buckets[key]; ok {
		return bucket.Count
	}
	return 0
}

// Len returns the number of distinct keys.
func (b *Breakdown) Len() int {
	return len(b.keys)
}

// Total returns the sum of all bucket counts.
func (b *Breakdown) Total() int {
	total := 0
	for _, bucket := range b.buckets {
		total += bucket.Count
	}
	return total
}

// Top returns the key with the highest count. Ties go to the key seen first.
func (b *Breakdown) Top() (string, bool) {
	best := ""
	bestCount := 0
	for _, key := range b.keys {
		if c := b.buckets[key].Count; c > bestCount {
			best, bestCount = key, c
		}
	}
	return best, bestCount > 0
}

// CustomerProfile is the aggregated purchase behavior of one customer.
type CustomerProfile struct {
	ID         int             `json:"id"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Frequency  int             `json:"frequency"`

	// AvgSpent is TotalSpent / Frequency, kept current by Add.
	AvgSpent decimal.Decimal `json:"avg_spent"`

	// Categories and Products are keyed by category and product name.
	Categories *Breakdown `json:"-"`
	Products   *Breakdown `json:"-"`
}

// NewCustomerProfile returns an empty profile for id.
func NewCustomerProfile(id int) *CustomerProfile {
	return &CustomerProfile{
		ID:         id,
		Categories: newBreakdown(),
		Products:   newBreakdown(),
	}
}

// Add folds a transaction into the profile.
func (p *CustomerProfile) Add(tx *models.Transaction) {
	p.TotalSpent = p.TotalSpent.Add(tx.PurchaseAmount)
	p.Frequency++
	p.Categories.add(tx.ProductCategory, tx.PurchaseAmount)
	p.Products.add(tx.ProductName, tx.PurchaseAmount)
	p.AvgSpent = p.TotalSpent.Div(decimal.NewFromInt(int64(p.Frequency)))
}

// MostUsedCategory returns the category with the most purchases.
func (p *CustomerProfile) MostUsedCategory() string {
	top, _ := p.Categories.Top()
	return top
}

// FavoriteProduct returns the product bought most often.
func (p *CustomerProfile) FavoriteProduct() string {
	top, _ := p.Products.Top()
	return top
}

// RecordIssue describes a skipped input record.
type RecordIssue struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Aggregation is the result of folding a transaction batch into profiles.
type Aggregation struct {
	// Profiles is keyed by customer ID.
	Profiles map[int]*CustomerProfile

	// Order lists customer IDs in first-seen order.
	Order []int

	// Vocabulary lists product categories in first-seen order across the batch.
	Vocabulary []string

	// Processed counts input records, Skipped those rejected by validation.
	Processed int
	Skipped   int

	// Issues holds the first rejected records with their reasons.
	Issues []RecordIssue
}

// Len returns the number of customers.
func (a *Aggregation) Len() int {
	return len(a.Order)
}

// Ordered returns the profiles in first-seen order.
func (a *Aggregation) Ordered() []*CustomerProfile {
	out := make([]*CustomerProfile, 0, len(a.Order))
	for _, id := range a.Order {
		out = append(out, a.Profiles[id])
	}
	return out
}

// Profile returns the profile for a customer.
func (a *Aggregation) Profile(id int) (*CustomerProfile, bool) {
	p, ok := a.Profiles[id]
	return p, ok
}

// Aggregate folds transactions into per-customer profiles.
//
// Records failing Transaction.Check are skipped and counted rather than
// failing the batch. An empty batch yields an empty aggregation.
func Aggregate(txs []models.Transaction) *Aggregation {
	agg := &Aggregation{
		Profiles:  make(map[int]*CustomerProfile),
		Processed: len(txs),
	}
	seenCategory := make(map[string]struct{})

	for i := range txs {
		tx := &txs[i]
		if reason := tx.Check(); reason != "" {
			agg.Skipped++
			if len(agg.Issues) < maxRecordedIssues {
				agg.Issues = append(agg.Issues, RecordIssue{Index: i, Reason: reason})
			}
			continue
		}

		profile, ok := agg.Profiles[tx.CustomerID]
		if !ok {
			profile = NewCustomerProfile(tx.CustomerID)
			agg.Profiles[tx.CustomerID] = profile
			agg.Order = append(agg.Order, tx.CustomerID)
		}
		profile.Add(tx)

		if _, ok := seenCategory[tx.ProductCategory]; !ok {
			seenCategory[tx.ProductCategory] = struct{}{}
			agg.Vocabulary = append(agg.Vocabulary, tx.ProductCategory)
		}
	}

	return agg
}
