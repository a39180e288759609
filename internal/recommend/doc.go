// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

// Package recommend trains a purchase-based product recommender and ranks
// its predictions.
//
// # Pipeline
//
//   - Encode: (customer, product) pairs become one-hot examples. The customer
//     ID is the input position and NumCustomers is the distinct customer
//     count; the label is productID-1 and NumProducts is max productID + 1.
//   - Train: feed-forward network (128 and 64 ReLU units by default, softmax
//     output), Adam, categorical cross-entropy, 10 epochs of 32-example
//     mini-batches.
//   - Predict: distribution over NumProducts outputs for one customer.
//   - TopK: descending score, ties by ascending product ID, catalog lookup
//     with "Product N" / "Unknown" placeholders.
//
// The model approximates collaborative filtering within one batch. It does
// not generalize beyond the universe it was trained on; a batch with a
// different universe requires retraining. Engine.CheckUniverse reports
// ErrStaleModel for such a batch, and the analysis package surfaces it as
// RunStats.UniverseChanged.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	// Pairs skips transactions that fail Transaction.Check.
//	if err := engine.Train(ctx, batch.Pairs(), batch.Catalog); err != nil {
//	    return err
//	}
//	resp, err := engine.Recommend(ctx, recommend.Request{CustomerID: 7, K: 3})
//
// # Determinism
//
// Weight initialization and shuffling are seeded (default 42) and the
// gradient of each mini-batch is reduced over a fixed shard layout, so
// training the same batch twice yields the same model.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Predictions share a read lock; a
// retrain swaps the finished model in under the write lock.
package recommend
