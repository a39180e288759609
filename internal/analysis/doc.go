// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

// Package analysis runs one complete customer analysis over a batch of
// transactions.
//
// A run aggregates the batch once, then segments customers and trains the
// recommendation model concurrently:
//
//	analyzer, err := analysis.NewAnalyzer(analysis.OptionsFromConfig(cfg), logger)
//	result, err := analyzer.Run(ctx, batch)
//	page := analysis.Page(result.Assignments(), 1, 10)
//	resp, err := result.Recommend(ctx, 7, 3)
//
// Results are immutable and carry their own recommendation engine, so a
// server can swap in a newer run while requests still read the old one.
package analysis
