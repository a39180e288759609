// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

// Package segment groups customers by purchase behavior.
//
// A batch flows through four stages:
//
//   - Aggregate folds transactions into per-customer profiles. Category and
//     product breakdowns keep first-seen order so "most used" ties resolve
//     to the earliest key.
//   - BuildFeatures turns profiles into rows of
//     [totalSpent, frequency, count(cat_1) ... count(cat_K)].
//   - Normalize min-max scales every column into [0, 1] using bounds from
//     the whole batch. Constant columns become 0.
//   - KMeans clusters the rows (k-means++ seeded, default k = 4) and
//     LabelClusters names the clusters.
//
// Segmenter runs the stages with a validated Config. TierClassifier and
// Summarize add rule-based spend tiers and batch statistics on top.
//
// Label policy: the default positional policy gives cluster i the i-th
// label, which carries no meaning about the cluster's contents. The
// spend_rank policy orders labels by cluster mean spend instead.
package segment
