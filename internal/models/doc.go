// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

/*
Package models defines the data structures shared across Basketlens.

Key Components:

  - Transaction: one purchase record (customer, product, category, amount, date)
  - Catalog: product ID to name/category lookup used by the ranker
  - Batch: the complete in-memory input of one analysis run
  - Error / ErrorKind: classified failures (data quality, configuration,
    out of range, empty input) usable with errors.Is and errors.As
  - APIResponse: the HTTP response envelope

Amounts use shopspring/decimal so spend totals are exact; conversion to
float64 happens only at the feature-vector boundary.
*/
package models
