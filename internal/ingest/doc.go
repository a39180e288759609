// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

/*
Package ingest reads purchase CSV files into an in-memory models.Batch.

Transaction files need a header row naming the six columns in any order:

	customerId,productId,productName,productCategory,purchaseAmount,purchaseDate
	17,4,Rustic Steel Chair,Home & Kitchen,212.40,05 March 2024

Header matching ignores case, underscores, hyphens and spaces, so
customer_id and CustomerID both work. Dates accept 2006-01-02, RFC3339 and
"02 January 2006". Amounts are parsed as exact decimals.

Rows that fail to parse or validate are skipped and counted in LoadStats
rather than failing the file. A file missing a required column is a data
quality error.

An optional catalog file (productId,productName,productCategory) supplies
product names for recommendations. Without one, the catalog is built from
the transactions and the last row for a product wins.
*/
package ingest
