// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

/*
Package metrics provides Prometheus instrumentation for Basketlens.

All collectors are registered with the default registry through promauto
and exposed by the API server at /metrics.

Metric Families:

  - basketlens_analysis_*: run counts by status, run duration, last success
  - basketlens_records_skipped_total: rejected records by stage (ingest,
    aggregate, encode)
  - basketlens_segment_size, basketlens_customers_segmented,
    basketlens_kmeans_iterations: latest segmentation
  - basketlens_training_*: model training duration, errors, epochs, loss
  - basketlens_recommendation_*: request outcomes and latency
  - api_*: HTTP request counts, latency and in-flight requests

Recording helpers keep label values consistent:

	metrics.RecordAnalysisRun(metrics.StatusOK, time.Since(start))
	metrics.RecordRecommendation(metrics.OutcomeOK, time.Since(start))
*/
package metrics
