// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: reuses or generates an X-Request-ID and stores it in the
    request context for logging.
  - PrometheusMetrics: request counts, durations and in-flight gauge.

Both use the func(http.Handler) http.Handler shape so they compose with
chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics labels requests with the matched chi route pattern
rather than the raw path, so customer IDs do not create new series.
*/
package middleware
