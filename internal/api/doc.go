// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

/*
Package api serves the latest analysis run over HTTP.

The router is built on chi with request IDs, panic recovery, Prometheus
instrumentation, CORS (go-chi/cors) and per-IP rate limiting
(go-chi/httprate). Handlers read the most recently published
analysis.Result, so a background re-run never blocks requests.

# Endpoints

	GET /api/v1/health                                  liveness and readiness
	GET /api/v1/status                                  latest run and training status
	GET /api/v1/summary                                 batch statistics and tiers
	GET /api/v1/segments?page=&page_size=               paginated assignments
	GET /api/v1/segments/{customerID}                   one customer's segment
	GET /api/v1/customers/{customerID}/recommendations?k=
	GET /metrics                                        Prometheus exposition

# Response Format

Every endpoint except /metrics returns models.APIResponse:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 2, "run_id": "..."}
	}

Errors carry {"code", "message"}. Before the first run completes data
endpoints answer 503 NOT_READY. A failed run maps its error kind to a
status: data quality and configuration failures are 422, out-of-range
customers are 404.

# Recommendations

k is optional. Omitted selects the configured default, an explicit k <= 0
returns an empty list, and values above the configured maximum are capped.
*/
package api
