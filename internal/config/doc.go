// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

/*
Package config loads Basketlens configuration with koanf.

# Configuration Sources

Sources are layered, later ones overriding earlier ones:

 1. Built-in defaults (the reference analysis settings)
 2. A YAML file: the --config flag, else CONFIG_PATH, else the first of
    basketlens.yaml, basketlens.yml, config.yaml, config.yml,
    /etc/basketlens/config.yaml
 3. Environment variables, after a .env file in the working directory is
    loaded (existing variables win over .env)

# Environment Variables

Data:
  - TRANSACTIONS_PATH: transaction CSV (default: transactions.csv)
  - CATALOG_PATH: optional product catalog CSV
  - MAX_ISSUES: rejected-row details kept per load (default: 100)

Segmentation:
  - SEGMENT_CLUSTERS: number of segments (default: 4)
  - SEGMENT_MAX_ITERATIONS, SEGMENT_TOLERANCE, SEGMENT_SEED, SEGMENT_WORKERS
  - SEGMENT_LABEL_POLICY: positional or spend_rank (default: positional)
  - SEGMENT_LABELS: comma-separated label set

Recommendation model:
  - RECOMMEND_ENABLED (default: true)
  - RECOMMEND_HIDDEN_LAYERS: comma-separated widths (default: 128,64)
  - RECOMMEND_EPOCHS (default: 10), RECOMMEND_BATCH_SIZE (default: 32)
  - RECOMMEND_LEARNING_RATE (default: 0.001)
  - RECOMMEND_WORKERS, RECOMMEND_SEED, RECOMMEND_TIMEOUT
  - RECOMMEND_DEFAULT_K (default: 3), RECOMMEND_MAX_K (default: 100)

Analysis schedule:
  - ANALYSIS_INTERVAL: periodic re-run, 0 runs once (default: 0)
  - ANALYSIS_RUN_TIMEOUT (default: 15m)

HTTP server and API:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - API_DEFAULT_PAGE_SIZE (default: 10), API_MAX_PAGE_SIZE (default: 100)
  - CORS_ORIGINS: comma-separated (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file and line

Spend tiers are configured in YAML only:

	tiers:
	  - name: premium
	    expression: customer.total_spent > 1000.0 && customer.categories >= 3
	  - name: everyone
	    expression: "true"

# Validation

Load rejects invalid configuration. Struct tags are checked with
go-playground/validator, then each component's own rules run: segment label
counts, network shape, and tier expressions that must compile to booleans.
*/
package config
