// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package metrics exposes the Prometheus instrumentation of the service.

All collectors are registered on the default registry through promauto and
served by the /metrics endpoint.

Metric Families:

  - store_*: document store latency, errors and batch sizes, labelled by
    backend (badger, duckdb, memory), operation and collection
  - api_*: request counts, latency, in-flight requests and rate limit hits
  - catalog_*: mirror sizes, mutation outcomes and discarded stale loads
  - content_engagement_total: views, likes and shares recorded by visitors
  - cache_*: analytics snapshot cache hits, misses and evictions
  - auth_login_attempts_total: sign-in outcomes
  - blob_*: asset uploads
  - events_*, circuit_breaker_*: event bus traffic and the publisher breaker
  - websocket_*: connected clients and message traffic
  - app_*: build info and uptime

Recording helpers such as RecordStoreOperation and RecordAPIRequest keep
label handling in one place; error messages used as labels are truncated to
50 characters to bound cardinality.
*/
package metrics
