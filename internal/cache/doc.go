// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package cache provides a generic in-memory TTL cache.

The analytics dashboard is the main user: the stats snapshot and rendered
charts are cached for a few minutes and the whole cache is cleared when a
catalog change event arrives, so a stale dashboard lives at most one TTL
when events are lost.

Hits and misses are exported as cache_hits_total and
cache_misses_total, labelled with the cache name.

Keys for parameterized results come from GenerateKey:

	key := cache.GenerateKey("chart", map[string]any{"metric": "views", "hover": 3})
*/
package cache
