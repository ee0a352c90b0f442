// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package analytics derives the admin statistics from a content snapshot.

Key Components:

  - Engine.WeeklySeries: seven local-calendar-day buckets, oldest first, today last
  - PercentChange: last bucket against first bucket
  - TopContent: weighted ranking views + 2*likes + 3*shares
  - PopularCategories: item counts by primary tag, scaled so the largest is 100%
  - Totals and Engine.Build: the full dashboard snapshot

All sums are exact int64 arithmetic. Percentages round half up to the nearest
integer. The engine takes its clock and time zone as inputs so results are
reproducible in tests.
*/
package analytics
