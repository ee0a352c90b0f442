// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package gallery implements the retrieval side of the content pipeline.

Everything here is a pure function of its inputs: callers pass a snapshot of
content items and get back a new slice. Input slices are never reordered.

Key Components:

  - Filter: featured-only views ordered by trending score, recency, views, or shuffled
  - AdminSearch / Paginate / PageNumbers: the admin content table
  - PublicSearch / Highlight: the search modal, text or tag match
  - CategoryItems: the category page with optional subcategory narrowing
  - Slugify: subcategory id derivation
  - Debouncer: coalesces rapid search input before recomputing
*/
package gallery
