// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package models defines the data structures shared across Biozilla.

Key Components:

  - ContentItem: a bio, quote or caption with its tags and engagement counters
  - Category / Subcategory: the classification used by tags
  - IconKind: closed enumeration of category icons
  - Message: a contact form submission
  - DesignConfig: the singleton theming and SEO record
  - APIResponse: the JSON envelope returned by every endpoint

Documents are stored with the camelCase field names used by the original
frontend (createdAt, logoUrl) so existing exports load unchanged.
*/
package models
