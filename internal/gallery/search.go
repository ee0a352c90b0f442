// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package gallery

import (
	"regexp"
	"strings"

	"github.com/tomtom215/biozilla/internal/models"
)

// CategoryAll disables category scoping in AdminSearch.
const CategoryAll = "all"

// matcher does case-insensitive literal matching against a fixed query. The
// search functions and Highlight share it, so every hit has a highlighted
// segment.
type matcher struct {
	re *regexp.Regexp
}

func newMatcher(query string) *matcher {
	return &matcher{re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))}
}

func (m *matcher) contains(s string) bool {
	return m.re.MatchString(s)
}

// AdminSearch returns the items shown in the admin content table.
//
// An item matches when category is "all" (or empty) or appears in its tags, and
// the query is blank or a case-insensitive substring of its text. A blank query
// keeps every item in scope.
func AdminSearch(items []models.ContentItem, query, category string) []models.ContentItem {
	var m *matcher
	if strings.TrimSpace(query) != "" {
		m = newMatcher(query)
	}

	out := make([]models.ContentItem, 0, len(items))
	for i := range items {
		item := &items[i]
		if category != "" && category != CategoryAll && !item.HasTag(category) {
			continue
		}
		if m != nil && !m.contains(item.Text) {
			continue
		}
		out = append(out, *item)
	}
	return out
}

// PublicSearch backs the search modal.
//
// A blank query returns no results at all. Otherwise items are first scoped to
// category (when non-empty) and then kept if the query is a case-insensitive
// substring of the text or of any tag.
func PublicSearch(items []models.ContentItem, query, category string) []models.ContentItem {
	if strings.TrimSpace(query) == "" {
		return []models.ContentItem{}
	}
	m := newMatcher(query)

	out := make([]models.ContentItem, 0)
	for i := range items {
		item := &items[i]
		if category != "" && category != CategoryAll && !item.HasTag(category) {
			continue
		}
		if m.contains(item.Text) || m.anyTag(item.Tags) {
			out = append(out, *item)
		}
	}
	return out
}

func (m *matcher) anyTag(tags []string) bool {
	for _, tag := range tags {
		if m.contains(tag) {
			return true
		}
	}
	return false
}

// SearchCategories lists the categories offered as search scopes. Premium
// categories are excluded.
func SearchCategories(categories []models.Category) []models.Category {
	out := make([]models.Category, 0, len(categories))
	for i := range categories {
		if !categories[i].Premium {
			out = append(out, categories[i])
		}
	}
	return out
}

// CategoryItems returns the items on a category page: those tagged with
// categoryID and, when subcategoryID is non-empty, also tagged with it.
func CategoryItems(items []models.ContentItem, categoryID, subcategoryID string) []models.ContentItem {
	out := make([]models.ContentItem, 0)
	for i := range items {
		item := &items[i]
		if !item.HasTag(categoryID) {
			continue
		}
		if subcategoryID != "" && !item.HasTag(subcategoryID) {
			continue
		}
		out = append(out, *item)
	}
	return out
}
