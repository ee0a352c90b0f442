// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package models

import (
	"time"
)

// Collection names used in the document store.
const (
	CollectionContent    = "content"
	CollectionCategories = "categories"
	CollectionMessages   = "messages"
	CollectionSettings   = "settings"

	// DesignConfigDocID is the id of the singleton design document inside CollectionSettings.
	DesignConfigDocID = "designConfig"
)

// ContentItem is a single bio, quote or caption shown in the gallery.
//
// Tags are ordered: Tags[0] is the primary category id and Tags[1], when present,
// is a subcategory id scoped to that category. CreatedAt is kept as the ISO-8601
// string it was stored with and parsed on demand, so malformed values survive a
// round trip unchanged.
type ContentItem struct {
	ID        string   `json:"id,omitempty"`
	Tags      []string `json:"tags"`
	Text      string   `json:"text"`
	Views     int64    `json:"views"`
	Likes     int64    `json:"likes"`
	Shares    int64    `json:"shares"`
	CreatedAt string   `json:"createdAt"`
	Featured  bool     `json:"featured"`
}

// PrimaryCategory returns Tags[0], or "" for untagged items.
func (c *ContentItem) PrimaryCategory() string {
	if len(c.Tags) == 0 {
		return ""
	}
	return c.Tags[0]
}

// Subcategory returns Tags[1], or "" when the item has no subcategory.
func (c *ContentItem) Subcategory() string {
	if len(c.Tags) < 2 {
		return ""
	}
	return c.Tags[1]
}

// HasTag reports whether tag appears anywhere in the item's tags.
func (c *ContentItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CreatedTime parses CreatedAt, reading zone-less date-times in time.Local.
// The boolean is false when the value is missing or not a recognizable
// ISO-8601 timestamp.
func (c *ContentItem) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(c.CreatedAt)
}

// CreatedTimeIn parses CreatedAt, reading zone-less date-times in loc.
func (c *ContentItem) CreatedTimeIn(loc *time.Location) (time.Time, bool) {
	return ParseTimestampIn(c.CreatedAt, loc)
}

// ParseTimestamp is ParseTimestampIn with time.Local.
func ParseTimestamp(s string) (time.Time, bool) {
	return ParseTimestampIn(s, time.Local)
}

// ParseTimestampIn parses the ISO-8601 variants written by clients and by
// this service. A date-time without an offset is wall clock time in loc; a
// bare date is midnight UTC, as browsers read both forms.
func ParseTimestampIn(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatTimestamp renders t the way new documents store it (UTC, millisecond precision).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Subcategory is a named subdivision of a Category. ID is the slug of Name.
type Subcategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category groups content items under a primary tag.
// Count is display-only and never recomputed from content.
type Category struct {
	ID            string        `json:"id,omitempty"`
	Name          string        `json:"name"`
	Subtitle      string        `json:"subtitle"`
	Count         int64         `json:"count"`
	Icon          IconKind      `json:"icon"`
	Premium       bool          `json:"premium"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// FindSubcategory returns the subcategory with the given id.
func (c *Category) FindSubcategory(id string) (Subcategory, bool) {
	for _, sc := range c.Subcategories {
		if sc.ID == id {
			return sc, true
		}
	}
	return Subcategory{}, false
}

// Message is a contact form submission.
type Message struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
	Read      bool   `json:"read"`
}
