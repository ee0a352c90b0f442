// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"github.com/tomtom215/biozilla/internal/models"
)

// Request bodies. Required-field checks with their admin-facing messages live
// in the catalog and inbox packages; the tags here bound sizes and shapes.

// LoginRequest is the admin sign in form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// ContentRequest creates or edits a content item.
type ContentRequest struct {
	Text        string `json:"text" validate:"max=5000"`
	Category    string `json:"category" validate:"max=64"`
	Subcategory string `json:"subcategory" validate:"max=64"`
	Featured    bool   `json:"featured"`
}

// BulkRequest selects content items for a bulk action.
type BulkRequest struct {
	IDs []string `json:"ids" validate:"max=500,dive,required,max=128"`
}

// BulkFeatureRequest sets the featured flag on the selected items.
type BulkFeatureRequest struct {
	IDs      []string `json:"ids" validate:"max=500,dive,required,max=128"`
	Featured bool     `json:"featured"`
}

// CategoryRequest creates or edits a category.
type CategoryRequest struct {
	Name          string               `json:"name" validate:"max=80"`
	Subtitle      string               `json:"subtitle" validate:"max=160"`
	Icon          models.IconKind      `json:"icon" validate:"omitempty,icon"`
	Premium       bool                 `json:"premium"`
	Subcategories []models.Subcategory `json:"subcategories" validate:"max=100"`
}

// SubcategoryRequest adds a subcategory.
type SubcategoryRequest struct {
	Name string `json:"name" validate:"max=80"`
}

// EngagementRequest records one view, like or share.
type EngagementRequest struct {
	Action string `json:"action" validate:"required,oneof=view like share"`
}

// MessageRequest is the public contact form.
type MessageRequest struct {
	Name    string `json:"name" validate:"max=120"`
	Email   string `json:"email" validate:"max=254"`
	Message string `json:"message"`
}

// ReadRequest marks a message read or unread.
type ReadRequest struct {
	Read bool `json:"read"`
}
