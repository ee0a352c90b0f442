// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package models

import (
	"time"
)

// APIResponse is the envelope every JSON endpoint returns.
//
// Status is "success" or "error". On error, Data is null and Error is set.
//
// Example:
//
//	{
//	  "status": "success",
//	  "data": [{"id": "a1", "text": "hello", "tags": ["bio"]}],
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 2}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError describes a failed request.
//
// Common codes: VALIDATION_ERROR, NOT_FOUND, STORE_ERROR, UPLOAD_ERROR,
// AUTHENTICATION_ERROR, AUTHORIZATION_ERROR, RATE_LIMIT_EXCEEDED.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Page is one page of an admin listing.
type Page struct {
	Items       []ContentItem `json:"items"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalItems  int           `json:"total_items"`
	TotalPages  int           `json:"total_pages"`
	PageNumbers []int         `json:"page_numbers"`
}
