// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

// Package validation validates request bodies with go-playground/validator v10.
//
// A single validator instance is shared by every handler. Field names in
// messages are the JSON names of the request body, so a missing "siteName"
// reads "siteName is required".
//
// Custom tags:
//
//	icon  models.IconKind or its wire name, e.g. "ShayariIcon"
//	slug  lowercase letters, digits and dashes
//
// Usage:
//
//	type engagementRequest struct {
//	    Action string `json:"action" validate:"required,oneof=view like share"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
