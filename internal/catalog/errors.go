// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package catalog

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel wrapped by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ErrUnknownAction is returned by RecordEngagement for anything but view, like or share.
var ErrUnknownAction = errors.New("unknown engagement action")

// Validation messages shown to the admin.
const (
	MessageContentRequired      = "Text and main category are required."
	MessageCategoryRequired     = "Name, Subtitle, and Icon are required."
	MessageDuplicateSubcategory = "Subcategory with this name already exists."
	MessageSubcategoryRequired  = "Subcategory name is required."
	MessageUnknownCategory      = "Main category does not exist."
	MessageUnknownSubcategory   = "Subcategory does not belong to the main category."
	MessageNothingSelected      = "No items selected."
)

// Action failure messages.
const (
	MessageSaveContentFailed    = "Failed to save content."
	MessageDeleteContentFailed  = "Failed to delete content."
	MessageSaveCategoryFailed   = "Failed to save category."
	MessageDeleteCategoryFailed = "Failed to delete category."
	MessageBulkDeleteFailed     = "Failed to delete selected items."
	MessageBulkUpdateFailed     = "Failed to update items."
)

// ValidationError rejects input before any store call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// ActionError is a failed store write, carrying the message the admin sees.
type ActionError struct {
	Op      string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text for err: the validation message, the
// action failure message, or "" when err carries neither.
func Message(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var aerr *ActionError
	if errors.As(err, &aerr) {
		return aerr.Message
	}
	return ""
}
