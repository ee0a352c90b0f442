// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biozilla/internal/auth"
	"github.com/tomtom215/biozilla/internal/blob"
	"github.com/tomtom215/biozilla/internal/catalog"
	"github.com/tomtom215/biozilla/internal/design"
	"github.com/tomtom215/biozilla/internal/inbox"
	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/store"
	"github.com/tomtom215/biozilla/internal/validation"
)

// Error codes of the response envelope.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInternal         = "INTERNAL_ERROR"
	CodeStoreError       = "STORE_ERROR"
	CodeUploadError      = "UPLOAD_ERROR"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeNotReady         = "SERVICE_UNAVAILABLE"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// defaultMaxBodyBytes bounds JSON request bodies when the config leaves it unset.
const defaultMaxBodyBytes = 1 << 20

// sanitizeLogValue replaces control characters so request values cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON writes response with an ETag over the encoded body.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag hashes data with FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// newEnvelope wraps data in a success envelope. start is when handling began.
func newEnvelope(data any, start time.Time, cached bool) *models.APIResponse {
	return &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	}
}

// respondSuccess sends data in a success envelope.
func respondSuccess(w http.ResponseWriter, status int, data any, start time.Time) {
	respondJSON(w, status, newEnvelope(data, start, false))
}

// respondError sends an error envelope. A non-nil err is logged.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondAPIError(w, status, &models.APIError{Code: code, Message: message})
}

func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: apiErr,
	})
}

// WriteAuthError adapts respondError to auth.ErrorWriter.
func WriteAuthError(w http.ResponseWriter, _ *http.Request, status int, code, message string) {
	respondError(w, status, code, message, nil)
}

var _ auth.ErrorWriter = WriteAuthError

// respondDomainError maps an error from the domain packages to a status, code
// and the user-facing message it carries.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
	case errors.Is(err, catalog.ErrValidation), errors.Is(err, inbox.ErrInvalid):
		respondError(w, http.StatusBadRequest, CodeValidation, userMessage(err), nil)
	case errors.Is(err, catalog.ErrUnknownAction), errors.Is(err, design.ErrUnknownAsset):
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
	case errors.Is(err, blob.ErrNotImage), errors.Is(err, blob.ErrTooLarge):
		respondError(w, http.StatusBadRequest, CodeUploadError, blob.Message(err), nil)
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, "Not found", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Request failed")
		message := userMessage(err)
		if message == "" {
			message = "Internal server error"
		}
		respondError(w, http.StatusInternalServerError, CodeStoreError, message, nil)
	}
}

// userMessage returns the text the admin or visitor sees for err.
func userMessage(err error) string {
	if msg := catalog.Message(err); msg != "" {
		return msg
	}
	if msg := inbox.Message(err); msg != "" {
		return msg
	}
	if errors.Is(err, design.ErrSave) {
		return design.MessageSaveFailed
	}
	return ""
}

// decodeJSON reads a bounded JSON body into v and validates it.
// It writes the error response itself and reports whether decoding succeeded.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	limit := h.maxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, CodeInvalidRequest, "Request body too large", nil)
			return false
		}
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Failed to read request body", nil)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid JSON body", nil)
		return false
	}
	if apiErr := validateRequest(v); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return false
	}
	return true
}

// validateRequest validates a struct using go-playground/validator.
func validateRequest(v any) *models.APIError {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr.ToAPIError()
	}
	return nil
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
