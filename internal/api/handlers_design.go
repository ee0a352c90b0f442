// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/biozilla/internal/blob"
	"github.com/tomtom215/biozilla/internal/design"
	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/models"
)

// uploadFormField is the multipart field carrying the image.
const uploadFormField = "file"

// multipartOverhead is the allowance for form boundaries and headers on top of
// the image size limit.
const multipartOverhead = 64 << 10

// UpdateDesign saves the whole design document.
func (h *Handler) UpdateDesign(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var cfg models.DesignConfig
	if !h.decodeJSON(w, r, &cfg) {
		return
	}
	saved, err := h.design.Save(r.Context(), cfg)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, design.Resolve(saved), start)
}

// UploadDesignAsset stores a logo or favicon image and saves its URL.
func (h *Handler) UploadDesignAsset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	kind := design.AssetKind(chi.URLParam(r, "kind"))

	r.Body = http.MaxBytesReader(w, r.Body, blob.MaxImageSize+multipartOverhead)
	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, CodeUploadError, blob.Message(blob.ErrTooLarge), nil)
			return
		}
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Please select a file to upload.", nil)
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logging.Ctx(r.Context()).Warn().Err(cerr).Msg("Failed to close upload")
		}
	}()

	cfg, err := h.design.UploadAsset(r.Context(), kind, header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	switch {
	case err == nil:
		respondSuccess(w, http.StatusOK, design.Resolve(cfg), start)
	case errors.Is(err, design.ErrUnknownAsset),
		errors.Is(err, blob.ErrNotImage),
		errors.Is(err, blob.ErrTooLarge),
		errors.Is(err, design.ErrSave):
		respondDomainError(w, r, err)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("asset", string(kind)).Msg("Design asset upload failed")
		respondError(w, http.StatusInternalServerError, CodeUploadError, blob.Message(err), nil)
	}
}
