// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/biozilla/internal/catalog"
	"github.com/tomtom215/biozilla/internal/gallery"
	"github.com/tomtom215/biozilla/internal/models"
)

// BulkResult reports how many items a bulk action touched.
type BulkResult struct {
	Affected int `json:"affected"`
}

// AdminContent pages through the admin search of ?q= within ?category=.
func (h *Handler) AdminContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	matches := gallery.AdminSearch(h.catalog.Content(), q.Get("q"), q.Get("category"))
	page := gallery.Paginate(matches, getIntParam(r, "page", 1), h.pageSize)
	respondSuccess(w, http.StatusOK, page, start)
}

// CreateContent adds a content item.
func (h *Handler) CreateContent(w http.ResponseWriter, r *http.Request) {
	h.saveContent(w, r, "", http.StatusCreated)
}

// UpdateContent edits the item named by {id}, keeping its counters.
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	h.saveContent(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *Handler) saveContent(w http.ResponseWriter, r *http.Request, id string, status int) {
	start := time.Now()

	var req ContentRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if id != "" {
		if _, ok := h.catalog.Item(id); !ok {
			respondError(w, http.StatusNotFound, CodeNotFound, "Content not found", nil)
			return
		}
	}

	item, err := h.catalog.SaveContent(r.Context(), catalog.ContentInput{
		ID:          id,
		Text:        req.Text,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Featured:    req.Featured,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, status, item, start)
}

// DeleteContent removes the item named by {id}.
func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.catalog.DeleteContent(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"id": id}, start)
}

// BulkDeleteContent removes every selected item in one batch.
func (h *Handler) BulkDeleteContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BulkRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	n, err := h.catalog.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, BulkResult{Affected: n}, start)
}

// BulkFeatureContent sets the featured flag on every selected item in one batch.
func (h *Handler) BulkFeatureContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BulkFeatureRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	n, err := h.catalog.BulkSetFeatured(r.Context(), req.IDs, req.Featured)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, BulkResult{Affected: n}, start)
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	h.saveCategory(w, r, "", http.StatusCreated)
}

// UpdateCategory edits the category named by {id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	h.saveCategory(w, r, chi.URLParam(r, "id"), http.StatusOK)
}

func (h *Handler) saveCategory(w http.ResponseWriter, r *http.Request, id string, status int) {
	start := time.Now()

	var req CategoryRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if id != "" {
		if _, ok := h.catalog.Category(id); !ok {
			respondError(w, http.StatusNotFound, CodeNotFound, "Category not found", nil)
			return
		}
	}

	cat, err := h.catalog.SaveCategory(r.Context(), catalog.CategoryInput{
		ID:            id,
		Name:          req.Name,
		Subtitle:      req.Subtitle,
		Icon:          req.Icon,
		Premium:       req.Premium,
		Subcategories: req.Subcategories,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, status, cat, start)
}

// DeleteCategory removes the category named by {id}. Its items are kept.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"id": id}, start)
}

// AddSubcategory appends a subcategory to the category named by {id}.
func (h *Handler) AddSubcategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req SubcategoryRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	cat, err := h.catalog.AddSubcategory(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusCreated, cat, start)
}

// RemoveSubcategory drops {subID} from the category named by {id}.
func (h *Handler) RemoveSubcategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	cat, err := h.catalog.RemoveSubcategory(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "subID"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, cat, start)
}

// InboxResponse is the body of GET /admin/messages.
type InboxResponse struct {
	Messages []models.Message `json:"messages"`
	Unread   int              `json:"unread"`
}

// Messages lists the inbox, newest first.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	msgs, err := h.inbox.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	unread := 0
	for i := range msgs {
		if !msgs[i].Read {
			unread++
		}
	}
	respondSuccess(w, http.StatusOK, InboxResponse{Messages: msgs, Unread: unread}, start)
}

// MarkMessageRead sets the read flag of {id}.
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ReadRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.inbox.MarkRead(r.Context(), id, req.Read); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{"id": id, "read": req.Read}, start)
}

// DeleteMessage removes {id} from the inbox.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if err := h.inbox.Delete(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"id": id}, start)
}
