// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/biozilla/internal/catalog"
	"github.com/tomtom215/biozilla/internal/gallery"
	"github.com/tomtom215/biozilla/internal/inbox"
	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/route"
)

// SearchHit is one public search result with its highlighted text.
type SearchHit struct {
	Item     models.ContentItem `json:"item"`
	Segments []gallery.Segment  `json:"segments"`
}

// SearchResponse is the body of GET /content/search.
type SearchResponse struct {
	Query    string      `json:"query"`
	Category string      `json:"category,omitempty"`
	Count    int         `json:"count"`
	Results  []SearchHit `json:"results"`
}

// CategoryPage is the body of GET /categories/{id}/content.
type CategoryPage struct {
	Category    models.Category      `json:"category"`
	Subcategory string               `json:"subcategory,omitempty"`
	Items       []models.ContentItem `json:"items"`
}

// RouteResponse is the resolved fragment of GET /route.
type RouteResponse struct {
	Route    route.Route        `json:"route"`
	Fragment string             `json:"fragment"`
	Category *models.Category   `json:"category,omitempty"`
	Page     *route.SupportPage `json:"page,omitempty"`
	Found    bool               `json:"found"`
}

// FeaturedContent lists featured items ordered by ?filter=.
// The "all" filter reshuffles on every call.
func (h *Handler) FeaturedContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	mode, err := gallery.ParseFilterMode(r.URL.Query().Get("filter"))
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	var items []models.ContentItem
	h.shuffle(func(rng *rand.Rand) {
		items = gallery.Filter(h.catalog.Content(), mode, rng)
	})
	respondSuccess(w, http.StatusOK, items, start)
}

// SearchContent runs the visitor search. A blank query yields no results.
func (h *Handler) SearchContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	matches := gallery.PublicSearch(h.catalog.Content(), query, category)
	hits := make([]SearchHit, len(matches))
	for i, item := range matches {
		hits[i] = SearchHit{Item: item, Segments: gallery.Highlight(item.Text, query)}
	}

	respondSuccess(w, http.StatusOK, SearchResponse{
		Query:    query,
		Category: category,
		Count:    len(hits),
		Results:  hits,
	}, start)
}

// Categories lists every category.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, h.catalog.Categories(), time.Now())
}

// SearchCategories lists the categories offered as search scopes.
func (h *Handler) SearchCategories(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, gallery.SearchCategories(h.catalog.Categories()), time.Now())
}

// CategoryContent lists a category's items, optionally narrowed to ?subcategory=.
func (h *Handler) CategoryContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	category, ok := h.catalog.Category(id)
	if !ok {
		respondError(w, http.StatusNotFound, CodeNotFound, "Category not found", nil)
		return
	}
	sub := r.URL.Query().Get("subcategory")
	respondSuccess(w, http.StatusOK, CategoryPage{
		Category:    category,
		Subcategory: sub,
		Items:       gallery.CategoryItems(h.catalog.Content(), id, sub),
	}, start)
}

// RecordEngagement increments the view, like or share counter of an item.
func (h *Handler) RecordEngagement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req EngagementRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	action, err := catalog.ParseAction(req.Action)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	item, err := h.catalog.RecordEngagement(r.Context(), chi.URLParam(r, "id"), action)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, item, start)
}

// SubmitMessage stores a contact form submission.
func (h *Handler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req MessageRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.inbox.Submit(r.Context(), inbox.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("message_id", msg.ID).Msg("Contact message received")
	respondSuccess(w, http.StatusCreated, msg, start)
}

// Design returns the design with defaults and the site name substituted.
func (h *Handler) Design(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, h.design.Resolved(), time.Now())
}

// ResolveRoute parses ?fragment= and attaches the category or support page it names.
func (h *Handler) ResolveRoute(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rt := route.Parse(r.URL.Query().Get("fragment"))

	resp := RouteResponse{Route: rt, Fragment: rt.Fragment(), Found: true}
	switch rt.Kind {
	case route.Category:
		category, ok := h.catalog.Category(rt.ID)
		if ok {
			resp.Category = &category
		}
		resp.Found = ok
	case route.Support:
		page, ok := route.LookupSupportPage(rt.ID)
		if ok {
			resp.Page = &page
		}
		resp.Found = ok
	}
	respondSuccess(w, http.StatusOK, resp, start)
}
