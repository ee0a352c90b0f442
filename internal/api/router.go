// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/biozilla/internal/auth"
	"github.com/tomtom215/biozilla/internal/authz"
	"github.com/tomtom215/biozilla/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler *Handler
	chi     *ChiMiddleware
	authn   *auth.Middleware
	authz   *authz.Middleware

	mediaPrefix string
	media       http.Handler
}

// RouterOption customizes a Router.
type RouterOption func(*Router)

// WithMedia serves uploaded assets from handler under prefix.
func WithMedia(prefix string, handler http.Handler) RouterOption {
	return func(rt *Router) {
		rt.mediaPrefix = "/" + strings.Trim(prefix, "/")
		rt.media = handler
	}
}

// NewRouter returns a router over handler.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authn *auth.Middleware, authzMW *authz.Middleware, opts ...RouterOption) *Router {
	rt := &Router{handler: handler, chi: chiMW, authn: authn, authz: authzMW}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Setup builds the route tree.
func (rt *Router) Setup() http.Handler {
	h := rt.handler
	r := chi.NewRouter()

	// Global middleware, outermost first.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(rt.chi.CORS())
	r.Use(chimiddleware.Compress(5, "application/json", "image/svg+xml", "application/xml"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, CodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed", nil)
	})

	// Probes and scraping.
	r.Group(func(r chi.Router) {
		r.Use(rt.chi.RateLimitHealth())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/health", h.Health)
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.With(middleware.PrometheusMetrics).Get("/sitemap.xml", h.SitemapXML)
	if rt.media != nil {
		r.Handle(rt.mediaPrefix+"/*", rt.media)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders)
		r.Use(middleware.PrometheusMetrics)
		r.Use(rt.chi.RateLimit())

		// Public gallery.
		r.Get("/content/featured", h.FeaturedContent)
		r.Get("/content/search", h.SearchContent)
		r.Get("/categories", h.Categories)
		r.Get("/categories/search", h.SearchCategories)
		r.Get("/categories/{id}/content", h.CategoryContent)
		r.Get("/design", h.Design)
		r.Get("/route", h.ResolveRoute)
		r.Group(func(r chi.Router) {
			r.Use(rt.chi.RateLimitWrite())
			r.Post("/content/{id}/engagement", h.RecordEngagement)
			r.Post("/messages", h.SubmitMessage)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(rt.authn.Optional)
			r.With(rt.chi.RateLimitLogin()).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})

		r.With(rt.chi.RateLimitWebSocket(), rt.authn.Optional).Get("/ws", h.WebSocket)

		r.Route("/admin", func(r chi.Router) {
			r.Use(rt.authn.Authenticate)
			r.Use(rt.authz.Authorize)

			r.Get("/content", h.AdminContent)
			r.Post("/content", h.CreateContent)
			r.Post("/content/bulk-delete", h.BulkDeleteContent)
			r.Post("/content/bulk-feature", h.BulkFeatureContent)
			r.Put("/content/{id}", h.UpdateContent)
			r.Delete("/content/{id}", h.DeleteContent)

			r.Post("/categories", h.CreateCategory)
			r.Put("/categories/{id}", h.UpdateCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)
			r.Post("/categories/{id}/subcategories", h.AddSubcategory)
			r.Delete("/categories/{id}/subcategories/{subID}", h.RemoveSubcategory)

			r.Get("/messages", h.Messages)
			r.Put("/messages/{id}/read", h.MarkMessageRead)
			r.Delete("/messages/{id}", h.DeleteMessage)

			r.Put("/design", h.UpdateDesign)
			r.Post("/design/assets/{kind}", h.UploadDesignAsset)

			r.Get("/stats", h.Stats)
			r.Get("/stats/chart", h.Chart)
			r.Get("/stats/chart.svg", h.ChartSVG)
			r.Get("/sitemap", h.Sitemap)
		})
	})

	return r
}
