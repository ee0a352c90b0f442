// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/biozilla/internal/analytics"
	"github.com/tomtom215/biozilla/internal/chart"
	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/sitemap"
)

// StatsResponse is the body of GET /admin/stats.
type StatsResponse struct {
	analytics.Snapshot
	UnreadMessages int `json:"unread_messages"`
}

// snapshot returns the dashboard snapshot and whether it came from the cache.
func (h *Handler) snapshot() (analytics.Snapshot, bool) {
	if snap, ok := h.stats.Get(statsCacheKey); ok {
		return snap, true
	}
	epoch := h.statsEpoch.Load()
	snap := h.engine.Build(h.catalog.Content(), h.catalog.Categories())
	h.cacheSnapshot(snap, epoch)
	return snap, false
}

// cacheSnapshot stores snap unless the cache was invalidated after epoch was
// read. It reports whether snap was stored.
func (h *Handler) cacheSnapshot(snap analytics.Snapshot, epoch uint64) bool {
	h.statsMu.Lock()
	defer h.statsMu.Unlock()
	if h.statsEpoch.Load() != epoch {
		return false
	}
	h.stats.Set(statsCacheKey, snap)
	return true
}

// Stats returns totals, top content, popular categories and the weekly
// activity series.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	snap, cached := h.snapshot()

	unread, err := h.inbox.Unread(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to count unread messages")
	}

	respondJSON(w, http.StatusOK, newEnvelope(StatsResponse{Snapshot: snap, UnreadMessages: unread}, start, cached))
}

// chartParams reads ?metric=, ?hover= and ?width=. It writes the error
// response itself when the metric is unknown.
func chartParams(w http.ResponseWriter, r *http.Request) (analytics.Metric, int, chart.Layout, bool) {
	metric, err := analytics.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return "", 0, chart.Layout{}, false
	}
	layout := chart.DefaultLayout()
	if raw := r.URL.Query().Get("width"); raw != "" {
		if width, err := strconv.ParseFloat(raw, 64); err == nil {
			layout = chart.WithWidth(width)
		}
	}
	return metric, getIntParam(r, "hover", -1), layout, true
}

// series picks the metric's series out of the cached snapshot.
func (h *Handler) series(metric analytics.Metric) analytics.Series {
	snap, _ := h.snapshot()
	for _, s := range snap.Activity {
		if s.Metric == metric {
			return s
		}
	}
	return h.engine.Series(h.catalog.Content(), metric)
}

// Chart returns the computed chart geometry for one metric.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metric, hover, layout, ok := chartParams(w, r)
	if !ok {
		return
	}
	respondSuccess(w, http.StatusOK, layout.Build(h.series(metric), hover), start)
}

// ChartSVG renders the chart of one metric as an SVG document.
func (h *Handler) ChartSVG(w http.ResponseWriter, r *http.Request) {
	metric, hover, layout, ok := chartParams(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(layout.RenderSVG(h.series(metric), hover)); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write chart")
	}
}

// today is the date stamped on sitemap entries, in the site timezone.
func (h *Handler) today() time.Time {
	now := time.Now()
	if h.config != nil {
		if loc, err := h.config.Site.Location(); err == nil {
			return now.In(loc)
		}
	}
	return now
}

func (h *Handler) baseURL() string {
	if h.config == nil {
		return "/"
	}
	return h.config.Site.BaseURL
}

// Sitemap lists the sitemap entries for the admin view.
func (h *Handler) Sitemap(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, sitemap.Entries(h.baseURL(), h.catalog.Categories(), h.today()), time.Now())
}

// SitemapXML serves the XML sitemap for search engines.
func (h *Handler) SitemapXML(w http.ResponseWriter, r *http.Request) {
	doc, err := sitemap.Build(h.baseURL(), h.catalog.Categories(), h.today())
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternal, "Failed to build sitemap", err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write sitemap")
	}
}
