// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status         string  `json:"status"`
	StoreConnected bool    `json:"store_connected"`
	CatalogLoaded  bool    `json:"catalog_loaded"`
	EventBreaker   string  `json:"event_breaker,omitempty"`
	WSClients      int     `json:"ws_clients"`
	Uptime         float64 `json:"uptime_seconds"`
}

// Health reports store connectivity, catalog state and the event breaker.
// It always answers 200; Status is "degraded" when something is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	storeOK := h.store != nil && h.store.Ping(r.Context()) == nil
	loaded := h.catalog != nil && h.catalog.Loaded()

	health := HealthStatus{
		Status:         "healthy",
		StoreConnected: storeOK,
		CatalogLoaded:  loaded,
		Uptime:         time.Since(h.startTime).Seconds(),
	}
	if h.events != nil {
		health.EventBreaker = h.events.BreakerState()
		if health.EventBreaker == "open" {
			health.Status = "degraded"
		}
	}
	if h.hub != nil {
		health.WSClients = h.hub.GetClientCount()
	}
	if !storeOK || !loaded {
		health.Status = "degraded"
	}

	respondSuccess(w, http.StatusOK, health, start)
}

// HealthLive answers 200 while the process runs.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady answers 200 once the store is reachable and the catalog has
// loaded, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || h.store.Ping(r.Context()) != nil {
		respondError(w, http.StatusServiceUnavailable, CodeNotReady, "Document store unavailable", nil)
		return
	}
	if h.catalog == nil || !h.catalog.Loaded() {
		respondError(w, http.StatusServiceUnavailable, CodeNotReady, "Catalog not loaded", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{"ready": true}, time.Now())
}
