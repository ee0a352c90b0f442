// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"net/http"

	"github.com/tomtom215/biozilla/internal/auth"
	"github.com/tomtom215/biozilla/internal/logging"
)

// WebSocket upgrades the connection and registers it with the hub. Signed in
// admins are tagged with their email so they receive auth_state messages.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, CodeNotReady, "Live updates unavailable", nil)
		return
	}

	email := ""
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		email = claims.Email
	}

	// The upgrader has already answered the client when ServeWS fails.
	if err := h.hub.ServeWS(w, r, email); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
	}
}
