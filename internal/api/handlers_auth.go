// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/biozilla/internal/auth"
)

// SessionResponse describes the signed in admin.
type SessionResponse struct {
	SignedIn  bool       `json:"signed_in"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func sessionFromClaims(claims *auth.Claims) SessionResponse {
	resp := SessionResponse{SignedIn: true, Email: claims.Email, Role: claims.Role}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		resp.ExpiresAt = &exp
	}
	return resp
}

// secureCookies reports whether session cookies need the Secure flag.
func (h *Handler) secureCookies(r *http.Request) bool {
	if h.config != nil && h.config.IsProduction() {
		return true
	}
	return r.TLS != nil
}

// Login signs the admin in, returning the token and setting it as a cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	session, err := h.auth.SignIn(r.Context(), h.clientIP(r), req.Email, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, auth.ErrTooManyRequests):
			status = http.StatusTooManyRequests
		case !errors.Is(err, auth.ErrInvalidCredentials):
			status = http.StatusInternalServerError
		}
		code := auth.CodeOf(err)
		if code == "" {
			code = CodeInternal
		}
		respondError(w, status, code, auth.MessageFor(err), nil)
		return
	}

	cookie := &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies(r),
		SameSite: http.SameSiteStrictMode,
	}
	if session.Claims.ExpiresAt != nil {
		cookie.Expires = session.Claims.ExpiresAt.Time
	}
	http.SetCookie(w, cookie)

	resp := sessionFromClaims(session.Claims)
	resp.Token = session.Token
	respondSuccess(w, http.StatusOK, resp, start)
}

// Logout revokes the current session, if any, and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		if err := h.auth.SignOut(r.Context(), claims, h.clientIP(r)); err != nil {
			respondError(w, http.StatusInternalServerError, CodeInternal, auth.MessageUnexpected, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies(r),
		SameSite: http.SameSiteStrictMode,
	})
	respondSuccess(w, http.StatusOK, SessionResponse{SignedIn: false}, start)
}

// Me reports the current auth state. It never fails for anonymous callers.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondSuccess(w, http.StatusOK, SessionResponse{SignedIn: false}, time.Now())
		return
	}
	respondSuccess(w, http.StatusOK, sessionFromClaims(claims), time.Now())
}
