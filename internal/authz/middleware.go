// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package authz

import (
	"net/http"

	"github.com/tomtom215/biozilla/internal/auth"
	"github.com/tomtom215/biozilla/internal/logging"
)

// Middleware authorizes requests by role, path and HTTP method.
// It must run after auth.Middleware.Authenticate.
type Middleware struct {
	enforcer *Enforcer
	clientIP func(*http.Request) string
	writeErr auth.ErrorWriter
	audit    *logging.SecurityLogger
}

// NewMiddleware creates authorization middleware. writeErr may be nil.
func NewMiddleware(enforcer *Enforcer, clientIP func(*http.Request) string, writeErr auth.ErrorWriter) *Middleware {
	if writeErr == nil {
		writeErr = func(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
			http.Error(w, message, status)
		}
	}
	if clientIP == nil {
		clientIP = func(r *http.Request) string { return r.RemoteAddr }
	}
	return &Middleware{
		enforcer: enforcer,
		clientIP: clientIP,
		writeErr: writeErr,
		audit:    logging.NewSecurityLogger(),
	}
}

// Authorize enforces the policy for r.URL.Path and the request method.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, email := Anonymous, ""
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			subject, email = claims.Role, claims.Email
		}

		allowed, err := m.enforcer.Enforce(subject, r.URL.Path, MethodToAction(r.Method))
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			m.writeErr(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}

		if !allowed {
			m.audit.LogAccessDenied(email, m.clientIP(r), r.URL.Path)
			m.writeErr(w, r, http.StatusForbidden, "AUTHORIZATION_ERROR", "Forbidden: insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// MethodToAction maps an HTTP method to a policy action.
func MethodToAction(method string) string {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
