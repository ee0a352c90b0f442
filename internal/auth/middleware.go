// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// ClaimsContextKey is the request context key holding *Claims.
const ClaimsContextKey contextKey = "claims"

// TokenCookieName is the cookie that carries the session token for browser clients.
const TokenCookieName = "token"

// ErrorWriter writes an authentication failure. The API layer supplies one
// that renders its JSON envelope.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// Middleware authenticates requests against a Provider.
type Middleware struct {
	provider *Provider
	clientIP *ClientIP
	writeErr ErrorWriter
}

// NewMiddleware creates authentication middleware. A nil writeErr falls back to http.Error.
func NewMiddleware(provider *Provider, clientIP *ClientIP, writeErr ErrorWriter) *Middleware {
	if writeErr == nil {
		writeErr = func(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{provider: provider, clientIP: clientIP, writeErr: writeErr}
}

// Authenticate rejects requests without a valid, unrevoked session token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		if token == "" {
			m.writeErr(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required")
			return
		}

		claims, err := m.provider.Authenticate(r.Context(), token)
		if err != nil {
			m.writeErr(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Unauthorized: invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// Optional attaches claims when a valid token is present and never rejects.
// Public routes such as /auth/me and the websocket use it.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := ExtractToken(r); token != "" {
			if claims, err := m.provider.Authenticate(r.Context(), token); err == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the resolved client address of r.
func (m *Middleware) ClientIP(r *http.Request) string {
	return m.clientIP.Resolve(r)
}

// ExtractToken returns the bearer token from the Authorization header or the
// session cookie, or "".
func ExtractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
