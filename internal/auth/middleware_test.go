// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	session, err := p.SignIn(context.Background(), "10.0.1.1", testEmail, testPassword)
	if err != nil {
		t.Fatal(err)
	}
	m := NewMiddleware(p, NewClientIP(nil), nil)

	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Email != testEmail {
			t.Errorf("ClaimsFromContext() = %v, %v", claims, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+session.Token) }, http.StatusNoContent},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: session.Token}) }, http.StatusNoContent},
		{"basic scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, http.StatusUnauthorized},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
			tt.setup(r)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestMiddleware_Optional(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t)
	m := NewMiddleware(p, NewClientIP(nil), nil)

	var sawClaims bool
	handler := m.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawClaims = ClaimsFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r.Header.Set("Authorization", "Bearer invalid")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if sawClaims {
		t.Error("Optional() attached claims for an invalid token")
	}
}

func TestMiddleware_CustomErrorWriter(t *testing.T) {
	t.Parallel()

	var gotCode string
	m := NewMiddleware(newTestProvider(t), NewClientIP(nil), func(w http.ResponseWriter, _ *http.Request, status int, code, _ string) {
		gotCode = code
		w.WriteHeader(status)
	})

	w := httptest.NewRecorder()
	m.Authenticate(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusUnauthorized || gotCode != "AUTHENTICATION_ERROR" {
		t.Errorf("status = %d code = %q", w.Code, gotCode)
	}
}
