// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/metrics"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	upstream := uuid.NewString()
	tests := []struct {
		name   string
		header string
		reuse  bool
	}{
		{"generated", "", false},
		{"upstream uuid", upstream, true},
		{"rejects non uuid", "abc\ninjected", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ctxID, corrID string
			h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				ctxID = logging.RequestIDFromContext(r.Context())
				corrID = logging.CorrelationIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("%s = %q, not a UUID", RequestIDHeader, got)
			}
			if tt.reuse && got != tt.header {
				t.Errorf("%s = %q, want upstream %q", RequestIDHeader, got, tt.header)
			}
			if ctxID != got {
				t.Errorf("context request id = %q, want %q", ctxID, got)
			}
			if corrID == "" {
				t.Error("correlation id missing from context")
			}
		})
	}
}

func TestPrometheusMetricsUsesRoutePattern(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/widgets/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/widgets/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets/"+id, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusTeapot)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", got)
	}
}

func TestAccessLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    int
		elapsed time.Duration
		want    zerolog.Level
	}{
		{200, time.Millisecond, zerolog.DebugLevel},
		{404, time.Millisecond, zerolog.InfoLevel},
		{500, time.Millisecond, zerolog.WarnLevel},
		{200, 2 * time.Second, zerolog.WarnLevel},
	}
	for _, tt := range tests {
		if got := accessLevel(tt.code, tt.elapsed); got != tt.want {
			t.Errorf("accessLevel(%d, %v) = %v, want %v", tt.code, tt.elapsed, got, tt.want)
		}
	}
}

func TestAccessLogWritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewTestLogger(&buf)

	h := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req = req.WithContext(logging.ContextWithLogger(req.Context(), logger))
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"status":404`, `"path":"/missing"`, `"route":"unmatched"`, `"message":"HTTP request"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %s", out, want)
		}
	}
}
