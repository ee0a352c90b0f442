// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/biozilla/internal/logging"
)

// slowRequest is the latency above which a request is logged at warn level.
const slowRequest = time.Second

// AccessLog writes one log line per request: debug for fast successes, info
// for client errors, warn for slow requests and server errors.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		code := status(ww)
		logging.Ctx(r.Context()).WithLevel(accessLevel(code, elapsed)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", routePattern(r)).
			Int("status", code).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", elapsed).
			Msg("HTTP request")
	})
}

func accessLevel(code int, elapsed time.Duration) zerolog.Level {
	switch {
	case code >= http.StatusInternalServerError || elapsed >= slowRequest:
		return zerolog.WarnLevel
	case code >= http.StatusBadRequest:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
