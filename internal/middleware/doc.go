// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

// Package middleware holds the HTTP middleware shared by every route:
//
//	RequestID          request and correlation ids for logging.Ctx
//	AccessLog          one zerolog line per request
//	PrometheusMetrics  api_requests_total and latency by chi route pattern
//
// All three are plain func(http.Handler) http.Handler values for chi's Use.
package middleware
