// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

// Package authz authorizes admin API requests with Casbin RBAC.
//
// The embedded model matches the request role against keyMatch2 path
// patterns and an action derived from the HTTP method (read, write, delete).
// The embedded policy grants the admin role every action under
// /api/v1/admin/*. Requests without claims are evaluated as "anonymous",
// which no policy line grants.
//
// CASBIN_MODEL_PATH and CASBIN_POLICY_PATH replace the embedded files.
package authz
