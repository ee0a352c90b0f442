// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package auth implements admin authentication for Biozilla.

There is a single admin account configured by ADMIN_EMAIL and either
ADMIN_PASSWORD (hashed with bcrypt at startup) or ADMIN_PASSWORD_HASH.

# Sign In

Provider.SignIn checks a per-IP login limiter (golang.org/x/time/rate), then
the credentials, then issues an HS256 JWT whose jti identifies the session.
Failures carry a provider code:

  - auth/user-not-found
  - auth/wrong-password
  - auth/invalid-credential
  - auth/too-many-requests

MessageFor turns any of them into the message shown on the login form.

# Sign Out

Provider.SignOut adds the token's jti to a RevocationList until the token
would have expired. Authenticate rejects revoked tokens.

# State Changes

Provider.Watch streams sign in and sign out transitions. The websocket hub
forwards them to connected admin clients as auth_state messages.

# Middleware

Middleware.Authenticate accepts "Authorization: Bearer <token>" or the
"token" cookie and stores *Claims in the request context:

	r.Group(func(r chi.Router) {
	    r.Use(authMiddleware.Authenticate)
	    r.Use(enforcer.Middleware)
	    r.Get("/api/v1/admin/stats", h.Stats)
	})
*/
package auth
