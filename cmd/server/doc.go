// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package main is the entry point for the Biozilla server.

Biozilla serves a browsable gallery of short text content grouped into
categories, an admin panel to curate it, a contact inbox and an analytics
dashboard over engagement counters.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("biozilla")
	├── DataSupervisor ("data-layer")
	│   └── Event bus router (catalog change fan-out)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (live search, catalog and auth updates)
	│   └── Auth provider (revocation and limiter cleanup)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Store: BadgerDB, DuckDB or in-memory document store
 4. Event bus: Watermill over Go channels or NATS (optionally embedded)
 5. Catalog and design mirrors, loaded concurrently
 6. Auth: JWT sessions for the single admin, Casbin route authorization
 7. WebSocket hub and HTTP router
 8. Supervisor tree

# Configuration

Common environment variables:

	HTTP_PORT=8080
	STORE_BACKEND=badger        # badger, duckdb, memory
	STORE_PATH=/data/biozilla
	EVENTS_BACKEND=gochannel    # gochannel, nats
	JWT_SECRET=...              # 32+ characters
	ADMIN_EMAIL=admin@example.com
	ADMIN_PASSWORD_HASH=...     # bcrypt
	SITE_BASE_URL=https://example.com
	SITE_TIMEZONE=Asia/Kolkata

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests, the hub closes its clients and the event router stops before the
store is closed.
*/
package main
