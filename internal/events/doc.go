// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package events carries catalog change notifications between components.

A Bus publishes a models.CatalogChange on the catalog.changed topic after
every write the document store acknowledged, and fans each change out to the
handlers registered with Handle (analytics cache invalidation, websocket
broadcast).

Transports, selected by EVENTS_BACKEND:

	gochannel  in-process watermill GoChannel (default)
	nats       watermill-nats over core NATS, optionally against an
	           embedded nats-server started by Open

Publishing goes through a sony/gobreaker circuit breaker. A failed or
rejected publish is logged and counted; it never fails the write that
triggered it.
*/
package events
