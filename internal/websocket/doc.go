// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package websocket pushes live updates to gallery and admin clients over
gorilla/websocket.

A Hub owns the connected clients. Each Client runs a read pump and a write
pump; the hub never blocks on a slow client and disconnects it instead.

Server to client:

	catalog_changed   a models.CatalogChange from the event bus
	auth_state        sign in or sign out of the client's own account
	search_results    answer to the latest search of this client
	pong              reply to ping
	error             malformed or unsupported client message

Client to server:

	ping
	search   {"query": "...", "category": "all"}

Searches are debounced per client with gallery.Debouncer, so a burst of
keystrokes runs one search and superseded queries are never answered.

Wiring:

	hub := websocket.NewHub(websocket.Config{Search: search})
	bus.Handle("websocket-broadcast", hub.HandleCatalogChange)
	go hub.WatchAuth(provider.Watch(ctx))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
*/
package websocket
