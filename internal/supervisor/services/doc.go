// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

// Package services adapts long-running components to suture.Service.
//
// Each wrapper has a stable String name used in supervisor logs:
//
//	http-server     HTTPServerService over *http.Server
//	websocket-hub   WebSocketHubService over *websocket.Hub
//	event-bus       EventBusService over *events.Bus
package services
