// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

/*
Package supervisor runs the server's long-lived components under a
thejerf/suture/v4 tree.

	biozilla (root)
	├── data-layer       event-bus (catalog change router)
	├── messaging-layer  websocket-hub
	└── api-layer        http-server

Services that return an error are restarted with suture's backoff. A
service that cannot be restarted returns suture.ErrDoNotRestart. Supervisor
events are logged through sutureslog into the zerolog adapter:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewEventBusService(bus, 10*time.Second))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)

Wrappers for the concrete components live in the services subpackage.
*/
package supervisor
