// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package supervisor runs the relay's long-lived services under a suture v4
tree:

	mediarelay
	├── data-layer
	│   └── correlation-sweeper
	├── messaging-layer
	│   ├── bus-{direct,memory,nats}
	│   ├── websocket-hub
	│   └── trakt-poller (if TRAKT_ENABLED)
	└── api-layer
	    └── http-server

Crashed services restart with suture's backoff; failures are counted per
layer. Supervisor events are logged through sutureslog into the zerolog
backed slog handler from the logging package.

Usage in main.go:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(pipeline.NewSweeper(cache, cfg.Correlation.SweepInterval))
	tree.AddMessagingService(relayBus)
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
