// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package main is the entry point for the Mediarelay server.

Mediarelay receives webhooks from Jellyfin, Plex (through Tautulli), Sonarr
and Radarr, polls Trakt for new ratings and favorites, and posts one Discord
embed per distinct library change.

# Application Architecture

	mediarelay
	├── data-layer
	│   └── correlation sweeper
	├── messaging-layer
	│   ├── outbound bus (direct, watermill GoChannel or NATS)
	│   ├── websocket hub (live relay feed)
	│   └── Trakt poller (if TRAKT_ENABLED)
	└── api-layer
	    └── HTTP server

Component initialization order:

 1. Configuration: koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog
 3. Poster resolver: TMDb client, optionally cached in BadgerDB
 4. Extractor and correlation cache
 5. Discord sink and outbound bus
 6. Pipeline, websocket hub and HTTP router
 7. Supervisor tree

# Example Usage

	export DISCORD_WEBHOOK_JELLYFIN_CONTENT=https://discord.com/api/webhooks/...
	export DISCORD_WEBHOOK_SONARR=https://discord.com/api/webhooks/...
	export TMDB_API_KEY=...
	./mediarelay

Point the Jellyfin webhook plugin at http://host:2024/jellyfin_webhook and the
Sonarr and Radarr "Webhook" connections at /sonarr_webhook and
/radarr_webhook.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests within SHUTDOWN_TIMEOUT, then the bus and the poster cache
are closed.
*/
package main
