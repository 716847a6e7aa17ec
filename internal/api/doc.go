// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package api provides the HTTP surface of the relay.

Routes:

	POST /jellyfin_webhook     Jellyfin webhook plugin
	POST /plex_webhook         Plex via the Tautulli notification agent
	POST /sonarr_webhook       Sonarr
	POST /radarr_webhook       Radarr
	POST /trakt_webhook        Trakt activity items pushed instead of polled
	GET  /api/v1/health        Component status
	GET  /api/v1/health/live   Liveness probe
	GET  /api/v1/health/ready  Readiness probe
	GET  /api/v1/ws            Live relay feed
	GET  /metrics              Prometheus metrics

Webhook routes answer plain text: "OK" with 200 whenever the payload was
handled, including dropped and suppressed events, and "Error" with 500 when
the relay could not hand the message on. A disabled source answers 404 and a
wrong X-Webhook-Secret answers 401.

Middleware order: request ID and logging context, RealIP, panic recovery,
Prometheus request metrics, security headers. The /api/v1 routes are rate
limited per client IP with go-chi/httprate and carry go-chi/cors. Webhook
routes are never throttled: senders do not retry a 429.
*/
package api
