// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

// Package logging provides the zerolog-based structured logger used across Mediarelay.
//
// A single global logger is configured once at startup and then used through
// package-level level functions:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("source", "jellyfin").Msg("Webhook received")
//	logging.Error().Err(err).Msg("Send failed")
//
// Request-scoped logging carries request and correlation IDs set by the HTTP
// middleware:
//
//	logging.Ctx(ctx).Warn().Str("reason", "unsupported_type").Msg("Payload dropped")
//
// # Adapters
//
// Two adapters route third-party logging into the same zerolog output:
//
//   - SlogHandler implements slog.Handler for the suture supervisor event hook
//   - WatermillAdapter implements watermill.LoggerAdapter for the outbound bus
//
// # Configuration
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  include caller file:line (default: false)
//
// Always terminate an event chain with Msg or Send, otherwise nothing is written.
package logging
