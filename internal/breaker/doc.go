// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

// Package breaker wraps sony/gobreaker with logging and Prometheus state
// tracking. The TMDb client, the Discord sink and the Trakt client each own
// one Breaker.
package breaker
