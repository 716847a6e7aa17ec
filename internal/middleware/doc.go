// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package middleware provides HTTP middleware for the relay.

  - RequestID: X-Request-ID propagation plus request and correlation IDs in
    the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge
  - Recoverer: panics become a logged error and a 500 "Error" response

All three use the http.HandlerFunc shape; the api package adapts them to
chi's r.Use.
*/
package middleware
