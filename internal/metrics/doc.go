// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package metrics provides Prometheus metrics for the relay.

All collectors are registered with the default registry through promauto
and exposed at /metrics.

# Available Metrics

Webhook Metrics:
  - relay_webhooks_received_total: Inbound webhooks (counter)
    Labels: source, outcome (handled, dropped, rejected, error)
  - relay_extraction_failures_total: Payloads the extractor rejected (counter)
    Labels: source, reason

Correlation Metrics:
  - relay_correlation_decisions_total: Cache decisions (counter)
    Labels: source, action (emit, hold, drop_duplicate, drop_ignored)
  - relay_correlation_fail_open_total: Events admitted after a cache failure
  - relay_correlation_pending_entries: Primaries awaiting a secondary (gauge)
  - relay_correlation_guarded_titles: Titles held by the duplicate guard (gauge)
  - relay_correlation_swept_total: Expired entries removed (counter)
    Labels: map (pending, titles)

Delivery Metrics:
  - relay_messages_rendered_total: Rendered messages (counter)
    Labels: destination, style
  - relay_sink_sends_total: Deliveries (counter)
    Labels: destination, outcome (success, failure, rate_limited, not_found)
  - relay_sink_send_duration_seconds: Delivery latency (histogram)
  - relay_bus_messages_published_total, relay_bus_messages_consumed_total

Poster and Activity Feed Metrics:
  - relay_poster_lookups_total: Labels kind (movie, tv), result (hit, miss, error)
  - relay_poster_lookup_duration_seconds: Metadata API latency (histogram)
  - relay_trakt_polls_total, relay_trakt_items_total

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_consecutive_failures, circuit_breaker_state_transitions_total

API and WebSocket Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total
  - websocket_connections_active, websocket_messages_sent_total, websocket_errors_total

# Alerting Rules

	groups:
	  - name: mediarelay
	    rules:
	      - alert: RelayDeliveryFailures
	        expr: sum(rate(relay_sink_sends_total{outcome="failure"}[5m])) > 0
	        for: 10m
	      - alert: CircuitBreakerOpen
	        expr: circuit_breaker_state > 0
	        for: 2m
	        annotations:
	          summary: "Circuit breaker open for {{ $labels.name }}"
*/
package metrics
