// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook Metrics
	WebhooksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_webhooks_received_total",
			Help: "Total number of inbound webhooks by source and outcome",
		},
		[]string{"source", "outcome"}, // outcome: handled, dropped, rejected, error
	)

	ExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_extraction_failures_total",
			Help: "Total number of payloads the field extractor could not normalize",
		},
		[]string{"source", "reason"},
	)

	// Correlation Metrics
	CorrelationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_correlation_decisions_total",
			Help: "Total number of correlation cache decisions",
		},
		[]string{"source", "action"}, // action: emit, hold, drop_duplicate, drop_ignored
	)

	CorrelationFailOpen = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_correlation_fail_open_total",
			Help: "Events admitted because the correlation cache failed",
		},
	)

	CorrelationPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_correlation_pending_entries",
			Help: "Current number of primary events awaiting their secondary",
		},
	)

	CorrelationTitles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_correlation_guarded_titles",
			Help: "Current number of titles held by the duplicate guard",
		},
	)

	CorrelationSwept = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_correlation_swept_total",
			Help: "Total number of expired entries removed by the sweeper",
		},
		[]string{"map"}, // map: pending, titles
	)

	// Render Metrics
	MessagesRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_rendered_total",
			Help: "Total number of messages rendered by destination and style",
		},
		[]string{"destination", "style"},
	)

	// Poster Metrics
	PosterLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_poster_lookups_total",
			Help: "Total number of poster lookups",
		},
		[]string{"kind", "result"}, // result: hit, miss, error
	)

	PosterLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_poster_lookup_duration_seconds",
			Help:    "Duration of poster lookups against the metadata API",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Sink Metrics
	SinkSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_sink_sends_total",
			Help: "Total number of message deliveries by destination and outcome",
		},
		[]string{"destination", "outcome"}, // outcome: success, failure, rate_limited, not_found
	)

	SinkSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_sink_send_duration_seconds",
			Help:    "Duration of message deliveries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"destination"},
	)

	// Bus Metrics
	BusMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_bus_messages_published_total",
			Help: "Total number of rendered messages published to the outbound bus",
		},
		[]string{"transport"},
	)

	BusMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_bus_messages_consumed_total",
			Help: "Total number of outbound bus messages handled",
		},
		[]string{"transport", "outcome"}, // outcome: delivered, failed, malformed
	)

	// Trakt Metrics
	TraktPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_trakt_polls_total",
			Help: "Total number of activity feed polls",
		},
		[]string{"feed", "outcome"},
	)

	TraktItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_trakt_items_total",
			Help: "Total number of activity feed items forwarded to the pipeline",
		},
		[]string{"feed"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordWebhook records an inbound webhook outcome.
func RecordWebhook(source, outcome string) {
	WebhooksReceived.WithLabelValues(source, outcome).Inc()
}

// RecordExtractionFailure records a payload the extractor rejected.
func RecordExtractionFailure(source, reason string) {
	ExtractionFailures.WithLabelValues(source, reason).Inc()
}

// RecordDecision records a correlation decision.
func RecordDecision(source, action string, failOpen bool) {
	CorrelationDecisions.WithLabelValues(source, action).Inc()
	if failOpen {
		CorrelationFailOpen.Inc()
	}
}

// UpdateCorrelationGauges sets the cache size gauges.
func UpdateCorrelationGauges(pending, titles int) {
	CorrelationPending.Set(float64(pending))
	CorrelationTitles.Set(float64(titles))
}

// RecordSweep records entries removed by a sweep.
func RecordSweep(pending, titles int) {
	CorrelationSwept.WithLabelValues("pending").Add(float64(pending))
	CorrelationSwept.WithLabelValues("titles").Add(float64(titles))
}

// RecordPosterLookup records a poster cache or API lookup.
func RecordPosterLookup(kind, result string) {
	PosterLookups.WithLabelValues(kind, result).Inc()
}

// RecordSinkSend records a delivery attempt.
func RecordSinkSend(destination, outcome string, duration time.Duration) {
	SinkSends.WithLabelValues(destination, outcome).Inc()
	if duration > 0 {
		SinkSendDuration.WithLabelValues(destination).Observe(duration.Seconds())
	}
}
