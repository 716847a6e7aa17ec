// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package api

import "time"

// APIResponse is the wrapper for every JSON response.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Error    *APIError   `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// APIError is the error body of a failed JSON request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status       string          `json:"status"`
	Version      string          `json:"version"`
	Uptime       float64         `json:"uptime_seconds"`
	Transport    string          `json:"bus_transport"`
	Sources      map[string]bool `json:"sources"`
	Destinations []string        `json:"destinations"`
	Pending      int             `json:"pending_items"`
	Titles       int             `json:"recent_titles"`
	WSClients    int             `json:"websocket_clients"`
}
