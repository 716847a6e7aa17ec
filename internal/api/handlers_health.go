// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/mediarelay/internal/models"
)

// Health reports the state of every relay component.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:       "healthy",
		Version:      h.version,
		Uptime:       time.Since(h.startTime).Seconds(),
		Sources:      make(map[string]bool, len(models.Sources)),
		Destinations: h.destinations,
	}
	for _, s := range models.Sources {
		health.Sources[s.String()] = h.config.WebhookEnabled(s.String())
	}
	if h.cache != nil {
		health.Pending, health.Titles = h.cache.Len()
	}
	if h.hub != nil {
		health.WSClients = h.hub.GetClientCount()
	}
	if h.bus != nil {
		health.Transport = h.bus.Transport()
	}
	if !h.busRunning() || len(h.destinations) == 0 {
		health.Status = "degraded"
	}

	respondJSON(w, r, http.StatusOK, &APIResponse{Status: "success", Data: health})
}

// HealthLive answers 200 while the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
	})
}

// HealthReady answers 200 once the bus consumes messages, 503 before.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.busRunning() {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Outbound bus is not running", nil)
		return
	}
	respondJSON(w, r, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"ready": true},
	})
}

func (h *Handler) busRunning() bool {
	if h.bus == nil {
		return true
	}
	select {
	case <-h.bus.Running():
		return true
	default:
		return false
	}
}
