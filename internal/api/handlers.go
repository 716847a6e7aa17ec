// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package api

import (
	"context"
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/mediarelay/internal/config"
	"github.com/tomtom215/mediarelay/internal/models"
	"github.com/tomtom215/mediarelay/internal/pipeline"
	"github.com/tomtom215/mediarelay/internal/websocket"
)

// Relay handles one raw webhook body.
type Relay interface {
	Handle(ctx context.Context, source models.Source, raw []byte) (pipeline.Outcome, error)
}

// CacheStats reports correlation cache sizes.
type CacheStats interface {
	Len() (pending, titles int)
}

// BusStatus reports the outbound bus state.
type BusStatus interface {
	Transport() string
	Running() <-chan struct{}
}

// Options are the collaborators of a Handler. Hub, Cache and Bus may be nil.
type Options struct {
	Config       *config.Config
	Relay        Relay
	Hub          *websocket.Hub
	Cache        CacheStats
	Bus          BusStatus
	Destinations []string
	Version      string
}

// Handler serves the HTTP surface.
type Handler struct {
	config       *config.Config
	relay        Relay
	hub          *websocket.Hub
	cache        CacheStats
	bus          BusStatus
	destinations []string
	version      string
	upgrader     gorillaws.Upgrader
	startTime    time.Time
}

// NewHandler creates a Handler.
func NewHandler(opts Options) *Handler {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		config:       opts.Config,
		relay:        opts.Relay,
		hub:          opts.Hub,
		cache:        opts.Cache,
		bus:          opts.Bus,
		destinations: opts.Destinations,
		version:      version,
		upgrader:     websocket.NewUpgrader(opts.Config.Security.CORSOrigins),
		startTime:    time.Now(),
	}
}

// WebSocket upgrades to the live relay feed.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, "FEED_UNAVAILABLE", "Live feed is not running", nil)
		return
	}
	websocket.ServeWS(h.hub, &h.upgrader, w, r)
}
