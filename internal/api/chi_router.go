// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/mediarelay/internal/middleware"
	"github.com/tomtom215/mediarelay/internal/models"
)

// Router builds the chi router for the relay.
type Router struct {
	handler *Handler
	chiMw   *ChiMiddleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handler) *Router {
	sec := handler.config.Security
	return &Router{
		handler: handler,
		chiMw: NewChiMiddleware(&ChiMiddlewareConfig{
			CORSAllowedOrigins: sec.CORSOrigins,
			CORSAllowedMethods: []string{"GET", "OPTIONS"},
			CORSAllowedHeaders: []string{"Content-Type"},
			CORSMaxAge:         86400,
			RateLimitRequests:  sec.RateLimitRequests,
			RateLimitWindow:    sec.RateLimitWindow,
			RateLimitDisabled:  sec.RateLimitDisabled,
		}),
	}
}

// Setup returns the configured http.Handler.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chiMiddleware(middleware.Recoverer))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(APISecurityHeaders())

	// Webhook routes are not rate limited.
	for _, source := range models.Sources {
		r.Post("/"+source.String()+"_webhook", h.Webhook(source))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMw.RateLimit())
		r.Use(router.chiMw.CORS())
		r.Get("/health", h.Health)
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)
		r.Get("/ws", h.WebSocket)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteText(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}
