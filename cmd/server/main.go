// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/mediarelay/internal/api"
	"github.com/tomtom215/mediarelay/internal/config"
	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/metrics"
	"github.com/tomtom215/mediarelay/internal/pipeline"
	"github.com/tomtom215/mediarelay/internal/supervisor"
	"github.com/tomtom215/mediarelay/internal/supervisor/services"
	ws "github.com/tomtom215/mediarelay/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("bus_transport", cfg.Bus.Transport).
		Bool("trakt_enabled", cfg.Trakt.Enabled).
		Msg("Starting Mediarelay")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Mediarelay stopped with an error")
	}
	logging.Info().Msg("Mediarelay stopped")
}

func run(cfg *config.Config) error {
	hub := ws.NewHub()

	relay, err := newRelay(cfg, hub)
	if err != nil {
		return err
	}
	defer relay.Close()

	handler := api.NewHandler(api.Options{
		Config:       cfg,
		Relay:        relay.pipeline,
		Hub:          hub,
		Cache:        relay.cache,
		Bus:          relay.bus,
		Destinations: relay.discord.Destinations(),
		Version:      version,
	})
	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           api.NewRouter(handler).Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(pipeline.NewSweeper(relay.cache, cfg.Correlation.SweepInterval))
	tree.AddMessagingService(relay.bus)
	tree.AddMessagingService(hub)
	if relay.poller != nil {
		tree.AddMessagingService(relay.poller)
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go trackUptime(ctx, time.Now())

	logging.Info().
		Str("addr", server.Addr).
		Strs("destinations", relay.discord.Destinations()).
		Msg("Listening for webhooks")

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	logging.Info().Msg("Shutdown signal received")

	select {
	case err := <-errCh:
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("supervisor tree: %w", err)
		}
	case <-time.After(cfg.Server.ShutdownTimeout + time.Second):
		report, _ := tree.UnstoppedServiceReport()
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}
	return nil
}

func trackUptime(ctx context.Context, start time.Time) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.AppUptime.Set(time.Since(start).Seconds())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
