// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/mediarelay/internal/bus"
	"github.com/tomtom215/mediarelay/internal/config"
	"github.com/tomtom215/mediarelay/internal/correlation"
	"github.com/tomtom215/mediarelay/internal/extract"
	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/models"
	"github.com/tomtom215/mediarelay/internal/pipeline"
	"github.com/tomtom215/mediarelay/internal/poster"
	"github.com/tomtom215/mediarelay/internal/sink"
	"github.com/tomtom215/mediarelay/internal/trakt"
	ws "github.com/tomtom215/mediarelay/internal/websocket"
)

// relayComponents holds everything between the HTTP handlers and Discord.
type relayComponents struct {
	cache    *correlation.Cache
	discord  *sink.Discord
	bus      *bus.Bus
	pipeline *pipeline.Pipeline
	poller   *trakt.Poller
	store    *poster.BadgerStore
}

func newRelay(cfg *config.Config, hub *ws.Hub) (*relayComponents, error) {
	rc := &relayComponents{}

	var posters extract.PosterResolver
	if cfg.Poster.APIKey != "" {
		var store poster.Store
		if cfg.Poster.CachePath != "" {
			badgerStore, err := poster.OpenBadgerStore(cfg.Poster.CachePath)
			if err != nil {
				return nil, fmt.Errorf("open poster cache: %w", err)
			}
			rc.store = badgerStore
			store = badgerStore
		}
		client := poster.NewClient(poster.ClientConfig{
			APIKey:            cfg.Poster.APIKey,
			BaseURL:           cfg.Poster.BaseURL,
			ImageBaseURL:      cfg.Poster.ImageBaseURL,
			Timeout:           cfg.Poster.Timeout,
			RequestsPerSecond: cfg.Poster.RequestsPerSecond,
			Burst:             cfg.Poster.Burst,
		})
		posters = poster.NewCachingResolver(client, store)
	} else {
		logging.Warn().Msg("TMDB_API_KEY not set, posters are disabled for every source")
	}

	rc.cache = correlation.New(correlation.Config{
		ItemTTL:   cfg.Correlation.ItemTTL,
		TitleTTL:  cfg.Correlation.TitleTTL,
		MaxTitles: cfg.Correlation.MaxTitles,
	}, nil)

	rc.discord = sink.NewDiscord(sink.DiscordConfig{
		Destinations:      cfg.Discord.Destinations,
		Username:          cfg.Discord.Username,
		AvatarURL:         cfg.Discord.AvatarURL,
		Timeout:           cfg.Discord.Timeout,
		RequestsPerSecond: cfg.Discord.RequestsPerSecond,
		Burst:             cfg.Discord.Burst,
	})
	if len(rc.discord.Destinations()) == 0 {
		logging.Warn().Msg("No Discord destinations configured, every message will be dropped")
	}

	relayBus, err := bus.New(bus.Config{
		Transport:    cfg.Bus.Transport,
		Topic:        cfg.Bus.Topic,
		NATSURL:      cfg.Bus.NATSURL,
		CloseTimeout: cfg.Bus.CloseTimeout,
		Observer:     feedObserver(hub),
	}, rc.discord)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("create bus: %w", err)
	}
	rc.bus = relayBus

	rc.pipeline = pipeline.New(extract.New(posters), rc.cache, rc.bus, rc.discord.Has)

	if cfg.Trakt.Enabled {
		client := trakt.NewClient(trakt.ClientConfig{
			APIURL:   cfg.Trakt.APIURL,
			ClientID: cfg.Trakt.ClientID,
			Timeout:  cfg.Trakt.Timeout,
		})
		rc.poller = trakt.NewPoller(client, trakt.PollerConfig{
			Username:          cfg.Trakt.Username,
			RatingsInterval:   cfg.Trakt.RatingsInterval,
			FavoritesInterval: cfg.Trakt.FavoritesInterval,
		}, traktHandler(rc.pipeline))
	}

	return rc, nil
}

// feedObserver mirrors every delivery attempt onto the websocket feed.
func feedObserver(hub *ws.Hub) bus.Observer {
	return func(_ context.Context, env bus.Envelope, err error) {
		data := ws.RelayData{
			EventID:     env.EventID,
			Source:      env.Source,
			Kind:        env.Kind,
			Title:       env.Title(),
			Destination: env.Destination,
			Delivered:   err == nil,
		}
		if err != nil {
			data.Error = err.Error()
		}
		hub.BroadcastRelay(data)
	}
}

// traktHandler feeds polled items through the pipeline. Only a bus failure is
// reported back to the poller.
func traktHandler(p *pipeline.Pipeline) trakt.Handler {
	return func(ctx context.Context, item extract.Payload) error {
		_, err := p.HandlePayload(ctx, models.SourceTrakt, item)
		return err
	}
}

// Close releases the bus and the poster cache.
func (rc *relayComponents) Close() {
	var errs []error
	if rc.bus != nil {
		errs = append(errs, rc.bus.Close())
	}
	if rc.store != nil {
		errs = append(errs, rc.store.Close())
	}
	if err := errors.Join(errs...); err != nil {
		logging.Error().Err(err).Msg("Error closing relay components")
	}
}
