// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package trakt

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/tomtom215/mediarelay/internal/extract"
	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/metrics"
)

// Lister fetches one feed for a user.
type Lister interface {
	Ratings(ctx context.Context, username string) ([]map[string]any, error)
	Favorites(ctx context.Context, username string) ([]map[string]any, error)
}

// Handler receives each new feed item, oldest first.
type Handler func(ctx context.Context, item extract.Payload) error

// Feed names.
const (
	FeedRatings   = "ratings"
	FeedFavorites = "favorites"
)

// PollerConfig configures a Poller. Each feed's look-back window equals its
// interval, so consecutive polls cover time without gaps or overlap.
type PollerConfig struct {
	Username          string
	RatingsInterval   time.Duration
	FavoritesInterval time.Duration
}

// Poller periodically reads a user's ratings and favorites and forwards the
// items that appeared since the previous poll.
type Poller struct {
	client  Lister
	config  PollerConfig
	handler Handler
	now     func() time.Time
}

// NewPoller creates a Poller.
func NewPoller(client Lister, cfg PollerConfig, handler Handler) *Poller {
	if cfg.RatingsInterval <= 0 {
		cfg.RatingsInterval = time.Hour
	}
	if cfg.FavoritesInterval <= 0 {
		cfg.FavoritesInterval = 24 * time.Hour
	}
	return &Poller{client: client, config: cfg, handler: handler, now: time.Now}
}

// Serve polls both feeds until ctx is done. It implements suture.Service.
func (p *Poller) Serve(ctx context.Context) error {
	logging.Info().
		Str("username", p.config.Username).
		Dur("ratings_interval", p.config.RatingsInterval).
		Dur("favorites_interval", p.config.FavoritesInterval).
		Msg("Starting Trakt poller")

	p.Poll(ctx, FeedRatings)
	p.Poll(ctx, FeedFavorites)

	ratings := time.NewTicker(p.config.RatingsInterval)
	defer ratings.Stop()
	favorites := time.NewTicker(p.config.FavoritesInterval)
	defer favorites.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Trakt poller stopped")
			return ctx.Err()
		case <-ratings.C:
			p.Poll(ctx, FeedRatings)
		case <-favorites.C:
			p.Poll(ctx, FeedFavorites)
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (p *Poller) String() string {
	return "trakt-poller"
}

// Poll runs one poll of feed and returns how many items were forwarded.
// Errors are logged; the next tick tries again.
func (p *Poller) Poll(ctx context.Context, feed string) int {
	var (
		items   []map[string]any
		err     error
		timeKey string
		window  time.Duration
	)
	switch feed {
	case FeedRatings:
		timeKey, window = "rated_at", p.config.RatingsInterval
		items, err = p.client.Ratings(ctx, p.config.Username)
	case FeedFavorites:
		timeKey, window = "listed_at", p.config.FavoritesInterval
		items, err = p.client.Favorites(ctx, p.config.Username)
	default:
		return 0
	}
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrNotFound) {
			outcome = "not_found"
		}
		metrics.TraktPolls.WithLabelValues(feed, outcome).Inc()
		logging.Error().Err(err).Str("feed", feed).Str("username", p.config.Username).Msg("Trakt poll failed")
		return 0
	}
	metrics.TraktPolls.WithLabelValues(feed, "success").Inc()

	recent := Recent(items, timeKey, p.now(), window)
	forwarded := 0
	for _, item := range recent {
		item["username"] = p.config.Username
		if err := p.handler(ctx, extract.NewPayload(item)); err != nil {
			logging.Error().Err(err).Str("feed", feed).Msg("Failed to relay Trakt item")
			continue
		}
		forwarded++
	}
	metrics.TraktItems.WithLabelValues(feed).Add(float64(forwarded))
	if forwarded > 0 {
		logging.Info().Str("feed", feed).Int("items", forwarded).Msg("Relayed Trakt activity")
	}
	return forwarded
}

// Recent keeps items whose timeKey falls in (now-window, now], sorted oldest
// first. Items with a missing or unparsable time are skipped.
func Recent(items []map[string]any, timeKey string, now time.Time, window time.Duration) []map[string]any {
	type stamped struct {
		at   time.Time
		item map[string]any
	}
	since := now.Add(-window)

	kept := make([]stamped, 0, len(items))
	for _, item := range items {
		at := extract.NewPayload(item).Time(timeKey)
		if at.IsZero() || !at.After(since) || at.After(now) {
			continue
		}
		kept = append(kept, stamped{at: at, item: item})
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].at.Before(kept[j].at) })

	out := make([]map[string]any, len(kept))
	for i, s := range kept {
		out[i] = s.item
	}
	return out
}
