// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package extract

import (
	"context"
	"strings"

	"github.com/tomtom215/mediarelay/internal/models"
)

// TicksPerSecond converts tick-based durations (100ns units) to seconds.
const TicksPerSecond = 10_000_000

// RuntimeSeconds converts a tick count to seconds; absent or non-positive is 0.
func RuntimeSeconds(ticks float64) float64 {
	if ticks <= 0 {
		return 0
	}
	return ticks / TicksPerSecond
}

// classifyMedia maps an upstream type name onto the controlled vocabulary.
// Person, Folder and anything outside the vocabulary are rejected.
func classifyMedia(source models.Source, raw string) (models.MediaType, *Failure) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "movie":
		return models.MediaMovie, nil
	case "episode":
		return models.MediaEpisode, nil
	case "season":
		return models.MediaSeason, nil
	case "show", "series":
		return models.MediaShow, nil
	case "person", "folder":
		return models.MediaUnknown, fail(source, ReasonUnsupportedType, "media type %q is never relayed", raw)
	default:
		return models.MediaUnknown, fail(source, ReasonUnsupportedType, "media type %q is not supported", raw)
	}
}

// PosterResolver looks up poster art. Failures return ("", false).
type PosterResolver interface {
	MoviePoster(ctx context.Context, tmdbID string) (string, bool)
	ShowPoster(ctx context.Context, tvdbID string) (string, bool)
}

// resolvePoster is the single poster branch: series-like media resolve via
// the show's TVDB id, movies via the TMDb id. A poster already supplied by
// the payload wins.
func resolvePoster(ctx context.Context, r PosterResolver, m models.Media) string {
	if m.PosterURL != "" || r == nil {
		return m.PosterURL
	}
	var (
		url string
		ok  bool
	)
	switch m.Type {
	case models.MediaEpisode, models.MediaSeason, models.MediaShow:
		tvdb := m.SeriesIDs.TVDB
		if tvdb == "" && m.Type == models.MediaShow {
			tvdb = m.IDs.TVDB
		}
		if tvdb == "" {
			return ""
		}
		url, ok = r.ShowPoster(ctx, tvdb)
	case models.MediaMovie:
		if m.IDs.TMDb == "" {
			return ""
		}
		url, ok = r.MoviePoster(ctx, m.IDs.TMDb)
	}
	if !ok {
		return ""
	}
	return url
}

// providerIDs reads a ProviderIds-style object with case-insensitive keys.
func providerIDs(p Payload) models.ProviderIDs {
	ids := models.ProviderIDs{}
	for key := range p.fields {
		switch strings.ToLower(key) {
		case "imdb":
			ids.IMDb = p.ID(key)
		case "tmdb":
			ids.TMDb = p.ID(key)
		case "tvdb":
			ids.TVDB = p.ID(key)
		case "slug", "trakt":
			if ids.TraktSlug == "" || strings.ToLower(key) == "slug" {
				ids.TraktSlug = p.ID(key)
			}
		}
	}
	return ids
}

// firstID returns the first non-empty identifier in preference order.
func firstID(ids models.ProviderIDs) string {
	for _, id := range []string{ids.TMDb, ids.TVDB, ids.IMDb, ids.TraktSlug} {
		if id != "" {
			return id
		}
	}
	return ""
}
