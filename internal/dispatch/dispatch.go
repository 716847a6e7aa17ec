// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package dispatch

import (
	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/models"
	"github.com/tomtom215/mediarelay/internal/render"
)

// Destination names configured under discord.destinations.
const (
	DestJellyfinPlaying = "jellyfin_playing"
	DestJellyfinContent = "jellyfin_content"
	DestPlexPlaying     = "plex_playing"
	DestPlexContent     = "plex_content"
	DestSonarr          = "sonarr"
	DestRadarr          = "radarr"
	DestTrakt           = "trakt"
	DestDefault         = "default"
)

// Destinations lists every destination a route can name.
var Destinations = []string{
	DestJellyfinPlaying, DestJellyfinContent,
	DestPlexPlaying, DestPlexContent,
	DestSonarr, DestRadarr, DestTrakt, DestDefault,
}

// Style names the visual layout of a route.
type Style string

// Styles.
const (
	StylePlayback   Style = "playback"
	StyleNewContent Style = "new_content"
	StyleGrab       Style = "grab"
	StyleDownload   Style = "download"
	StyleAppUpdate  Style = "app_update"
	StyleTest       Style = "test"
	StyleTrakt      Style = "trakt"
	StyleMinimal    Style = "minimal"
)

// Route says where and how an event is presented.
type Route struct {
	Destination string
	Style       Style
	Render      render.Func
}

// IsDefault reports whether r is the fallback route.
func (r Route) IsDefault() bool {
	return r.Destination == DestDefault
}

var defaultRoute = Route{Destination: DestDefault, Style: StyleMinimal, Render: render.Minimal}

func route(dest string, style Style, fn render.Func) Route {
	return Route{Destination: dest, Style: style, Render: fn}
}

// Resolve maps a (source, kind) pair to its route. Pairs without a declared
// route log UnhandledEventPair and get the minimal default route.
func Resolve(source models.Source, kind models.Kind) Route {
	if r, ok := lookup(source, kind); ok {
		return r
	}
	logging.Warn().
		Str("source", source.String()).
		Str("kind", kind.String()).
		Msg("UnhandledEventPair: no route declared, using minimal render")
	return defaultRoute
}

func lookup(source models.Source, kind models.Kind) (Route, bool) {
	switch source {
	case models.SourceJellyfin:
		switch kind {
		case models.KindPlaying, models.KindResumed, models.KindPaused, models.KindFinished:
			return route(DestJellyfinPlaying, StylePlayback, render.Playback), true
		case models.KindContentAdded, models.KindContentUpdated:
			return route(DestJellyfinContent, StyleNewContent, render.NewContent), true
		}
	case models.SourcePlex:
		switch kind {
		case models.KindPlaying, models.KindResumed, models.KindPaused, models.KindFinished:
			return route(DestPlexPlaying, StylePlayback, render.Playback), true
		case models.KindContentAdded:
			return route(DestPlexContent, StyleNewContent, render.NewContent), true
		}
	case models.SourceSonarr, models.SourceRadarr:
		dest := DestSonarr
		if source == models.SourceRadarr {
			dest = DestRadarr
		}
		switch kind {
		case models.KindGrab:
			return route(dest, StyleGrab, render.Grab), true
		case models.KindDownload:
			return route(dest, StyleDownload, render.Download), true
		case models.KindAppUpdate:
			return route(dest, StyleAppUpdate, render.AppUpdate), true
		case models.KindTest:
			return route(dest, StyleTest, render.Test), true
		}
	case models.SourceTrakt:
		switch kind {
		case models.KindRated, models.KindFavorited:
			return route(DestTrakt, StyleTrakt, render.Trakt), true
		}
	}
	return Route{}, false
}
