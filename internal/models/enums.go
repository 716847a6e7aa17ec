// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package models

import "strings"

// Source identifies the upstream tool that produced an event.
type Source int

const (
	SourceUnknown Source = iota
	SourceJellyfin
	SourcePlex
	SourceSonarr
	SourceRadarr
	SourceTrakt
)

// Sources lists every concrete source in route order.
var Sources = []Source{SourceJellyfin, SourcePlex, SourceSonarr, SourceRadarr, SourceTrakt}

var sourceNames = map[Source]string{
	SourceUnknown:  "unknown",
	SourceJellyfin: "jellyfin",
	SourcePlex:     "plex",
	SourceSonarr:   "sonarr",
	SourceRadarr:   "radarr",
	SourceTrakt:    "trakt",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return "unknown"
}

// DisplayName is the product name used in rendered messages.
func (s Source) DisplayName() string {
	switch s {
	case SourceJellyfin:
		return "Jellyfin"
	case SourcePlex:
		return "Plex"
	case SourceSonarr:
		return "Sonarr"
	case SourceRadarr:
		return "Radarr"
	case SourceTrakt:
		return "Trakt"
	default:
		return "Unknown"
	}
}

// ParseSource maps a route name such as "jellyfin" to a Source.
func ParseSource(name string) (Source, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range Sources {
		if sourceNames[s] == name {
			return s, true
		}
	}
	return SourceUnknown, false
}

// Kind is what happened upstream.
type Kind int

const (
	KindUnknown Kind = iota
	KindPlaying
	KindResumed
	KindPaused
	KindFinished
	KindContentAdded
	KindContentUpdated
	KindGrab
	KindDownload
	KindAppUpdate
	KindRated
	KindFavorited
	KindTest
)

// Kinds lists every concrete kind.
var Kinds = []Kind{
	KindPlaying, KindResumed, KindPaused, KindFinished,
	KindContentAdded, KindContentUpdated,
	KindGrab, KindDownload, KindAppUpdate,
	KindRated, KindFavorited, KindTest,
}

func (k Kind) String() string {
	switch k {
	case KindPlaying:
		return "playing"
	case KindResumed:
		return "resumed"
	case KindPaused:
		return "paused"
	case KindFinished:
		return "finished"
	case KindContentAdded:
		return "content_added"
	case KindContentUpdated:
		return "content_updated"
	case KindGrab:
		return "grab"
	case KindDownload:
		return "download"
	case KindAppUpdate:
		return "app_update"
	case KindRated:
		return "rated"
	case KindFavorited:
		return "favorited"
	case KindTest:
		return "test"
	default:
		return "unknown"
	}
}

// IsPlayback reports whether k describes a playback session change.
func (k Kind) IsPlayback() bool {
	switch k {
	case KindPlaying, KindResumed, KindPaused, KindFinished:
		return true
	}
	return false
}

// IsContent reports whether k announces content and is subject to duplicate
// suppression. Activity-feed kinds are not: every rating and favorite is its
// own item.
func (k Kind) IsContent() bool {
	switch k {
	case KindContentAdded, KindContentUpdated, KindDownload:
		return true
	}
	return false
}

// MediaType classifies the item an event is about.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaMovie
	MediaEpisode
	MediaSeason
	MediaShow
)

func (m MediaType) String() string {
	switch m {
	case MediaMovie:
		return "Movie"
	case MediaEpisode:
		return "Episode"
	case MediaSeason:
		return "Season"
	case MediaShow:
		return "Show"
	default:
		return Unknown
	}
}

// IsSeriesLike reports whether plots for m are hidden behind spoiler markers.
func (m MediaType) IsSeriesLike() bool {
	return m == MediaEpisode || m == MediaShow
}
