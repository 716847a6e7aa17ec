// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Unknown is the sentinel for string fields that were absent or wrong-typed.
const Unknown = "Unknown"

// IsKnown reports whether s carries real data.
func IsKnown(s string) bool {
	return s != "" && s != Unknown
}

// ProviderIDs are external database identifiers. Empty means absent.
type ProviderIDs struct {
	IMDb      string `json:"imdb,omitempty"`
	TMDb      string `json:"tmdb,omitempty"`
	TVDB      string `json:"tvdb,omitempty"`
	TraktSlug string `json:"trakt_slug,omitempty"`
}

// Link is a named external URL.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Media describes the item an event is about.
type Media struct {
	Type        MediaType `json:"type"`
	Title       string    `json:"title"`
	SeriesTitle string    `json:"series_title,omitempty"`
	Season      int       `json:"season"`
	Episode     int       `json:"episode"`
	Year        int       `json:"year,omitempty"`
	Overview    string    `json:"overview,omitempty"`
	Genres      []string  `json:"genres,omitempty"`

	IDs       ProviderIDs `json:"ids"`
	SeriesIDs ProviderIDs `json:"series_ids"`
	Links     []Link      `json:"links,omitempty"`
	Trailers  []Link      `json:"trailers,omitempty"`

	PremiereDate   time.Time `json:"premiere_date,omitempty"`
	RuntimeSeconds float64   `json:"runtime_seconds,omitempty"`
	EpisodeCount   int       `json:"episode_count,omitempty"`
	PosterURL      string    `json:"poster_url,omitempty"`

	// URL is a source-provided link to the item, such as a Plex web URL.
	URL string `json:"url,omitempty"`
}

// Actor is the user and session behind a playback event.
type Actor struct {
	Username   string `json:"username"`
	Client     string `json:"client"`
	Device     string `json:"device,omitempty"`
	PlayMethod string `json:"play_method,omitempty"`
}

// Release is the download candidate reported by an arr tool.
type Release struct {
	Title             string   `json:"title"`
	Quality           string   `json:"quality"`
	SizeBytes         int64    `json:"size_bytes"`
	Indexer           string   `json:"indexer"`
	CustomFormatScore int      `json:"custom_format_score"`
	CustomFormats     []string `json:"custom_formats,omitempty"`
}

// App carries application-level details: instance name and versions.
type App struct {
	Instance        string `json:"instance"`
	PreviousVersion string `json:"previous_version,omitempty"`
	NewVersion      string `json:"new_version,omitempty"`
}

// Rating is an activity feed rating or favorite.
type Rating struct {
	Value    int       `json:"value,omitempty"`
	At       time.Time `json:"at"`
	Username string    `json:"username"`
}

// NormalizedEvent is the canonical record produced by extraction.
type NormalizedEvent struct {
	ID      string `json:"id"`
	Source  Source `json:"source"`
	Kind    Kind   `json:"kind"`
	ItemKey string `json:"item_key"`

	// Event is the raw upstream event name, kept for logs and fallback rendering.
	Event string `json:"event"`

	Media   Media    `json:"media"`
	Actor   *Actor   `json:"actor,omitempty"`
	Release *Release `json:"release,omitempty"`
	App     *App     `json:"app,omitempty"`
	Rating  *Rating  `json:"rating,omitempty"`

	// MetadataReady marks a secondary update that carries completed metadata.
	MetadataReady bool `json:"metadata_ready"`

	ReceivedAt time.Time `json:"received_at"`
}

// CorrelationKey namespaces ItemKey by source.
func (e NormalizedEvent) CorrelationKey() string {
	return e.Source.String() + ":" + e.ItemKey
}

// TitleKey is the coarse identity used by the duplicate guard: the label
// lower-cased with whitespace collapsed, namespaced by source.
func (e NormalizedEvent) TitleKey() string {
	return e.Source.String() + ":" + strings.Join(strings.Fields(strings.ToLower(e.Media.Label())), " ")
}

// EpisodeLabel formats SxxEyy. Negative numbers are treated as missing.
func EpisodeLabel(season, episode int) string {
	return fmt.Sprintf("S%sE%s", Pad2(season), Pad2(episode))
}

// Pad2 zero-pads n to two digits; missing (zero or negative) renders as 00.
func Pad2(n int) string {
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%02d", n)
}

// Label is the display title by media type:
//
//	Movie    Name (Year)
//	Episode  Series - Name (SxxEyy)
//	Season   Series - Season NN
//	Show     Name
func (m Media) Label() string {
	switch m.Type {
	case MediaMovie:
		if m.Year > 0 {
			return fmt.Sprintf("%s (%d)", m.Title, m.Year)
		}
		return m.Title
	case MediaEpisode:
		label := EpisodeLabel(m.Season, m.Episode)
		if IsKnown(m.SeriesTitle) {
			return fmt.Sprintf("%s - %s (%s)", m.SeriesTitle, m.Title, label)
		}
		return fmt.Sprintf("%s (%s)", m.Title, label)
	case MediaSeason:
		series := m.SeriesTitle
		if !IsKnown(series) {
			series = m.Title
		}
		return fmt.Sprintf("%s - Season %s", series, Pad2(m.Season))
	default:
		return m.Title
	}
}

// RuntimeMinutes rounds the runtime down to whole minutes.
func (m Media) RuntimeMinutes() int {
	return int(m.RuntimeSeconds / 60)
}

// Clone returns a deep copy of e.
func (e NormalizedEvent) Clone() NormalizedEvent {
	out := e
	out.Media = e.Media.clone()
	if e.Actor != nil {
		a := *e.Actor
		out.Actor = &a
	}
	if e.Release != nil {
		r := *e.Release
		r.CustomFormats = slices.Clone(e.Release.CustomFormats)
		out.Release = &r
	}
	if e.App != nil {
		a := *e.App
		out.App = &a
	}
	if e.Rating != nil {
		r := *e.Rating
		out.Rating = &r
	}
	return out
}

func (m Media) clone() Media {
	out := m
	out.Genres = slices.Clone(m.Genres)
	out.Links = slices.Clone(m.Links)
	out.Trailers = slices.Clone(m.Trailers)
	return out
}

// WithPoster returns a copy of e with the poster URL set.
func (e NormalizedEvent) WithPoster(url string) NormalizedEvent {
	out := e.Clone()
	out.Media.PosterURL = url
	return out
}

// Merge combines a held event with a later one for the same item. Fields the
// incoming event carries override the stored event; fields it lacks fall back
// to the stored values. Identity, kind and receipt time come from incoming.
func Merge(stored, incoming NormalizedEvent) NormalizedEvent {
	out := incoming.Clone()
	s := stored.Clone()

	out.Media = mergeMedia(s.Media, out.Media)
	if out.Actor == nil {
		out.Actor = s.Actor
	}
	if out.Release == nil {
		out.Release = s.Release
	}
	if out.App == nil {
		out.App = s.App
	}
	if out.Rating == nil {
		out.Rating = s.Rating
	}
	if out.ItemKey == "" {
		out.ItemKey = s.ItemKey
	}
	out.MetadataReady = stored.MetadataReady || incoming.MetadataReady
	return out
}

func mergeMedia(stored, in Media) Media {
	out := in
	if out.Type == MediaUnknown {
		out.Type = stored.Type
	}
	out.Title = pickString(in.Title, stored.Title)
	out.SeriesTitle = pickString(in.SeriesTitle, stored.SeriesTitle)
	out.Overview = pickString(in.Overview, stored.Overview)
	out.PosterURL = pickString(in.PosterURL, stored.PosterURL)
	out.URL = pickString(in.URL, stored.URL)
	out.Season = pickInt(in.Season, stored.Season)
	out.Episode = pickInt(in.Episode, stored.Episode)
	out.Year = pickInt(in.Year, stored.Year)
	out.EpisodeCount = pickInt(in.EpisodeCount, stored.EpisodeCount)
	if in.RuntimeSeconds == 0 {
		out.RuntimeSeconds = stored.RuntimeSeconds
	}
	if in.PremiereDate.IsZero() {
		out.PremiereDate = stored.PremiereDate
	}
	if len(in.Genres) == 0 {
		out.Genres = stored.Genres
	}
	if len(in.Links) == 0 {
		out.Links = stored.Links
	}
	if len(in.Trailers) == 0 {
		out.Trailers = stored.Trailers
	}
	out.IDs = mergeIDs(stored.IDs, in.IDs)
	out.SeriesIDs = mergeIDs(stored.SeriesIDs, in.SeriesIDs)
	return out
}

func mergeIDs(stored, in ProviderIDs) ProviderIDs {
	return ProviderIDs{
		IMDb:      pickString(in.IMDb, stored.IMDb),
		TMDb:      pickString(in.TMDb, stored.TMDb),
		TVDB:      pickString(in.TVDB, stored.TVDB),
		TraktSlug: pickString(in.TraktSlug, stored.TraktSlug),
	}
}

func pickString(in, stored string) string {
	if IsKnown(in) {
		return in
	}
	if IsKnown(stored) {
		return stored
	}
	return in
}

func pickInt(in, stored int) int {
	if in != 0 {
		return in
	}
	return stored
}
