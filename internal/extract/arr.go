// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package extract

import (
	"fmt"
	"strings"

	"github.com/tomtom215/mediarelay/internal/models"
)

var arrKinds = map[string]models.Kind{
	"Grab":              models.KindGrab,
	"Download":          models.KindDownload,
	"ApplicationUpdate": models.KindAppUpdate,
	"Test":              models.KindTest,
}

// arrCommon reads the parts Sonarr and Radarr payloads share.
func arrCommon(source models.Source, p Payload) (models.NormalizedEvent, *Failure) {
	event := p.String("eventType")
	kind, ok := arrKinds[event]
	if !ok {
		return models.NormalizedEvent{}, fail(source, ReasonUnknownEvent, "eventType %q", event)
	}
	ev := models.NormalizedEvent{Kind: kind, Event: event}

	switch kind {
	case models.KindAppUpdate, models.KindTest:
		ev.App = &models.App{
			Instance:        p.String("instanceName"),
			PreviousVersion: p.String("previousVersion"),
			NewVersion:      p.String("newVersion"),
		}
		if !models.IsKnown(ev.App.Instance) {
			ev.App.Instance = source.DisplayName()
		}
		ev.ItemKey = strings.ToLower(fmt.Sprintf("%s:%s:%s", event, ev.App.Instance, ev.App.NewVersion))
	case models.KindGrab:
		ev.Release = arrRelease(p.Object("release"), Payload{})
	case models.KindDownload:
		file := p.Object("episodeFile")
		if source == models.SourceRadarr {
			file = p.Object("movieFile")
		}
		ev.Release = arrRelease(p.Object("release"), file)
	}
	return ev, nil
}

// arrRelease reads release details, falling back to the imported file for
// fields a Download payload carries there instead.
func arrRelease(release, file Payload) *models.Release {
	r := &models.Release{
		Title:             release.String("releaseTitle"),
		Quality:           release.String("quality"),
		SizeBytes:         release.Int64("size"),
		Indexer:           release.String("indexer"),
		CustomFormatScore: release.Int("customFormatScore"),
		CustomFormats:     customFormats(release),
	}
	if !models.IsKnown(r.Title) {
		r.Title = file.String("sceneName")
	}
	if !models.IsKnown(r.Quality) {
		r.Quality = file.String("quality")
	}
	if r.SizeBytes == 0 {
		r.SizeBytes = file.Int64("size")
	}
	return r
}

// customFormats accepts either a list of names or a list of {name} objects.
func customFormats(release Payload) []string {
	names := release.Strings("customFormats")
	for _, o := range release.Objects("customFormats") {
		if n := o.String("name"); models.IsKnown(n) {
			names = append(names, n)
		}
	}
	return names
}

// extractSonarr reads a Sonarr webhook. One episode is an Episode; several
// episodes in one payload are reported as their Season.
func extractSonarr(p Payload) (models.NormalizedEvent, *Failure) {
	ev, f := arrCommon(models.SourceSonarr, p)
	if f != nil || ev.App != nil {
		return ev, f
	}

	series := p.Object("series")
	episodes := p.Objects("episodes")
	ids := models.ProviderIDs{
		TVDB: series.ID("tvdbId"),
		IMDb: series.ID("imdbId"),
		TMDb: series.ID("tmdbId"),
	}
	media := models.Media{
		Type:         models.MediaEpisode,
		SeriesTitle:  series.String("title"),
		Title:        UnknownString,
		Year:         series.Int("year"),
		IDs:          ids,
		SeriesIDs:    ids,
		EpisodeCount: len(episodes),
	}
	if len(episodes) > 0 {
		first := episodes[0]
		media.Season = first.Int("seasonNumber")
		media.Episode = first.Int("episodeNumber")
		media.Title = first.String("title")
		media.Overview = first.String("overview")
		media.PremiereDate = first.Time("airDate")
	}
	if len(episodes) > 1 {
		media.Type = models.MediaSeason
		media.Episode = 0
		media.Title = media.SeriesTitle
	}

	base := ids.TVDB
	if base == "" && models.IsKnown(media.SeriesTitle) {
		base = strings.ToLower(media.SeriesTitle)
	}
	if base == "" {
		return models.NormalizedEvent{}, fail(models.SourceSonarr, ReasonMissingKey, "series has no tvdbId or title")
	}
	if media.Type == models.MediaSeason {
		ev.ItemKey = base + ":S" + models.Pad2(media.Season)
	} else {
		ev.ItemKey = base + ":" + models.EpisodeLabel(media.Season, media.Episode)
	}
	ev.Media = media
	return ev, nil
}

// extractRadarr reads a Radarr webhook.
func extractRadarr(p Payload) (models.NormalizedEvent, *Failure) {
	ev, f := arrCommon(models.SourceRadarr, p)
	if f != nil || ev.App != nil {
		return ev, f
	}

	movie := p.Object("movie")
	media := models.Media{
		Type:         models.MediaMovie,
		Title:        movie.String("title"),
		Year:         movie.Int("year"),
		Overview:     movie.String("overview"),
		Genres:       movie.Strings("genres"),
		PremiereDate: movie.Time("releaseDate"),
		IDs: models.ProviderIDs{
			TMDb: movie.ID("tmdbId"),
			IMDb: movie.ID("imdbId"),
		},
	}

	ev.ItemKey = firstID(media.IDs)
	if ev.ItemKey == "" && models.IsKnown(media.Title) {
		ev.ItemKey = strings.ToLower(media.Label())
	}
	if ev.ItemKey == "" {
		return models.NormalizedEvent{}, fail(models.SourceRadarr, ReasonMissingKey, "movie has no tmdbId, imdbId or title")
	}
	ev.Media = media
	return ev, nil
}
