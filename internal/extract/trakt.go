// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package extract

import (
	"fmt"

	"github.com/tomtom215/mediarelay/internal/models"
)

// TraktBaseURL is the public site used for item and profile links.
const TraktBaseURL = "https://trakt.tv"

// extractTrakt reads one ratings or favorites list item. Items with rated_at
// are ratings; items with listed_at are favorites. The poller adds a
// "username" key so the renderer can link the profile.
func extractTrakt(p Payload) (models.NormalizedEvent, *Failure) {
	itemType := p.String("type")
	mediaType, f := classifyMedia(models.SourceTrakt, itemType)
	if f != nil {
		return models.NormalizedEvent{}, f
	}

	var (
		kind  models.Kind
		event string
		at    = p.Time("rated_at")
	)
	switch {
	case p.Has("rated_at"):
		kind, event = models.KindRated, "rating"
	case p.Has("listed_at"):
		kind, event, at = models.KindFavorited, "favorite", p.Time("listed_at")
	default:
		return models.NormalizedEvent{}, fail(models.SourceTrakt, ReasonUnknownEvent, "item has neither rated_at nor listed_at")
	}

	show := p.Object("show")
	showIDs := traktIDs(show.Object("ids"))
	media := models.Media{Type: mediaType, SeriesIDs: showIDs}

	var keyObj Payload
	switch mediaType {
	case models.MediaMovie:
		movie := p.Object("movie")
		media.Title = movie.String("title")
		media.Year = movie.Int("year")
		media.Overview = movie.String("overview")
		media.IDs = traktIDs(movie.Object("ids"))
		media.SeriesIDs = models.ProviderIDs{}
		media.URL = traktURL("movies", media.IDs.TraktSlug)
		keyObj = movie
	case models.MediaShow:
		media.Title = show.String("title")
		media.Year = show.Int("year")
		media.Overview = show.String("overview")
		media.IDs = showIDs
		media.URL = traktURL("shows", showIDs.TraktSlug)
		keyObj = show
	case models.MediaSeason:
		season := p.Object("season")
		media.Title = show.String("title")
		media.SeriesTitle = show.String("title")
		media.Year = show.Int("year")
		media.Season = season.Int("number")
		media.IDs = traktIDs(season.Object("ids"))
		if base := traktURL("shows", showIDs.TraktSlug); base != "" {
			media.URL = fmt.Sprintf("%s/seasons/%d", base, media.Season)
		}
		keyObj = season
	case models.MediaEpisode:
		episode := p.Object("episode")
		media.Title = episode.String("title")
		media.SeriesTitle = show.String("title")
		media.Year = show.Int("year")
		media.Season = episode.Int("season")
		media.Episode = episode.Int("number")
		media.IDs = traktIDs(episode.Object("ids"))
		if base := traktURL("shows", showIDs.TraktSlug); base != "" {
			media.URL = fmt.Sprintf("%s/seasons/%d/episodes/%d", base, media.Season, media.Episode)
		}
		keyObj = episode
	}

	id := keyObj.Object("ids").ID("trakt")
	if id == "" {
		id = firstID(media.IDs)
	}
	if id == "" {
		return models.NormalizedEvent{}, fail(models.SourceTrakt, ReasonMissingKey, "%s has no ids", itemType)
	}

	return models.NormalizedEvent{
		Kind:    kind,
		ItemKey: fmt.Sprintf("%s:%s:%s", event, mediaType, id),
		Event:   event,
		Media:   media,
		Rating: &models.Rating{
			Value:    p.Int("rating"),
			At:       at,
			Username: p.String("username"),
		},
	}, nil
}

func traktIDs(ids Payload) models.ProviderIDs {
	return models.ProviderIDs{
		IMDb:      ids.ID("imdb"),
		TMDb:      ids.ID("tmdb"),
		TVDB:      ids.ID("tvdb"),
		TraktSlug: ids.ID("slug"),
	}
}

func traktURL(section, slug string) string {
	if slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", TraktBaseURL, section, slug)
}
