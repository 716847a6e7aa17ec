// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package render

import (
	"fmt"

	"github.com/tomtom215/mediarelay/internal/models"
)

// TraktProfileURL is the base of user profile links.
const TraktProfileURL = "https://trakt.tv/users/"

// TraktTitle titles activity items: the show, "Show - Season NN",
// "Show - SxxEyy", or "Title (Year)".
func TraktTitle(m models.Media) string {
	switch m.Type {
	case models.MediaSeason:
		return fmt.Sprintf("%s - Season %s", m.SeriesTitle, models.Pad2(m.Season))
	case models.MediaEpisode:
		return fmt.Sprintf("%s - %s", m.SeriesTitle, models.EpisodeLabel(m.Season, m.Episode))
	default:
		return m.Label()
	}
}

func traktAuthor(kind models.Kind, mediaType models.MediaType) string {
	verb := "rated"
	if kind == models.KindFavorited {
		verb = "favorited"
	}
	article := "A"
	if mediaType == models.MediaEpisode {
		article = "An"
	}
	noun := "movie"
	switch mediaType {
	case models.MediaShow:
		noun = "show"
	case models.MediaSeason:
		noun = "season"
	case models.MediaEpisode:
		noun = "episode"
	}
	return fmt.Sprintf("Trakt: %s %s has been %s", article, noun, verb)
}

// Trakt renders a rating or favorite from the activity feed.
func Trakt(ev models.NormalizedEvent) Message {
	e := Embed{
		Title:  TraktTitle(ev.Media),
		URL:    ev.Media.URL,
		Color:  ColorTrakt,
		Author: &Author{Name: traktAuthor(ev.Kind, ev.Media.Type)},
	}
	if r := ev.Rating; r != nil {
		if models.IsKnown(r.Username) {
			e.Fields = append(e.Fields, Field{
				Name:   "User",
				Value:  fmt.Sprintf("[%s](%s%s)", r.Username, TraktProfileURL, r.Username),
				Inline: true,
			})
		}
		if ev.Kind == models.KindRated && r.Value > 0 {
			e.Fields = append(e.Fields, Field{Name: "Rating", Value: fmt.Sprintf("%d :star:", r.Value), Inline: true})
		}
	}
	return single(ev, e)
}
