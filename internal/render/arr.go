// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package render

import (
	"fmt"
	"strings"

	"github.com/tomtom215/mediarelay/internal/models"
)

// ArrTitle titles Sonarr and Radarr embeds: "Series (Season NN)" for
// multi-episode releases, "Series (SxxEyy)" for one episode, "Movie (Year)".
func ArrTitle(m models.Media) string {
	switch m.Type {
	case models.MediaSeason:
		return fmt.Sprintf("%s (Season %s)", m.SeriesTitle, models.Pad2(m.Season))
	case models.MediaEpisode:
		return fmt.Sprintf("%s (%s)", m.SeriesTitle, models.EpisodeLabel(m.Season, m.Episode))
	default:
		return m.Label()
	}
}

// CustomFormats renders the score and format names as a code block.
func CustomFormats(r *models.Release) string {
	if r == nil || (r.CustomFormatScore == 0 && len(r.CustomFormats) == 0) {
		return ""
	}
	return CodeBlock(fmt.Sprintf("Score: %d\nFormat: %s", r.CustomFormatScore, strings.Join(r.CustomFormats, ", ")))
}

// Grab renders a release grabbed by Sonarr or Radarr.
func Grab(ev models.NormalizedEvent) Message {
	e := Embed{
		Title:  ArrTitle(ev.Media),
		URL:    embedURL(ev.Media),
		Color:  ColorGrab,
		Author: &Author{Name: "A new grab by " + ev.Source.DisplayName()},
	}
	if r := ev.Release; r != nil {
		e.Description = CodeBlock(r.Title)
		e.Fields = []Field{{Name: "Custom Formats", Value: CustomFormats(r)}}
		e.Footer = &Footer{Text: Join(r.Quality, Size(r.SizeBytes), r.Indexer)}
	}
	return single(ev, e)
}

// Download renders a completed import.
func Download(ev models.NormalizedEvent) Message {
	e := Embed{
		Title:  ArrTitle(ev.Media),
		URL:    embedURL(ev.Media),
		Color:  ColorDownload,
		Author: &Author{Name: "Imported by " + ev.Source.DisplayName()},
		Fields: []Field{{Name: "Links", Value: Links(ev.Media)}},
	}
	if r := ev.Release; r != nil {
		e.Description = CodeBlock(r.Title)
		e.Footer = &Footer{Text: Join(r.Quality, Size(r.SizeBytes), r.Indexer)}
	}
	if e.Description == "" {
		e.Description = "A download event has occurred."
	}
	return single(ev, e)
}

// AppUpdate renders an application update notice.
func AppUpdate(ev models.NormalizedEvent) Message {
	app := appOf(ev)
	return single(ev, Embed{
		Title:  ev.Source.DisplayName() + " has been updated",
		Color:  ColorAppUpdate,
		Author: &Author{Name: app.Instance + " - " + known(ev.Event)},
		Fields: []Field{
			{Name: "Old Version", Value: known(app.PreviousVersion), Inline: true},
			{Name: "New Version", Value: known(app.NewVersion), Inline: true},
		},
	})
}

// Test renders the connection test sent when a webhook is configured.
func Test(ev models.NormalizedEvent) Message {
	app := appOf(ev)
	return single(ev, Embed{
		Title:       "Test",
		Description: fmt.Sprintf("This is a test event from %s, it was a success!", ev.Source.DisplayName()),
		Color:       ColorTest,
		Author:      &Author{Name: app.Instance + " - " + known(ev.Event)},
	})
}

func appOf(ev models.NormalizedEvent) models.App {
	if ev.App != nil {
		return *ev.App
	}
	return models.App{Instance: ev.Source.DisplayName()}
}
