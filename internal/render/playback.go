// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package render

import (
	"fmt"

	"github.com/tomtom215/mediarelay/internal/models"
)

var playbackVerbs = map[models.Kind]string{
	models.KindPlaying:  "Playing",
	models.KindResumed:  "Resuming",
	models.KindPaused:   "Paused",
	models.KindFinished: "Stopped",
}

func playbackColor(ev models.NormalizedEvent) int {
	if ev.Source == models.SourcePlex {
		return ColorPlex
	}
	switch ev.Kind {
	case models.KindResumed:
		return ColorResumed
	case models.KindPaused:
		return ColorPaused
	case models.KindFinished:
		return ColorFinished
	default:
		return ColorPlaying
	}
}

// Playback renders a session change on a media server.
func Playback(ev models.NormalizedEvent) Message {
	verb, ok := playbackVerbs[ev.Kind]
	if !ok {
		verb = "Playing"
	}

	e := Embed{
		Title:       ev.Media.Label(),
		Description: Plot(ev.Media),
		URL:         embedURL(ev.Media),
		Color:       playbackColor(ev),
		Author:      &Author{Name: fmt.Sprintf("%s on %s", verb, ev.Source.DisplayName())},
	}
	if a := ev.Actor; a != nil {
		e.Footer = &Footer{Text: Join(a.Username, a.PlayMethod, a.Client)}
	}
	return single(ev, e)
}

// embedURL prefers the item's own page, then its IMDb and TMDb links.
func embedURL(m models.Media) string {
	if m.URL != "" {
		return m.URL
	}
	if u := LinkURL(m, "IMDb"); u != "" {
		return u
	}
	return LinkURL(m, "TMDb")
}
