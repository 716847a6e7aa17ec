// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package render

import (
	"fmt"
	"strconv"

	"github.com/tomtom215/mediarelay/internal/models"
)

// NewContent renders a library addition on a media server. Jellyfin puts the
// plot in a field, Plex in the description.
func NewContent(ev models.NormalizedEvent) Message {
	m := ev.Media
	e := Embed{
		Title:  m.Label(),
		URL:    embedURL(m),
		Color:  ColorJellyfin,
		Author: &Author{Name: fmt.Sprintf("New %s added to %s", m.Type, ev.Source.DisplayName())},
		Footer: &Footer{Text: ContentFooter(m)},
	}

	if ev.Source == models.SourcePlex {
		e.Color = ColorPlex
		e.Description = Plot(m)
	} else {
		e.Fields = append(e.Fields, Field{Name: "Plot", Value: Plot(m)})
	}
	if m.Type == models.MediaSeason && m.EpisodeCount > 0 {
		e.Fields = append(e.Fields, Field{Name: "Episodes", Value: strconv.Itoa(m.EpisodeCount), Inline: true})
	}
	e.Fields = append(e.Fields, Field{Name: "Links", Value: Links(m)})
	return single(ev, e)
}
