// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package render

import (
	"time"

	"github.com/tomtom215/mediarelay/internal/models"
)

// Message is a Discord webhook payload.
type Message struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Content   string  `json:"content,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
}

// Embed is a Discord rich embed.
type Embed struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	Color       int        `json:"color,omitempty"`
	Timestamp   string     `json:"timestamp,omitempty"`
	Footer      *Footer    `json:"footer,omitempty"`
	Author      *Author    `json:"author,omitempty"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
	Fields      []Field    `json:"fields,omitempty"`
}

// Footer is an embed footer.
type Footer struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

// Author is an embed author line.
type Author struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

// Thumbnail is an embed thumbnail image.
type Thumbnail struct {
	URL string `json:"url"`
}

// Field is an embed field.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Func renders an admitted event.
type Func func(ev models.NormalizedEvent) Message

// Embed colors.
const (
	ColorPlaying    = 0x6c76cc
	ColorResumed    = 0xc034eb
	ColorPaused     = 0x6e0918
	ColorFinished   = 0x4f545c
	ColorJellyfin   = 0x1e90ff
	ColorPlex       = 0xe5a00d
	ColorGrab       = 0x9e7a18
	ColorDownload   = 0x27c24c
	ColorAppUpdate  = 0x5865f2
	ColorTest       = 0xadd9c9
	ColorTrakt      = 0xff0000
	ColorFallback   = 0x99aab5
	maxDescription  = 4096
	maxFieldValue   = 1024
	maxEmbedTitle   = 256
	maxFooterLength = 2048
)

// single wraps one embed into a Message, filling the shared parts.
func single(ev models.NormalizedEvent, e Embed) Message {
	e.Title = truncate(e.Title, maxEmbedTitle)
	e.Description = truncate(e.Description, maxDescription)
	if e.Timestamp == "" && !ev.ReceivedAt.IsZero() {
		e.Timestamp = ev.ReceivedAt.UTC().Format(time.RFC3339)
	}
	if e.Thumbnail == nil && ev.Media.PosterURL != "" {
		e.Thumbnail = &Thumbnail{URL: ev.Media.PosterURL}
	}
	if e.Footer != nil {
		if e.Footer.Text == "" {
			e.Footer = nil
		} else {
			e.Footer.Text = truncate(e.Footer.Text, maxFooterLength)
		}
	}
	fields := e.Fields[:0]
	for _, f := range e.Fields {
		if f.Value == "" {
			continue
		}
		f.Value = truncate(f.Value, maxFieldValue)
		fields = append(fields, f)
	}
	e.Fields = fields
	if len(e.Fields) == 0 {
		e.Fields = nil
	}
	return Message{Embeds: []Embed{e}}
}

// Minimal is the fallback for event pairs without a dedicated layout.
func Minimal(ev models.NormalizedEvent) Message {
	title := ev.Media.Label()
	if !models.IsKnown(ev.Media.Title) && !models.IsKnown(ev.Media.SeriesTitle) {
		title = ev.Source.DisplayName()
	}
	return single(ev, Embed{
		Title:       title,
		Description: "A " + ev.Kind.String() + " event was received from " + ev.Source.DisplayName() + ".",
		Color:       ColorFallback,
	})
}
