// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/mediarelay/internal/models"
)

// Separator joins footer and link parts.
const Separator = " • "

const gib = 1 << 30

// Size renders a byte count as MB below 1 GiB, GB otherwise.
func Size(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	if bytes < gib {
		return fmt.Sprintf("%.2fMB", float64(bytes)/(1<<20))
	}
	return fmt.Sprintf("%.2fGB", float64(bytes)/gib)
}

// Join joins the known, non-empty parts with Separator.
func Join(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || !models.IsKnown(p) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, Separator)
}

// Spoiler hides text behind a Discord spoiler tag.
func Spoiler(text string) string {
	if text == "" {
		return ""
	}
	return "||" + text + "||"
}

// Plot returns the overview, spoiler-wrapped for episodes and shows.
func Plot(m models.Media) string {
	if !models.IsKnown(m.Overview) {
		return ""
	}
	if m.Type.IsSeriesLike() {
		return Spoiler(m.Overview)
	}
	return m.Overview
}

// CodeBlock wraps text in a fenced code block.
func CodeBlock(text string) string {
	if !models.IsKnown(text) {
		return ""
	}
	return "```" + text + "```"
}

var linkOrder = []string{"IMDb", "TMDb", "Trakt"}

// linkName maps provider link names such as "TheMovieDb" onto the display
// names in linkOrder.
func linkName(name string) string {
	switch strings.ToLower(strings.ReplaceAll(name, " ", "")) {
	case "imdb":
		return "IMDb"
	case "tmdb", "themoviedb", "themoviedb.org":
		return "TMDb"
	case "trakt":
		return "Trakt"
	default:
		return ""
	}
}

// LinkURL returns the URL of the named provider link, derived from the
// provider ids when the payload carried no such link.
func LinkURL(m models.Media, name string) string {
	for _, l := range m.Links {
		if linkName(l.Name) == name {
			return l.URL
		}
	}
	ids := m.IDs
	if m.Type.IsSeriesLike() && m.Type != models.MediaShow && ids.IMDb == "" && ids.TMDb == "" {
		ids = m.SeriesIDs
	}
	switch name {
	case "IMDb":
		if ids.IMDb != "" {
			return "https://www.imdb.com/title/" + ids.IMDb
		}
	case "TMDb":
		if ids.TMDb != "" {
			section := "tv"
			if m.Type == models.MediaMovie {
				section = "movie"
			}
			return fmt.Sprintf("https://www.themoviedb.org/%s/%s", section, ids.TMDb)
		}
	}
	return ""
}

// Links renders the IMDb, TMDb and Trakt links in that order, followed by a
// YouTube trailer for movies.
func Links(m models.Media) string {
	parts := make([]string, 0, len(linkOrder)+1)
	for _, name := range linkOrder {
		if url := LinkURL(m, name); url != "" {
			parts = append(parts, fmt.Sprintf("[%s](%s)", name, url))
		}
	}
	if m.Type == models.MediaMovie {
		if t, ok := Trailer(m.Trailers); ok {
			parts = append(parts, fmt.Sprintf("[YouTube](%s)", t.URL))
		}
	}
	return strings.Join(parts, Separator)
}

// Trailer picks "Official Trailer", then any name containing "Trailer",
// then the first entry.
func Trailer(trailers []models.Link) (models.Link, bool) {
	if len(trailers) == 0 {
		return models.Link{}, false
	}
	for _, t := range trailers {
		if t.Name == "Official Trailer" {
			return t, true
		}
	}
	for _, t := range trailers {
		if strings.Contains(t.Name, "Trailer") {
			return t, true
		}
	}
	return trailers[0], true
}

// ContentFooter joins genres and runtime for movies, or the air date for
// episodes.
func ContentFooter(m models.Media) string {
	var parts []string
	switch m.Type {
	case models.MediaMovie:
		parts = append(parts, strings.Join(m.Genres, ", "))
		if mins := m.RuntimeMinutes(); mins > 0 {
			parts = append(parts, fmt.Sprintf("%d min", mins))
		}
	case models.MediaEpisode:
		if !m.PremiereDate.IsZero() {
			parts = append(parts, "Aired on "+m.PremiereDate.Format("02/01/2006"))
		}
	default:
		parts = append(parts, strings.Join(m.Genres, ", "))
	}
	return Join(parts...)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-3]) + "..."
}

func known(s string) string {
	if models.IsKnown(s) {
		return s
	}
	return ""
}
