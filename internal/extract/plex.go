// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package extract

import (
	"strings"

	"github.com/tomtom215/mediarelay/internal/models"
)

var plexKinds = map[string]models.Kind{
	"nowplaying":         models.KindPlaying,
	"nowresuming":        models.KindResumed,
	"nowpaused":          models.KindPaused,
	"finished":           models.KindFinished,
	"newcontent_episode": models.KindContentAdded,
	"newcontent_season":  models.KindContentAdded,
	"newcontent_movie":   models.KindContentAdded,
	"newcontent_show":    models.KindContentAdded,
}

// plexSections are the Tautulli notification sections, searched in order.
var plexSections = []string{"source_metadata_details", "stream_details", "server_info"}

// plexFields flattens the Tautulli sections; the first section holding a key wins.
type plexFields struct {
	sections []Payload
}

func newPlexFields(p Payload) plexFields {
	pf := plexFields{sections: make([]Payload, 0, len(plexSections)+1)}
	for _, name := range plexSections {
		pf.sections = append(pf.sections, p.Object(name))
	}
	pf.sections = append(pf.sections, p)
	return pf
}

func (pf plexFields) lookup(key string) Payload {
	for _, s := range pf.sections {
		if s.Has(key) {
			return s
		}
	}
	return Payload{}
}

func (pf plexFields) String(key string) string { return pf.lookup(key).String(key) }
func (pf plexFields) Int(key string) int       { return pf.lookup(key).Int(key) }
func (pf plexFields) ID(key string) string     { return pf.lookup(key).ID(key) }

// extractPlex reads a Tautulli notification agent payload.
func extractPlex(p Payload) (models.NormalizedEvent, *Failure) {
	pf := newPlexFields(p)

	mediaType, f := classifyMedia(models.SourcePlex, pf.String("media_type"))
	if f != nil {
		return models.NormalizedEvent{}, f
	}

	event := strings.ToLower(pf.String("webhook_type"))
	kind, ok := plexKinds[event]
	if !ok {
		return models.NormalizedEvent{}, fail(models.SourcePlex, ReasonUnknownEvent, "webhook_type %q", event)
	}

	media := models.Media{
		Type:         mediaType,
		Title:        pf.String("title"),
		SeriesTitle:  pf.String("show_name"),
		Season:       pf.Int("season_num00"),
		Episode:      pf.Int("episode_num00"),
		Year:         pf.Int("year"),
		Overview:     pf.String("summary"),
		Genres:       pf.lookup("genres").CommaList("genres"),
		EpisodeCount: pf.Int("episode_count"),
		URL:          knownOrEmpty(pf.String("plex_url")),
		IDs: models.ProviderIDs{
			IMDb: pf.ID("imdb_id"),
			TMDb: pf.ID("themoviedb_id"),
			TVDB: pf.ID("thetvdb_id"),
		},
	}
	if mediaType != models.MediaMovie {
		media.SeriesIDs = models.ProviderIDs{TVDB: pf.ID("thetvdb_id")}
	}
	if poster := pf.String("poster_url"); models.IsKnown(poster) {
		media.PosterURL = poster
	}
	for _, l := range []struct{ name, key string }{
		{"IMDb", "imdb_url"},
		{"TMDb", "themoviedb_url"},
		{"Trakt", "trakt_url"},
	} {
		if url := pf.String(l.key); models.IsKnown(url) {
			media.Links = append(media.Links, models.Link{Name: l.name, URL: url})
		}
	}

	key := pf.ID("rating_key")
	if key == "" {
		key = knownOrEmpty(pf.String("plex_url"))
	}
	if key == "" && models.IsKnown(media.Title) {
		key = strings.ToLower(media.Label())
	}
	if key == "" {
		return models.NormalizedEvent{}, fail(models.SourcePlex, ReasonMissingKey, "no rating_key, plex_url or title")
	}

	ev := models.NormalizedEvent{
		Kind:    kind,
		ItemKey: key,
		Event:   event,
		Media:   media,
	}
	if kind.IsPlayback() {
		ev.Actor = &models.Actor{
			Username:   pf.String("username"),
			Client:     pf.String("product"),
			Device:     pf.String("player"),
			PlayMethod: pf.String("video_decision"),
		}
	}
	return ev, nil
}

func knownOrEmpty(s string) string {
	if models.IsKnown(s) {
		return s
	}
	return ""
}
