// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package extract

import (
	"slices"

	"github.com/tomtom215/mediarelay/internal/models"
)

// MetadataDownloadMarker in AdditionalData marks an ItemUpdated that carries
// freshly downloaded metadata.
const MetadataDownloadMarker = "MetadataDownload"

var jellyfinKinds = map[string]models.Kind{
	"Play":          models.KindPlaying,
	"PlaybackStart": models.KindPlaying,
	"Resume":        models.KindResumed,
	"Pause":         models.KindPaused,
	"Stop":          models.KindFinished,
	"PlaybackStop":  models.KindFinished,
	"ItemAdded":     models.KindContentAdded,
	"ItemUpdated":   models.KindContentUpdated,
}

// extractJellyfin reads the nested Event/Item/Series/User/Session payload.
func extractJellyfin(p Payload) (models.NormalizedEvent, *Failure) {
	item := p.Object("Item")
	series := p.Object("Series")

	mediaType, f := classifyMedia(models.SourceJellyfin, item.String("Type"))
	if f != nil {
		return models.NormalizedEvent{}, f
	}

	event := p.String("Event")
	kind, ok := jellyfinKinds[event]
	if !ok {
		return models.NormalizedEvent{}, fail(models.SourceJellyfin, ReasonUnknownEvent, "event %q", event)
	}

	media := models.Media{
		Type:           mediaType,
		Title:          item.String("Name"),
		SeriesTitle:    series.String("Name"),
		Year:           item.Int("ProductionYear"),
		Overview:       item.String("Overview"),
		Genres:         item.Strings("Genres"),
		IDs:            providerIDs(item.Object("ProviderIds")),
		SeriesIDs:      providerIDs(series.Object("ProviderIds")),
		Links:          namedLinks(item.Objects("ExternalUrls")),
		Trailers:       namedLinks(item.Objects("RemoteTrailers")),
		PremiereDate:   item.Time("PremiereDate"),
		RuntimeSeconds: RuntimeSeconds(item.Float("RunTimeTicks")),
	}
	if !models.IsKnown(media.SeriesTitle) {
		media.SeriesTitle = item.String("SeriesName")
	}
	switch mediaType {
	case models.MediaEpisode:
		media.Season = item.Int("ParentIndexNumber")
		media.Episode = item.Int("IndexNumber")
	case models.MediaSeason:
		media.Season = item.Int("IndexNumber")
	case models.MediaShow:
		media.SeriesIDs = media.IDs
	}

	key := item.ID("Id")
	if key == "" {
		key = firstID(media.IDs)
	}
	if key == "" {
		return models.NormalizedEvent{}, fail(models.SourceJellyfin, ReasonMissingKey, "item has no Id or provider ids")
	}

	ev := models.NormalizedEvent{
		Kind:    kind,
		ItemKey: key,
		Event:   event,
		Media:   media,
	}
	if kind == models.KindContentUpdated {
		ev.MetadataReady = slices.Contains(p.CommaList("AdditionalData"), MetadataDownloadMarker)
	}
	if kind.IsPlayback() {
		ev.Actor = jellyfinActor(p.Object("User"), p.Object("Session"))
	}
	return ev, nil
}

func jellyfinActor(user, session Payload) *models.Actor {
	method := session.Object("PlayState").String("PlayMethod")
	if method == "DirectStream" {
		method = "Direct Play"
	}
	return &models.Actor{
		Username:   user.String("Name"),
		Client:     session.String("Client"),
		Device:     session.String("DeviceName"),
		PlayMethod: method,
	}
}

// namedLinks reads a list of {Name, Url} objects, dropping entries without a URL.
func namedLinks(items []Payload) []models.Link {
	out := make([]models.Link, 0, len(items))
	for _, it := range items {
		url := it.String("Url")
		if !models.IsKnown(url) {
			continue
		}
		out = append(out, models.Link{Name: it.String("Name"), URL: url})
	}
	return out
}
