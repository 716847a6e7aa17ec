// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package extract

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/mediarelay/internal/models"
)

// Extractor turns raw webhook bodies into NormalizedEvents.
type Extractor struct {
	posters PosterResolver
	now     func() time.Time
	newID   func() string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithNow sets the clock used for ReceivedAt.
func WithNow(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithIDGenerator overrides event ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(e *Extractor) { e.newID = gen }
}

// New creates an Extractor. posters may be nil, in which case no poster
// lookups are made.
func New(posters PosterResolver, opts ...Option) *Extractor {
	e := &Extractor{
		posters: posters,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract decodes raw and builds the event for source. A non-nil Failure
// means the payload is dropped; it is never a reason to fail the request.
func (e *Extractor) Extract(ctx context.Context, source models.Source, raw []byte) (models.NormalizedEvent, *Failure) {
	p, err := Decode(raw)
	if err != nil {
		return models.NormalizedEvent{}, fail(source, ReasonMalformedPayload, "%v", err)
	}
	return e.ExtractPayload(ctx, source, p)
}

// ExtractPayload builds the event for an already decoded payload.
func (e *Extractor) ExtractPayload(ctx context.Context, source models.Source, p Payload) (models.NormalizedEvent, *Failure) {
	var (
		ev models.NormalizedEvent
		f  *Failure
	)
	switch source {
	case models.SourceJellyfin:
		ev, f = extractJellyfin(p)
	case models.SourcePlex:
		ev, f = extractPlex(p)
	case models.SourceSonarr:
		ev, f = extractSonarr(p)
	case models.SourceRadarr:
		ev, f = extractRadarr(p)
	case models.SourceTrakt:
		ev, f = extractTrakt(p)
	default:
		return models.NormalizedEvent{}, fail(source, ReasonUnknownEvent, "no extractor for source %q", source)
	}
	if f != nil {
		return models.NormalizedEvent{}, f
	}

	ev.ID = e.newID()
	ev.Source = source
	ev.ReceivedAt = e.now()
	if ev.Media.Type != models.MediaUnknown {
		ev.Media.PosterURL = resolvePoster(ctx, e.posters, ev.Media)
	}
	return ev, nil
}

// Kinds lists the kinds the extractor for source can emit, in declaration
// order.
func Kinds(source models.Source) []models.Kind {
	var table map[string]models.Kind
	switch source {
	case models.SourceJellyfin:
		table = jellyfinKinds
	case models.SourcePlex:
		table = plexKinds
	case models.SourceSonarr, models.SourceRadarr:
		table = arrKinds
	case models.SourceTrakt:
		return []models.Kind{models.KindRated, models.KindFavorited}
	}
	var out []models.Kind
	for _, k := range table {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
