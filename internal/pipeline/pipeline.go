// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/mediarelay/internal/bus"
	"github.com/tomtom215/mediarelay/internal/correlation"
	"github.com/tomtom215/mediarelay/internal/dispatch"
	"github.com/tomtom215/mediarelay/internal/extract"
	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/metrics"
	"github.com/tomtom215/mediarelay/internal/models"
	"github.com/tomtom215/mediarelay/internal/sink"
)

// Outcome is what happened to one inbound payload.
type Outcome string

const (
	OutcomeEmitted          Outcome = "emitted"
	OutcomeHeld             Outcome = "held"
	OutcomeDuplicate        Outcome = "dropped_duplicate"
	OutcomeIgnored          Outcome = "dropped_ignored"
	OutcomeExtractionFailed Outcome = "extraction_failed"
	OutcomeNoDestination    Outcome = "no_destination"
	OutcomeDeliveryFailed   Outcome = "delivery_failed"
	OutcomeError            Outcome = "error"
)

// Publisher hands an envelope to the delivery side.
type Publisher interface {
	Publish(ctx context.Context, env bus.Envelope) error
}

// Pipeline runs extract, correlate, dispatch and render for each payload and
// publishes the result.
type Pipeline struct {
	extractor *extract.Extractor
	cache     *correlation.Cache
	publisher Publisher
	// hasDestination reports whether a destination is configured. Nil means
	// every destination is.
	hasDestination func(string) bool
}

// New creates a Pipeline. hasDestination may be nil.
func New(extractor *extract.Extractor, cache *correlation.Cache, publisher Publisher, hasDestination func(string) bool) *Pipeline {
	return &Pipeline{
		extractor:      extractor,
		cache:          cache,
		publisher:      publisher,
		hasDestination: hasDestination,
	}
}

// Cache returns the correlation cache.
func (p *Pipeline) Cache() *correlation.Cache {
	return p.cache
}

// Handle processes one raw webhook body. Only a publishing failure is
// returned as an error; every other outcome is a handled request.
func (p *Pipeline) Handle(ctx context.Context, source models.Source, raw []byte) (Outcome, error) {
	ev, f := p.extractor.Extract(ctx, source, raw)
	return p.finish(ctx, source, ev, f)
}

// HandlePayload processes an already decoded payload, as the activity feed
// poller produces.
func (p *Pipeline) HandlePayload(ctx context.Context, source models.Source, payload extract.Payload) (Outcome, error) {
	ev, f := p.extractor.ExtractPayload(ctx, source, payload)
	return p.finish(ctx, source, ev, f)
}

func (p *Pipeline) finish(ctx context.Context, source models.Source, ev models.NormalizedEvent, f *extract.Failure) (Outcome, error) {
	var (
		outcome Outcome
		err     error
	)
	if f != nil {
		metrics.RecordExtractionFailure(source.String(), f.Reason.String())
		logging.Ctx(ctx).Info().
			Str("source", source.String()).
			Str("reason", f.Reason.String()).
			Str("detail", f.Detail).
			Msg("Payload dropped during extraction")
		outcome = OutcomeExtractionFailed
	} else {
		outcome, err = p.admit(ctx, ev)
	}
	metrics.RecordWebhook(source.String(), string(outcome))
	return outcome, err
}

func (p *Pipeline) admit(ctx context.Context, ev models.NormalizedEvent) (Outcome, error) {
	ctx = logging.ContextWithCorrelationID(ctx, ev.ID)
	log := logging.Ctx(ctx)

	d := p.cache.Admit(ev)
	metrics.RecordDecision(ev.Source.String(), d.Action.String(), d.FailOpen)
	metrics.UpdateCorrelationGauges(p.cache.Len())

	switch d.Action {
	case correlation.Hold:
		log.Info().
			Str("source", ev.Source.String()).
			Str("item_key", ev.ItemKey).
			Str("title", ev.Media.Label()).
			Msg("Holding event until metadata arrives")
		return OutcomeHeld, nil
	case correlation.DropDuplicate:
		log.Debug().Str("item_key", ev.ItemKey).Str("reason", d.Reason).Msg("Duplicate event dropped")
		return OutcomeDuplicate, nil
	case correlation.DropIgnored:
		log.Debug().Str("item_key", ev.ItemKey).Str("reason", d.Reason).Msg("Event ignored")
		return OutcomeIgnored, nil
	}

	return p.Emit(ctx, d.Event)
}

// Emit dispatches and renders ev and publishes the message.
func (p *Pipeline) Emit(ctx context.Context, ev models.NormalizedEvent) (Outcome, error) {
	log := logging.Ctx(ctx)

	route := dispatch.Resolve(ev.Source, ev.Kind)
	if route.IsDefault() && p.hasDestination != nil && !p.hasDestination(route.Destination) {
		log.Warn().
			Str("source", ev.Source.String()).
			Str("kind", ev.Kind.String()).
			Msg("No default destination configured, dropping unhandled event")
		return OutcomeNoDestination, nil
	}

	msg := route.Render(ev)
	metrics.MessagesRendered.WithLabelValues(route.Destination, string(route.Style)).Inc()

	env := bus.Envelope{
		EventID:     ev.ID,
		Source:      ev.Source.String(),
		Kind:        ev.Kind.String(),
		Destination: route.Destination,
		Message:     msg,
	}

	err := p.publisher.Publish(ctx, env)
	var sendErr *sink.SendError
	switch {
	case err == nil:
		return OutcomeEmitted, nil
	case errors.Is(err, sink.ErrDestinationNotFound):
		return OutcomeNoDestination, nil
	case errors.As(err, &sendErr):
		return OutcomeDeliveryFailed, nil
	default:
		return OutcomeError, fmt.Errorf("publish %s message: %w", route.Destination, err)
	}
}
