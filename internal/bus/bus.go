// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/metrics"
	"github.com/tomtom215/mediarelay/internal/render"
	"github.com/tomtom215/mediarelay/internal/sink"
)

// Transport names.
const (
	TransportDirect = "direct"
	TransportMemory = "memory"
	TransportNATS   = "nats"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("bus closed")

// Envelope is the unit carried on the bus.
type Envelope struct {
	EventID     string         `json:"event_id"`
	Source      string         `json:"source"`
	Kind        string         `json:"kind"`
	Destination string         `json:"destination"`
	Message     render.Message `json:"message"`
}

// Title returns the first embed title, or the message content.
func (e Envelope) Title() string {
	if len(e.Message.Embeds) > 0 && e.Message.Embeds[0].Title != "" {
		return e.Message.Embeds[0].Title
	}
	return e.Message.Content
}

// Observer is told about every delivery attempt, after the sink returns.
type Observer func(ctx context.Context, env Envelope, err error)

// Config configures a Bus.
type Config struct {
	Transport    string
	Topic        string
	NATSURL      string
	CloseTimeout time.Duration

	// Observer is optional.
	Observer Observer
}

// Bus carries rendered messages to the sink. The direct transport calls the
// sink inline; memory and nats publish envelopes that a watermill router
// hands to the sink.
type Bus struct {
	cfg        Config
	sink       sink.Sink
	logger     watermill.LoggerAdapter
	publisher  message.Publisher
	subscriber message.Subscriber
	router     *message.Router

	mu      sync.RWMutex
	closed  bool
	started bool
}

// New creates a Bus delivering to s.
func New(cfg Config, s sink.Sink) (*Bus, error) {
	if cfg.Transport == "" {
		cfg.Transport = TransportDirect
	}
	if cfg.Topic == "" {
		cfg.Topic = "relay.outbound"
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = 10 * time.Second
	}

	b := &Bus{
		cfg:    cfg,
		sink:   s,
		logger: logging.NewWatermillAdapter(),
	}

	switch cfg.Transport {
	case TransportDirect:
		return b, nil
	case TransportMemory:
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, b.logger)
		b.publisher = pubSub
		b.subscriber = pubSub
	case TransportNATS:
		pub, sub, err := newNATSPubSub(cfg.NATSURL, b.logger)
		if err != nil {
			return nil, err
		}
		b.publisher = pub
		b.subscriber = sub
	default:
		return nil, fmt.Errorf("unknown bus transport %q", cfg.Transport)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, b.logger)
	if err != nil {
		_ = b.publisher.Close()
		return nil, fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddConsumerHandler("relay-sink", cfg.Topic, b.subscriber, b.handle)
	b.router = router

	return b, nil
}

// Transport returns the configured transport name.
func (b *Bus) Transport() string {
	return b.cfg.Transport
}

// Publish hands env to the sink. With the direct transport the sink error is
// returned; otherwise the error only reflects publishing.
func (b *Bus) Publish(ctx context.Context, env Envelope) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	if b.publisher == nil {
		metrics.BusMessagesPublished.WithLabelValues(b.cfg.Transport).Inc()
		return b.deliver(ctx, env)
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	id := env.EventID
	if id == "" {
		id = uuid.NewString()
	}
	msg := message.NewMessage(id, payload)
	msg.Metadata.Set("destination", env.Destination)
	msg.Metadata.Set("source", env.Source)
	if cid := logging.CorrelationIDFromContext(ctx); cid != "" {
		msg.Metadata.Set("correlation_id", cid)
	}

	if err := b.publisher.Publish(b.cfg.Topic, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", b.cfg.Topic, err)
	}
	metrics.BusMessagesPublished.WithLabelValues(b.cfg.Transport).Inc()
	return nil
}

// handle consumes one bus message. Delivery failures are logged and the
// message is acked: the sink already did its own retrying.
func (b *Bus) handle(msg *message.Message) error {
	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		metrics.BusMessagesConsumed.WithLabelValues(b.cfg.Transport, "malformed").Inc()
		logging.Error().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed bus envelope")
		return nil
	}

	ctx := msg.Context()
	if cid := msg.Metadata.Get("correlation_id"); cid != "" {
		ctx = logging.ContextWithCorrelationID(ctx, cid)
	}
	if err := b.deliver(ctx, env); err != nil {
		metrics.BusMessagesConsumed.WithLabelValues(b.cfg.Transport, "failed").Inc()
		return nil
	}
	metrics.BusMessagesConsumed.WithLabelValues(b.cfg.Transport, "delivered").Inc()
	return nil
}

func (b *Bus) deliver(ctx context.Context, env Envelope) error {
	err := b.sink.Send(ctx, env.Destination, env.Message)
	if err != nil {
		event := logging.Ctx(ctx).Error()
		if errors.Is(err, sink.ErrDestinationNotFound) {
			event = logging.Ctx(ctx).Warn()
		}
		event.Err(err).
			Str("event_id", env.EventID).
			Str("destination", env.Destination).
			Str("title", env.Title()).
			Msg("Message delivery failed")
	} else {
		logging.Ctx(ctx).Info().
			Str("event_id", env.EventID).
			Str("destination", env.Destination).
			Str("title", env.Title()).
			Msg("Message delivered")
	}
	if b.cfg.Observer != nil {
		b.cfg.Observer(ctx, env, err)
	}
	return err
}

// Serve runs the router until ctx is done. It implements suture.Service.
func (b *Bus) Serve(ctx context.Context) error {
	if b.router == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.started = true
	b.mu.Unlock()

	err := b.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Running returns a channel closed once the router consumes messages. For
// the direct transport it is closed immediately.
func (b *Bus) Running() <-chan struct{} {
	if b.router == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return b.router.Running()
}

// String implements fmt.Stringer for supervisor logs.
func (b *Bus) String() string {
	return "bus-" + b.cfg.Transport
}

// Close stops publishing and releases the transport. A router that never ran
// is not closed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if b.router != nil && b.started {
		if err := b.router.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.publisher != nil {
		if err := b.publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.subscriber != nil && b.cfg.Transport == TransportNATS {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
