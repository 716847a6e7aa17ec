// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package bus

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/mediarelay/internal/breaker"
)

// queueGroup spreads messages across relay instances sharing a server, so
// each message is delivered to Discord once.
const queueGroup = "mediarelay"

func natsOptions(logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name("mediarelay"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.ReconnectBufSize(8 * 1024 * 1024),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
		natsgo.ErrorHandler(func(_ *natsgo.Conn, sub *natsgo.Subscription, err error) {
			fields := watermill.LogFields{}
			if sub != nil {
				fields["subject"] = sub.Subject
			}
			logger.Error("NATS error", err, fields)
		}),
	}
}

// natsPublisher guards core NATS publishing with a circuit breaker.
type natsPublisher struct {
	publisher message.Publisher
	breaker   *breaker.Breaker[struct{}]
}

func (p *natsPublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
			msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
		}
	}
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.publisher.Publish(topic, msgs...)
	})
	return err
}

func (p *natsPublisher) Close() error {
	return p.publisher.Close()
}

// newNATSPubSub connects a publisher and a queue-group subscriber over core
// NATS. JetStream is not used: nothing on the bus is meant to outlive the
// process.
func newNATSPubSub(url string, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	if url == "" {
		return nil, nil, fmt.Errorf("nats transport requires a URL")
	}
	opts := natsOptions(logger)

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: opts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: queueGroup,
		SubscribersCount: 1,
		CloseTimeout:     10 * time.Second,
		AckWaitTimeout:   30 * time.Second,
		NatsOptions:      opts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &natsPublisher{
		publisher: pub,
		breaker:   breaker.New[struct{}]("nats-publish", breaker.DefaultSettings()),
	}, sub, nil
}
