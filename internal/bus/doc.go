// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package bus carries rendered messages from the pipeline to the sink.

Three transports are available:

  - direct: the sink is called inline on the webhook goroutine.
  - memory: envelopes go through a watermill GoChannel and a router handler.
  - nats: envelopes go over core NATS (watermill-nats, JetStream disabled)
    with a queue group, so several relay instances share the work.

Envelopes are JSON:

	{"event_id":"...","source":"sonarr","kind":"download","destination":"sonarr","message":{...}}

A failed delivery is logged and acked. Nothing on the bus is persisted.
*/
package bus
