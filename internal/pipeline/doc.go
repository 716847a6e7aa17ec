// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package pipeline wires one inbound payload through the relay:

	extract -> correlation cache -> dispatch -> render -> bus

Extraction failures, held events and suppressed duplicates are handled
outcomes. Handle returns an error only when the message could not be handed
to the bus. The Sweeper service purges expired cache entries.
*/
package pipeline
