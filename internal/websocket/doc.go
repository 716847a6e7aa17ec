// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package websocket serves the live relay feed.

Every delivery attempt is broadcast to connected clients as

	{"type":"relay","data":{"source":"sonarr","kind":"download","title":"...","destination":"sonarr","delivered":true}}

The Hub owns the client set and runs as a supervised service. Each Client
has two goroutines:

  - readPump: reads pings and close frames
  - writePump: writes hub messages and keepalive pings

A client that falls behind is disconnected rather than slowing the hub.
*/
package websocket
