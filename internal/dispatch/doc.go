// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

// Package dispatch maps each (source, kind) pair to a destination, a
// visual style and a render function.
package dispatch
