// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

// Package trakt polls a Trakt user's ratings (hourly) and favorites (daily)
// and hands new items to the relay pipeline as trakt events.
package trakt
