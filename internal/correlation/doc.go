// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package correlation decides whether a normalized event is rendered now,
held for a later event, merged with a held event, or dropped.

Two structures share one mutex:

  - pending: item key -> held primary event. Jellyfin announces ItemAdded
    before metadata has been fetched; the matching ItemUpdated carrying
    MetadataDownload within ItemTTL (default 300s) completes it and the
    merged event is emitted. A primary that waits longer is dropped.
  - titles: a bounded LRU of recently emitted titles. A content event whose
    title was emitted within TitleTTL (default 24h) is dropped even when the
    item key differs.

Roles per event come from RoleOf:

	bypass     playback, grab, app update, test,  always emitted
	           trakt rating and favorite
	single     content from single-phase sources  title guard only
	primary    jellyfin ItemAdded                 held
	secondary  jellyfin ItemUpdated + marker      merged, then title guard
	ignored    jellyfin ItemUpdated, no marker    dropped

The guard is consulted when an event is about to be emitted, so a held
primary never blocks its own secondary.

Expiry is checked on every lookup; Sweep additionally removes expired
entries on a schedule. Time comes from an injected Clock.
*/
package correlation
