// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package extract converts raw webhook payloads into models.NormalizedEvent.

A body is decoded once into an untyped tree and then read only through
Payload accessors. Accessors never fail: absent or wrong-typed fields become
UnknownString, ZeroNumber or an empty list.

Each source follows the same steps:

 1. Classify the media type. Person, Folder and types outside
    {Movie, Episode, Season, Show} fail with ReasonUnsupportedType.
 2. Map the upstream event name to a models.Kind. Unmapped names fail with
    ReasonUnknownEvent.
 3. Read media fields. Tick durations are divided by TicksPerSecond.
 4. Derive the item key. When nothing identifies the item the extraction
    fails with ReasonMissingKey.
 5. Resolve a poster: series-like media through the show TVDB id, movies
    through the TMDb id. A failed lookup leaves the poster empty.

Supported payloads:

  - jellyfin: webhook plugin template with Event, Item, Series, User, Session
    and AdditionalData
  - plex: Tautulli notification agent with source_metadata_details,
    stream_details and server_info sections
  - sonarr, radarr: native webhook connections (Grab, Download,
    ApplicationUpdate, Test)
  - trakt: one ratings or favorites list item

The extractor only tags events. Whether an event is held, merged or
suppressed is decided by package correlation.
*/
package extract
