// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package models defines the canonical event record that flows through
Mediarelay.

Every inbound payload, whatever its source, is converted by package extract
into a NormalizedEvent. The rest of the pipeline (correlation, dispatch,
render, sink) only ever sees this type.

Key Components:

  - Source: the upstream tool that produced the event (jellyfin, plex, sonarr, radarr, trakt)
  - Kind: what happened (Playing, ContentAdded, Grab, Rated, ...)
  - MediaType: Movie, Episode, Season or Show
  - Media: title, numbering, overview, genres, provider IDs, links, poster
  - Actor, Release, App, Rating: optional sections filled by specific sources

Sentinels:

String fields read from a payload that were absent or of the wrong type hold
the Unknown sentinel. IsKnown reports whether a string carries real data;
renderers omit sections whose values are not known, and Merge treats unknown
values as absent.

Immutability:

A NormalizedEvent is a value. Merge and the With* helpers return a new event
with slices copied, so a held event can never be modified through a later
event that shares its backing arrays.
*/
package models
