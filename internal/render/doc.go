// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package render turns admitted events into Discord webhook messages.

Each renderer is a Func producing one embed. Shared rules:

  - Titles follow models.Media.Label, except the arr and Trakt layouts,
    which have their own title forms (ArrTitle, TraktTitle).
  - Episode and show plots are wrapped in ||spoiler|| tags.
  - Links are listed IMDb, TMDb, Trakt, with a YouTube trailer for movies.
  - Empty fields and footers are dropped; a poster becomes the thumbnail.

The dispatch package chooses which renderer handles a source and kind.
*/
package render
