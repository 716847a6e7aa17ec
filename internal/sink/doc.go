// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package sink delivers rendered messages.

Discord posts to one webhook URL per destination name. Status handling:

  - 2xx is success.
  - 429 reads Retry-After (seconds) and retries once if the wait is short.
  - Other statuses return a *SendError carrying a machine-readable code.

An unknown destination returns ErrDestinationNotFound without any network
call.
*/
package sink
