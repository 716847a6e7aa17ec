// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

/*
Package poster resolves poster image URLs from TMDb.

Client performs the two lookups the relay needs:

	GET {base}/find/{tvdb}?api_key=...&external_source=tvdb_id   tv_results[0].poster_path
	GET {base}/movie/{tmdb}?api_key=...                          poster_path

Each call is rate limited with golang.org/x/time/rate, bounded by a
per-call timeout and guarded by a circuit breaker. Failures surface as
errors wrapping ErrResolution.

CachingResolver implements the extractor's poster interface on top of a
Client. It answers ("", false) on any failure, caches successes in memory
under "movie_<id>" and "tv_<id>", and optionally reads and writes through a
BadgerDB Store so posters survive restarts.
*/
package poster
