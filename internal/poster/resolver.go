// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package poster

import (
	"context"
	"errors"
	"sync"

	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/metrics"
)

// Fetcher resolves poster URLs from the metadata API.
type Fetcher interface {
	MoviePosterURL(ctx context.Context, tmdbID string) (string, error)
	ShowPosterURL(ctx context.Context, tvdbID string) (string, error)
}

// Lookup kinds, used in cache keys and metric labels.
const (
	KindMovie = "movie"
	KindTV    = "tv"
)

// CacheKey returns the cache key for a lookup, e.g. "tv_81189".
func CacheKey(kind, id string) string {
	return kind + "_" + id
}

// CachingResolver memoizes poster URLs for the process lifetime, with an
// optional persistent Store behind the memory map. Entries are never
// evicted; a concurrent duplicate lookup simply writes the same value twice.
type CachingResolver struct {
	fetcher Fetcher
	store   Store

	mu     sync.RWMutex
	memory map[string]string
}

// NewCachingResolver creates a resolver. store may be nil.
func NewCachingResolver(fetcher Fetcher, store Store) *CachingResolver {
	return &CachingResolver{
		fetcher: fetcher,
		store:   store,
		memory:  make(map[string]string),
	}
}

// MoviePoster resolves a movie poster by TMDb id.
func (r *CachingResolver) MoviePoster(ctx context.Context, tmdbID string) (string, bool) {
	return r.resolve(ctx, KindMovie, tmdbID, r.fetcher.MoviePosterURL)
}

// ShowPoster resolves a show poster by TVDB id.
func (r *CachingResolver) ShowPoster(ctx context.Context, tvdbID string) (string, bool) {
	return r.resolve(ctx, KindTV, tvdbID, r.fetcher.ShowPosterURL)
}

func (r *CachingResolver) resolve(ctx context.Context, kind, id string, fetch func(context.Context, string) (string, error)) (string, bool) {
	if id == "" {
		return "", false
	}
	key := CacheKey(kind, id)

	r.mu.RLock()
	url, ok := r.memory[key]
	r.mu.RUnlock()
	if ok {
		metrics.RecordPosterLookup(kind, "hit")
		return url, true
	}

	if r.store != nil {
		url, ok, err := r.store.Get(key)
		if err != nil {
			logging.Warn().Err(err).Str("key", key).Msg("Poster store read failed")
		} else if ok {
			r.remember(key, url)
			metrics.RecordPosterLookup(kind, "hit")
			return url, true
		}
	}

	url, err := fetch(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoPoster) {
			metrics.RecordPosterLookup(kind, "miss")
			logging.Debug().Str("key", key).Msg("No poster available")
		} else {
			metrics.RecordPosterLookup(kind, "error")
			logging.Warn().Err(err).Str("key", key).Msg("Poster lookup failed")
		}
		return "", false
	}

	metrics.RecordPosterLookup(kind, "miss")
	r.remember(key, url)
	if r.store != nil {
		if err := r.store.Put(key, url); err != nil {
			logging.Warn().Err(err).Str("key", key).Msg("Poster store write failed")
		}
	}
	return url, true
}

func (r *CachingResolver) remember(key, url string) {
	r.mu.Lock()
	r.memory[key] = url
	r.mu.Unlock()
}

// Len returns the number of cached URLs held in memory.
func (r *CachingResolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.memory)
}
