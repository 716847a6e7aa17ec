// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package pipeline

import (
	"context"
	"time"

	"github.com/tomtom215/mediarelay/internal/correlation"
	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/metrics"
)

// Sweeper purges expired correlation entries on an interval.
type Sweeper struct {
	cache    *correlation.Cache
	interval time.Duration
}

// NewSweeper creates a Sweeper.
func NewSweeper(cache *correlation.Cache, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{cache: cache, interval: interval}
}

// Serve sweeps until ctx is done. It implements suture.Service.
func (s *Sweeper) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs one sweep and updates the cache gauges.
func (s *Sweeper) Sweep() correlation.SweepResult {
	res := s.cache.SweepNow()
	metrics.RecordSweep(res.Items, res.Titles)
	metrics.UpdateCorrelationGauges(s.cache.Len())
	if res.Items > 0 || res.Titles > 0 {
		logging.Debug().Int("pending", res.Items).Int("titles", res.Titles).Msg("Swept correlation cache")
	}
	return res
}

// String implements fmt.Stringer for supervisor logs.
func (s *Sweeper) String() string {
	return "correlation-sweeper"
}
