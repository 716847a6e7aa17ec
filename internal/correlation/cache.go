// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package correlation

import (
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/models"
)

// Default windows.
const (
	DefaultItemTTL   = 300 * time.Second
	DefaultTitleTTL  = 86400 * time.Second
	DefaultMaxTitles = 10000
)

// Action is the outcome of Admit.
type Action int

const (
	// Emit renders Decision.Event now.
	Emit Action = iota
	// Hold stores the event until its secondary arrives.
	Hold
	// DropDuplicate discards a repeated primary or an already announced title.
	DropDuplicate
	// DropIgnored discards an event the policy never renders.
	DropIgnored
)

func (a Action) String() string {
	switch a {
	case Emit:
		return "emit"
	case Hold:
		return "hold"
	case DropDuplicate:
		return "drop_duplicate"
	case DropIgnored:
		return "drop_ignored"
	default:
		return "unknown"
	}
}

// Decision is returned by Admit. Event is set only for Emit and may be a
// merge of a held primary with the incoming secondary.
type Decision struct {
	Action Action
	Event  models.NormalizedEvent
	Reason string
	// FailOpen is set when an internal error forced an Emit.
	FailOpen bool
}

// Config holds the cache windows.
type Config struct {
	ItemTTL   time.Duration
	TitleTTL  time.Duration
	MaxTitles int
}

// SweepResult counts entries removed by Sweep.
type SweepResult struct {
	Items  int
	Titles int
}

type pendingEntry struct {
	event    models.NormalizedEvent
	storedAt time.Time
}

// Cache joins two-phase content events and suppresses duplicate titles.
// One mutex guards both maps and is held only for the check-and-set; no
// network call ever runs under it.
type Cache struct {
	mu      sync.Mutex
	clock   Clock
	itemTTL time.Duration
	pending map[string]pendingEntry
	titles  *titleGuard
}

// New creates a Cache. Zero config values fall back to the defaults.
func New(cfg Config, clock Clock) *Cache {
	if cfg.ItemTTL <= 0 {
		cfg.ItemTTL = DefaultItemTTL
	}
	if cfg.TitleTTL <= 0 {
		cfg.TitleTTL = DefaultTitleTTL
	}
	if cfg.MaxTitles <= 0 {
		cfg.MaxTitles = DefaultMaxTitles
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Cache{
		clock:   clock,
		itemTTL: cfg.ItemTTL,
		pending: make(map[string]pendingEntry),
		titles:  newTitleGuard(cfg.MaxTitles, cfg.TitleTTL),
	}
}

func expired(at time.Time, ttl time.Duration, now time.Time) bool {
	return now.Sub(at) > ttl
}

// Admit decides what happens to ev. It never fails: an internal panic is
// logged as a cache failure and the event is emitted unchanged.
func (c *Cache) Admit(ev models.NormalizedEvent) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().
				Str("source", ev.Source.String()).
				Str("item_key", ev.ItemKey).
				Str("error", fmt.Sprint(r)).
				Msg("CacheFailure: correlation cache panicked, admitting event")
			d = Decision{Action: Emit, Event: ev, Reason: "cache failure", FailOpen: true}
		}
	}()

	role := RoleOf(ev)
	switch role {
	case RoleBypass:
		return Decision{Action: Emit, Event: ev, Reason: "bypass"}
	case RoleIgnored:
		return Decision{Action: DropIgnored, Reason: "update without metadata marker"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	key := ev.CorrelationKey()

	switch role {
	case RolePrimary:
		if held, ok := c.pending[key]; ok {
			if !expired(held.storedAt, c.itemTTL, now) {
				return Decision{Action: DropDuplicate, Reason: "primary already pending"}
			}
			c.logExpired(key, held, now)
		}
		c.pending[key] = pendingEntry{event: ev.Clone(), storedAt: now}
		return Decision{Action: Hold, Reason: "awaiting metadata"}

	case RoleSecondary:
		out := ev
		reason := "secondary without pending primary"
		if held, ok := c.pending[key]; ok {
			delete(c.pending, key)
			if expired(held.storedAt, c.itemTTL, now) {
				c.logExpired(key, held, now)
			} else {
				out = models.Merge(held.event, ev)
				reason = "merged with pending primary"
			}
		}
		return c.guardLocked(out, now, reason)

	default:
		return c.guardLocked(ev, now, "single phase")
	}
}

// guardLocked applies the duplicate title guard at emit time.
func (c *Cache) guardLocked(ev models.NormalizedEvent, now time.Time, reason string) Decision {
	if c.titles.seen(ev.TitleKey(), now) {
		return Decision{Action: DropDuplicate, Reason: "title announced recently"}
	}
	return Decision{Action: Emit, Event: ev, Reason: reason}
}

func (c *Cache) logExpired(key string, held pendingEntry, now time.Time) {
	logging.Info().
		Str("key", key).
		Str("title", held.event.Media.Label()).
		Dur("age", now.Sub(held.storedAt)).
		Msg("Pending event expired without a matching update")
}

// Sweep removes expired pending entries and titles as of now.
func (c *Cache) Sweep(now time.Time) SweepResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res SweepResult
	for key, held := range c.pending {
		if expired(held.storedAt, c.itemTTL, now) {
			c.logExpired(key, held, now)
			delete(c.pending, key)
			res.Items++
		}
	}
	res.Titles = c.titles.sweep(now)
	return res
}

// SweepNow runs Sweep at the cache clock's current time.
func (c *Cache) SweepNow() SweepResult {
	return c.Sweep(c.clock.Now())
}

// Pending reports whether a non-expired entry is held for key.
func (c *Cache) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	held, ok := c.pending[key]
	return ok && !expired(held.storedAt, c.itemTTL, c.clock.Now())
}

// TitleSeen reports whether the duplicate guard holds titleKey.
func (c *Cache) TitleSeen(titleKey string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.titles.contains(titleKey, c.clock.Now())
}

// Len returns the number of pending entries and guarded titles, expired
// entries included until the next sweep.
func (c *Cache) Len() (pending, titles int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending), c.titles.len()
}

// Clock returns the cache clock.
func (c *Cache) Clock() Clock {
	return c.clock
}
