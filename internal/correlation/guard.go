// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package correlation

import "time"

// titleEntry is a node in the guard's recency list.
type titleEntry struct {
	key    string
	seenAt time.Time
	prev   *titleEntry
	next   *titleEntry
}

// titleGuard is a capacity-bounded LRU of recently emitted titles with a
// fixed TTL measured from first sight. It is not safe for concurrent use;
// Cache serializes access under its own mutex.
type titleGuard struct {
	capacity int
	ttl      time.Duration
	items    map[string]*titleEntry

	// head.next is the most recently seen entry, tail.prev the least.
	head *titleEntry
	tail *titleEntry
}

func newTitleGuard(capacity int, ttl time.Duration) *titleGuard {
	if capacity <= 0 {
		capacity = 10000
	}
	g := &titleGuard{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*titleEntry),
		head:     &titleEntry{},
		tail:     &titleEntry{},
	}
	g.head.next = g.tail
	g.tail.prev = g.head
	return g
}

// seen reports whether key was recorded within the TTL. A miss records key.
// A hit refreshes recency but not expiry, so re-fired events cannot keep a
// title suppressed forever.
func (g *titleGuard) seen(key string, now time.Time) bool {
	if entry, ok := g.items[key]; ok {
		if !expired(entry.seenAt, g.ttl, now) {
			g.moveToFront(entry)
			return true
		}
		g.remove(entry)
	}

	entry := &titleEntry{key: key, seenAt: now}
	g.addToFront(entry)
	g.items[key] = entry
	for len(g.items) > g.capacity {
		g.evictOldest()
	}
	return false
}

// contains checks key without recording or reordering.
func (g *titleGuard) contains(key string, now time.Time) bool {
	entry, ok := g.items[key]
	return ok && !expired(entry.seenAt, g.ttl, now)
}

// sweep removes expired entries and returns how many were dropped.
func (g *titleGuard) sweep(now time.Time) int {
	removed := 0
	for entry := g.tail.prev; entry != g.head; {
		prev := entry.prev
		if expired(entry.seenAt, g.ttl, now) {
			g.remove(entry)
			removed++
		}
		entry = prev
	}
	return removed
}

func (g *titleGuard) len() int {
	return len(g.items)
}

func (g *titleGuard) addToFront(entry *titleEntry) {
	entry.prev = g.head
	entry.next = g.head.next
	g.head.next.prev = entry
	g.head.next = entry
}

func (g *titleGuard) moveToFront(entry *titleEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	g.addToFront(entry)
}

func (g *titleGuard) remove(entry *titleEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(g.items, entry.key)
}

func (g *titleGuard) evictOldest() {
	if oldest := g.tail.prev; oldest != g.head {
		g.remove(oldest)
	}
}
