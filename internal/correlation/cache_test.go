// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package correlation

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/mediarelay/internal/models"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCache() (*Cache, *FakeClock) {
	clock := NewFakeClock(epoch)
	return New(Config{}, clock), clock
}

func jellyfinAdded(key, title string) models.NormalizedEvent {
	return models.NormalizedEvent{
		Source:  models.SourceJellyfin,
		Kind:    models.KindContentAdded,
		ItemKey: key,
		Media: models.Media{
			Type:        models.MediaEpisode,
			SeriesTitle: "ShowName",
			Title:       title,
			Season:      1,
			Episode:     5,
			Overview:    "from primary",
		},
	}
}

func jellyfinUpdated(key, title string) models.NormalizedEvent {
	return models.NormalizedEvent{
		Source:        models.SourceJellyfin,
		Kind:          models.KindContentUpdated,
		ItemKey:       key,
		MetadataReady: true,
		Media: models.Media{
			Type:        models.MediaEpisode,
			SeriesTitle: "ShowName",
			Title:       title,
			Season:      1,
			Episode:     5,
			PosterURL:   "https://img/poster.jpg",
		},
	}
}

func TestPrimaryThenSecondaryEmitsOnce(t *testing.T) {
	c, clock := newTestCache()

	if d := c.Admit(jellyfinAdded("X", "EpisodeName")); d.Action != Hold {
		t.Fatalf("primary: got %v, want Hold", d.Action)
	}
	if !c.Pending("jellyfin:X") {
		t.Fatal("primary should be pending")
	}

	clock.Advance(10 * time.Second)
	d := c.Admit(jellyfinUpdated("X", "EpisodeName"))
	if d.Action != Emit {
		t.Fatalf("secondary: got %v, want Emit", d.Action)
	}

	got := d.Event.Media
	if got.PosterURL != "https://img/poster.jpg" {
		t.Errorf("secondary field lost: PosterURL = %q", got.PosterURL)
	}
	if got.Overview != "from primary" || got.SeriesTitle != "ShowName" {
		t.Errorf("primary fields not merged: %+v", got)
	}
	if got.Label() != "ShowName - EpisodeName (S01E05)" {
		t.Errorf("Label() = %q", got.Label())
	}
	if c.Pending("jellyfin:X") {
		t.Error("entry should be consumed")
	}

	// A repeat of the secondary is now a duplicate title.
	if d := c.Admit(jellyfinUpdated("X", "EpisodeName")); d.Action == Emit {
		t.Error("second secondary should not emit")
	}
}

func TestSecondaryPrecedence(t *testing.T) {
	c, _ := newTestCache()

	primary := jellyfinAdded("X", "Old Title")
	c.Admit(primary)

	secondary := jellyfinUpdated("X", "New Title")
	secondary.Media.Overview = "from secondary"
	d := c.Admit(secondary)
	if d.Action != Emit {
		t.Fatalf("got %v, want Emit", d.Action)
	}
	if d.Event.Media.Title != "New Title" || d.Event.Media.Overview != "from secondary" {
		t.Errorf("secondary explicit fields must win: %+v", d.Event.Media)
	}
}

func TestPrimaryExpires(t *testing.T) {
	c, clock := newTestCache()

	c.Admit(jellyfinAdded("X", "Dune"))
	clock.Advance(301 * time.Second)

	if c.Pending("jellyfin:X") {
		t.Error("lookup should treat the entry as expired before any sweep")
	}

	res := c.Sweep(clock.Now())
	if res.Items != 1 {
		t.Errorf("Sweep removed %d items, want 1", res.Items)
	}
	if pending, _ := c.Len(); pending != 0 {
		t.Errorf("pending = %d after sweep", pending)
	}
}

func TestLateSecondaryEmitsAsIs(t *testing.T) {
	c, clock := newTestCache()

	c.Admit(jellyfinAdded("X", "EpisodeName"))
	clock.Advance(DefaultItemTTL + time.Second)

	d := c.Admit(jellyfinUpdated("X", "EpisodeName"))
	if d.Action != Emit {
		t.Fatalf("got %v, want Emit", d.Action)
	}
	if d.Event.Media.Overview != "" {
		t.Errorf("expired primary must not be merged, Overview = %q", d.Event.Media.Overview)
	}
}

func TestDuplicatePrimaryIgnored(t *testing.T) {
	c, clock := newTestCache()

	first := jellyfinAdded("X", "EpisodeName")
	first.Media.Overview = "first"
	c.Admit(first)

	clock.Advance(5 * time.Second)
	second := jellyfinAdded("X", "EpisodeName")
	second.Media.Overview = "second"
	if d := c.Admit(second); d.Action != DropDuplicate {
		t.Fatalf("duplicate primary: got %v, want DropDuplicate", d.Action)
	}

	d := c.Admit(models.NormalizedEvent{
		Source: models.SourceJellyfin, Kind: models.KindContentUpdated, ItemKey: "X", MetadataReady: true,
		Media: models.Media{Type: models.MediaEpisode},
	})
	if d.Action != Emit {
		t.Fatalf("got %v, want Emit", d.Action)
	}
	if d.Event.Media.Overview != "first" {
		t.Errorf("merge should use the first stored primary, got %q", d.Event.Media.Overview)
	}
}

func TestPrimaryAfterExpiryIsStoredAgain(t *testing.T) {
	c, clock := newTestCache()

	c.Admit(jellyfinAdded("X", "EpisodeName"))
	clock.Advance(DefaultItemTTL + time.Minute)

	if d := c.Admit(jellyfinAdded("X", "EpisodeName")); d.Action != Hold {
		t.Errorf("got %v, want Hold for a primary replacing an expired one", d.Action)
	}
}

func TestUpdateWithoutMarkerIgnored(t *testing.T) {
	c, _ := newTestCache()

	c.Admit(jellyfinAdded("X", "EpisodeName"))
	ev := jellyfinUpdated("X", "EpisodeName")
	ev.MetadataReady = false

	if d := c.Admit(ev); d.Action != DropIgnored {
		t.Errorf("got %v, want DropIgnored", d.Action)
	}
	if !c.Pending("jellyfin:X") {
		t.Error("ignored update must leave the pending entry alone")
	}
}

func TestDuplicateGuardAcrossKeys(t *testing.T) {
	c, clock := newTestCache()

	movie := func(key string) models.NormalizedEvent {
		return models.NormalizedEvent{
			Source:  models.SourcePlex,
			Kind:    models.KindContentAdded,
			ItemKey: key,
			Media:   models.Media{Type: models.MediaMovie, Title: "Dune", Year: 2021},
		}
	}

	if d := c.Admit(movie("1")); d.Action != Emit {
		t.Fatalf("first: got %v, want Emit", d.Action)
	}
	clock.Advance(time.Hour)
	second := movie("2")
	second.Media.Title = "  DUNE "
	if d := c.Admit(second); d.Action != DropDuplicate {
		t.Errorf("same title, different key: got %v, want DropDuplicate", d.Action)
	}

	clock.Advance(DefaultTitleTTL)
	if d := c.Admit(movie("3")); d.Action != Emit {
		t.Errorf("after title TTL: got %v, want Emit", d.Action)
	}
}

func TestGuardIsPerSource(t *testing.T) {
	c, _ := newTestCache()

	ev := models.NormalizedEvent{Kind: models.KindDownload, ItemKey: "1",
		Media: models.Media{Type: models.MediaMovie, Title: "Dune", Year: 2021}}

	ev.Source = models.SourceRadarr
	if d := c.Admit(ev); d.Action != Emit {
		t.Fatalf("radarr: got %v", d.Action)
	}
	ev.Source = models.SourcePlex
	ev.Kind = models.KindContentAdded
	if d := c.Admit(ev); d.Action != Emit {
		t.Errorf("plex after radarr: got %v, want Emit", d.Action)
	}
}

func TestBypassKinds(t *testing.T) {
	c, _ := newTestCache()

	for _, kind := range []models.Kind{
		models.KindPlaying, models.KindResumed, models.KindPaused, models.KindFinished,
		models.KindGrab, models.KindAppUpdate, models.KindTest,
	} {
		ev := models.NormalizedEvent{Source: models.SourceJellyfin, Kind: kind, ItemKey: "X",
			Media: models.Media{Type: models.MediaMovie, Title: "Dune"}}
		for i := 0; i < 2; i++ {
			if d := c.Admit(ev); d.Action != Emit {
				t.Errorf("%s #%d: got %v, want Emit", kind, i, d.Action)
			}
		}
	}
	if pending, titles := c.Len(); pending != 0 || titles != 0 {
		t.Errorf("bypass kinds touched state: pending=%d titles=%d", pending, titles)
	}
}

func TestRatingThenFavoriteBothEmit(t *testing.T) {
	c, clock := newTestCache()
	media := models.Media{Type: models.MediaMovie, Title: "Dune", Year: 2021}

	events := []models.NormalizedEvent{
		{Source: models.SourceTrakt, Kind: models.KindRated, ItemKey: "rating:dune-2021:1", Media: media},
		{Source: models.SourceTrakt, Kind: models.KindFavorited, ItemKey: "favorite:dune-2021", Media: media},
		{Source: models.SourceTrakt, Kind: models.KindRated, ItemKey: "rating:dune-2021:2", Media: media},
	}
	for i, ev := range events {
		if d := c.Admit(ev); d.Action != Emit {
			t.Fatalf("event %d (%s): got %v (%s), want Emit", i, ev.Kind, d.Action, d.Reason)
		}
		clock.Advance(5 * time.Minute)
	}
	if _, titles := c.Len(); titles != 0 {
		t.Errorf("activity feed items entered the title guard: titles=%d", titles)
	}
}

func TestHeldPrimaryDoesNotBlockItsSecondary(t *testing.T) {
	c, _ := newTestCache()

	c.Admit(jellyfinAdded("X", "EpisodeName"))
	if c.TitleSeen(jellyfinAdded("X", "EpisodeName").TitleKey()) {
		t.Fatal("holding a primary must not record its title")
	}
	if d := c.Admit(jellyfinUpdated("X", "EpisodeName")); d.Action != Emit {
		t.Errorf("got %v, want Emit", d.Action)
	}
}

func TestAdmitFailsOpen(t *testing.T) {
	var c *Cache

	ev := jellyfinAdded("X", "EpisodeName")
	d := c.Admit(ev)
	if d.Action != Emit || !d.FailOpen {
		t.Fatalf("got %+v, want fail-open Emit", d)
	}
	if d.Event.ItemKey != "X" {
		t.Errorf("fail-open should emit the incoming event, got %+v", d.Event)
	}
}

func TestTitleGuardCapacity(t *testing.T) {
	clock := NewFakeClock(epoch)
	c := New(Config{MaxTitles: 2}, clock)

	for i := 0; i < 3; i++ {
		c.Admit(models.NormalizedEvent{Source: models.SourceRadarr, Kind: models.KindDownload,
			ItemKey: fmt.Sprint(i), Media: models.Media{Type: models.MediaMovie, Title: fmt.Sprintf("Movie %d", i)}})
	}
	if _, titles := c.Len(); titles != 2 {
		t.Errorf("titles = %d, want capacity 2", titles)
	}
	if c.TitleSeen("radarr:movie 0") {
		t.Error("oldest title should be evicted")
	}
}

func TestSweepTitles(t *testing.T) {
	c, clock := newTestCache()

	c.Admit(models.NormalizedEvent{Source: models.SourceSonarr, Kind: models.KindDownload, ItemKey: "1",
		Media: models.Media{Type: models.MediaMovie, Title: "A"}})
	clock.Advance(DefaultTitleTTL + time.Second)

	if res := c.SweepNow(); res.Titles != 1 {
		t.Errorf("Sweep removed %d titles, want 1", res.Titles)
	}
}

func TestConcurrentPrimaryAndSecondary(t *testing.T) {
	for run := 0; run < 50; run++ {
		c, _ := newTestCache()

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			emits int
		)
		for _, ev := range []models.NormalizedEvent{
			jellyfinAdded("X", "EpisodeName"),
			jellyfinAdded("X", "EpisodeName"),
			jellyfinUpdated("X", "EpisodeName"),
		} {
			wg.Add(1)
			go func(ev models.NormalizedEvent) {
				defer wg.Done()
				if d := c.Admit(ev); d.Action == Emit {
					mu.Lock()
					emits++
					mu.Unlock()
				}
			}(ev)
		}
		wg.Wait()

		if emits != 1 {
			t.Fatalf("run %d: %d emits, want exactly 1", run, emits)
		}
	}
}

func TestRoleOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source models.Source
		kind   models.Kind
		ready  bool
		want   Role
	}{
		{models.SourceJellyfin, models.KindContentAdded, false, RolePrimary},
		{models.SourceJellyfin, models.KindContentUpdated, true, RoleSecondary},
		{models.SourceJellyfin, models.KindContentUpdated, false, RoleIgnored},
		{models.SourceJellyfin, models.KindPlaying, false, RoleBypass},
		{models.SourcePlex, models.KindContentAdded, false, RoleSingle},
		{models.SourceSonarr, models.KindDownload, false, RoleSingle},
		{models.SourceSonarr, models.KindGrab, false, RoleBypass},
		{models.SourceRadarr, models.KindTest, false, RoleBypass},
		{models.SourceTrakt, models.KindRated, false, RoleBypass},
		{models.SourceTrakt, models.KindFavorited, false, RoleBypass},
	}
	for _, tt := range tests {
		ev := models.NormalizedEvent{Source: tt.source, Kind: tt.kind, MetadataReady: tt.ready}
		if got := RoleOf(ev); got != tt.want {
			t.Errorf("RoleOf(%s, %s, ready=%v) = %v, want %v", tt.source, tt.kind, tt.ready, got, tt.want)
		}
	}
}
