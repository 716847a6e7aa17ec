// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package trakt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/mediarelay/internal/extract"
)

func TestClientRatings(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/sean/ratings/all" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("trakt-api-version") != "2" || r.Header.Get("trakt-api-key") != "client" {
			t.Errorf("headers = %v", r.Header)
		}
		_, _ = w.Write([]byte(`[{"rated_at":"2026-10-18T10:00:00.000Z","rating":8,"type":"movie","movie":{"title":"Dune","year":2021,"ids":{"trakt":1,"slug":"dune-2021"}}}]`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(ClientConfig{APIURL: srv.URL, ClientID: "client", RequestsPerSecond: 100})
	items, err := c.Ratings(context.Background(), "sean")
	if err != nil {
		t.Fatalf("Ratings() error = %v", err)
	}
	if len(items) != 1 || extract.NewPayload(items[0]).Int("rating") != 8 {
		t.Errorf("items = %v", items)
	}
}

func TestClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr func(error) bool
	}{
		{"not found", http.StatusNotFound, `{}`, func(err error) bool { return errors.Is(err, ErrNotFound) }},
		{"server error", http.StatusBadGateway, `bad gateway`, func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadGateway
		}},
		{"not a list", http.StatusOK, `{"error":"x"}`, func(err error) bool { return err != nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)
			c := NewClient(ClientConfig{APIURL: srv.URL, RequestsPerSecond: 100})
			if _, err := c.Favorites(context.Background(), "sean"); !tt.wantErr(err) {
				t.Errorf("Favorites() error = %v", err)
			}
		})
	}
}

func TestRecent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	items := []map[string]any{
		{"id": "newest", "rated_at": "2026-10-18T11:50:00.000Z"},
		{"id": "old", "rated_at": "2026-10-18T10:30:00.000Z"},
		{"id": "oldest-in-window", "rated_at": "2026-10-18T11:05:00.000Z"},
		{"id": "boundary", "rated_at": "2026-10-18T11:00:00.000Z"},
		{"id": "future", "rated_at": "2026-10-18T12:30:00.000Z"},
		{"id": "no time"},
	}

	got := Recent(items, "rated_at", now, time.Hour)
	want := []string{"oldest-in-window", "newest"}
	if len(got) != len(want) {
		t.Fatalf("Recent() = %v", got)
	}
	for i, id := range want {
		if got[i]["id"] != id {
			t.Errorf("Recent()[%d] = %v, want %s", i, got[i]["id"], id)
		}
	}
}

type fakeLister struct {
	ratings   []map[string]any
	favorites []map[string]any
	err       error
}

func (f *fakeLister) Ratings(context.Context, string) ([]map[string]any, error) {
	return f.ratings, f.err
}

func (f *fakeLister) Favorites(context.Context, string) ([]map[string]any, error) {
	return f.favorites, f.err
}

func TestPollForwardsWithUsername(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	lister := &fakeLister{favorites: []map[string]any{
		{"listed_at": "2026-10-18T09:00:00.000Z", "type": "show", "show": map[string]any{"title": "B"}},
		{"listed_at": "2026-10-18T01:00:00.000Z", "type": "show", "show": map[string]any{"title": "A"}},
		{"listed_at": "2026-10-10T01:00:00.000Z", "type": "show", "show": map[string]any{"title": "stale"}},
	}}

	var got []extract.Payload
	p := NewPoller(lister, PollerConfig{Username: "sean"}, func(_ context.Context, item extract.Payload) error {
		got = append(got, item)
		return nil
	})
	p.now = func() time.Time { return now }

	if n := p.Poll(context.Background(), FeedFavorites); n != 2 {
		t.Fatalf("Poll() = %d, want 2", n)
	}
	if got[0].Object("show").String("title") != "A" || got[1].Object("show").String("title") != "B" {
		t.Errorf("items not oldest first: %v", got)
	}
	for _, item := range got {
		if item.String("username") != "sean" {
			t.Errorf("username = %q", item.String("username"))
		}
	}
}

func TestPollErrorForwardsNothing(t *testing.T) {
	t.Parallel()

	called := false
	p := NewPoller(&fakeLister{err: ErrNotFound}, PollerConfig{Username: "ghost"}, func(context.Context, extract.Payload) error {
		called = true
		return nil
	})
	if n := p.Poll(context.Background(), FeedRatings); n != 0 || called {
		t.Errorf("Poll() = %d, called = %v", n, called)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	p := NewPoller(&fakeLister{}, PollerConfig{Username: "sean", RatingsInterval: time.Millisecond, FavoritesInterval: time.Millisecond},
		func(context.Context, extract.Payload) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Serve(ctx) }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
