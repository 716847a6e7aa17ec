// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package api

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/mediarelay/internal/bus"
	"github.com/tomtom215/mediarelay/internal/correlation"
	"github.com/tomtom215/mediarelay/internal/extract"
	"github.com/tomtom215/mediarelay/internal/pipeline"
)

type capture struct {
	mu   sync.Mutex
	envs []bus.Envelope
}

func (c *capture) Publish(_ context.Context, env bus.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.envs = append(c.envs, env)
	return nil
}

func (c *capture) titles() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.envs))
	for i, env := range c.envs {
		out[i] = env.Title()
	}
	return out
}

func newRelay(t *testing.T) (*pipeline.Pipeline, *correlation.FakeClock, *capture) {
	t.Helper()
	clock := correlation.NewFakeClock(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	cache := correlation.New(correlation.Config{}, clock)
	out := &capture{}
	p := pipeline.New(extract.New(nil, extract.WithNow(clock.Now)), cache, out, nil)
	return p, clock, out
}

func TestEndToEndMovieWithoutMetadataIsNeverRendered(t *testing.T) {
	t.Parallel()

	p, clock, out := newRelay(t)
	srv := newTestServer(t, testConfig(), p)

	body := `{"Event":"ItemAdded","Item":{"Id":"dune-1984","Type":"Movie","Name":"Dune","ProductionYear":1984}}`
	if code, resp := post(t, srv.URL+"/jellyfin_webhook", body, nil); code != http.StatusOK || resp != "OK" {
		t.Fatalf("POST = %d %q", code, resp)
	}

	clock.Advance(300*time.Second + time.Millisecond)
	if res := pipeline.NewSweeper(p.Cache(), time.Minute).Sweep(); res.Items != 1 {
		t.Errorf("swept %d, want 1", res.Items)
	}
	if got := out.titles(); len(got) != 0 {
		t.Errorf("rendered %v, want nothing", got)
	}
}

func TestEndToEndEpisodeRendersOnce(t *testing.T) {
	t.Parallel()

	p, clock, out := newRelay(t)
	srv := newTestServer(t, testConfig(), p)

	primary := `{"Event":"ItemAdded","Item":{"Id":"ep-0105","Type":"Episode","Name":"EpisodeName",
		"ParentIndexNumber":1,"IndexNumber":5},"Series":{"Name":"ShowName"}}`
	secondary := `{"Event":"ItemUpdated","AdditionalData":["MetadataDownload"],"Item":{"Id":"ep-0105","Type":"Episode",
		"Name":"EpisodeName","ParentIndexNumber":1,"IndexNumber":5},"Series":{"Name":"ShowName"}}`

	if code, _ := post(t, srv.URL+"/jellyfin_webhook", primary, nil); code != http.StatusOK {
		t.Fatalf("primary = %d", code)
	}
	clock.Advance(10 * time.Second)
	if code, _ := post(t, srv.URL+"/jellyfin_webhook", secondary, nil); code != http.StatusOK {
		t.Fatalf("secondary = %d", code)
	}

	got := out.titles()
	if len(got) != 1 || got[0] != "ShowName - EpisodeName (S01E05)" {
		t.Errorf("rendered %v", got)
	}
}

func TestEndToEndMalformedAnswersOK(t *testing.T) {
	t.Parallel()

	p, _, out := newRelay(t)
	srv := newTestServer(t, testConfig(), p)

	tests := []struct {
		name, path, body string
	}{
		{"truncated json", "/sonarr_webhook", `{"eventType":`},
		{"person item", "/jellyfin_webhook", `{"Event":"ItemAdded","Item":{"Id":"p","Type":"Person","Name":"X"}}`},
		{"unknown event", "/radarr_webhook", `{"eventType":"SomethingNew"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, body := post(t, srv.URL+tt.path, tt.body, nil); code != http.StatusOK || body != "OK" {
				t.Errorf("POST = %d %q", code, body)
			}
		})
	}
	if n := len(out.titles()); n != 0 {
		t.Errorf("rendered %d messages from malformed payloads", n)
	}
}
