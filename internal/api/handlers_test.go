// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mediarelay/internal/config"
	"github.com/tomtom215/mediarelay/internal/models"
	"github.com/tomtom215/mediarelay/internal/pipeline"
)

type fakeRelay struct {
	mu      sync.Mutex
	calls   []models.Source
	bodies  []string
	outcome pipeline.Outcome
	err     error
}

func (f *fakeRelay) Handle(_ context.Context, source models.Source, raw []byte) (pipeline.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, source)
	f.bodies = append(f.bodies, string(raw))
	return f.outcome, f.err
}

func (f *fakeRelay) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeBus struct {
	running chan struct{}
}

func (b *fakeBus) Transport() string { return "memory" }
func (b *fakeBus) Running() <-chan struct{} { return b.running }

type fakeCache struct{ pending, titles int }

func (c fakeCache) Len() (int, int) { return c.pending, c.titles }

func testConfig() *config.Config {
	return &config.Config{
		Webhooks: config.WebhooksConfig{
			Jellyfin:     true,
			Sonarr:       true,
			Radarr:       true,
			Trakt:        true,
			MaxBodyBytes: 1 << 20,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 1000,
			RateLimitWindow:   time.Minute,
			CORSOrigins:       []string{"http://dash.local"},
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, relay Relay, opts ...func(*Options)) *httptest.Server {
	t.Helper()
	o := Options{Config: cfg, Relay: relay, Destinations: []string{"jellyfin_content"}}
	for _, fn := range opts {
		fn(&o)
	}
	srv := httptest.NewServer(NewRouter(NewHandler(o)).Setup())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string, header http.Header) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(respBody)
}

func TestWebhookResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		outcome  pipeline.Outcome
		err      error
		wantCode int
		wantBody string
	}{
		{"emitted", "/sonarr_webhook", pipeline.OutcomeEmitted, nil, http.StatusOK, "OK"},
		{"held", "/jellyfin_webhook", pipeline.OutcomeHeld, nil, http.StatusOK, "OK"},
		{"duplicate", "/radarr_webhook", pipeline.OutcomeDuplicate, nil, http.StatusOK, "OK"},
		{"malformed", "/sonarr_webhook", pipeline.OutcomeExtractionFailed, nil, http.StatusOK, "OK"},
		{"delivery failed", "/trakt_webhook", pipeline.OutcomeDeliveryFailed, nil, http.StatusOK, "OK"},
		{"bus failure", "/radarr_webhook", pipeline.OutcomeError, errors.New("nats: connection closed"), http.StatusInternalServerError, "Error"},
		{"disabled source", "/plex_webhook", "", nil, http.StatusNotFound, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			relay := &fakeRelay{outcome: tt.outcome, err: tt.err}
			srv := newTestServer(t, testConfig(), relay)

			code, body := post(t, srv.URL+tt.path, `{}`, nil)
			if code != tt.wantCode || body != tt.wantBody {
				t.Errorf("POST %s = %d %q, want %d %q", tt.path, code, body, tt.wantCode, tt.wantBody)
			}
		})
	}
}

func TestWebhookPassesSourceAndBody(t *testing.T) {
	t.Parallel()

	relay := &fakeRelay{outcome: pipeline.OutcomeEmitted}
	srv := newTestServer(t, testConfig(), relay)

	if code, _ := post(t, srv.URL+"/radarr_webhook", `{"eventType":"Test"}`, nil); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if relay.calls[0] != models.SourceRadarr || relay.bodies[0] != `{"eventType":"Test"}` {
		t.Errorf("relay got %v %q", relay.calls, relay.bodies)
	}
}

func TestWebhookSecret(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Webhooks.Secret = "s3cret"
	relay := &fakeRelay{outcome: pipeline.OutcomeEmitted}
	srv := newTestServer(t, cfg, relay)

	tests := []struct {
		name     string
		secret   string
		wantCode int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "guess", http.StatusUnauthorized},
		{"match", "s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.secret != "" {
				header.Set(WebhookSecretHeader, tt.secret)
			}
			if code, _ := post(t, srv.URL+"/sonarr_webhook", `{}`, header); code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
		})
	}
	if relay.count() != 1 {
		t.Errorf("relay called %d times, want 1", relay.count())
	}
}

func TestWebhookBodyLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Webhooks.MaxBodyBytes = 16
	relay := &fakeRelay{outcome: pipeline.OutcomeEmitted}
	srv := newTestServer(t, cfg, relay)

	code, _ := post(t, srv.URL+"/sonarr_webhook", strings.Repeat("x", 64), nil)
	if code != http.StatusRequestEntityTooLarge {
		t.Errorf("code = %d, want 413", code)
	}
	if relay.count() != 0 {
		t.Error("oversized body reached the relay")
	}
}

func TestWebhookRejectsGet(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(), &fakeRelay{})
	resp, err := http.Get(srv.URL + "/sonarr_webhook")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("code = %d", resp.StatusCode)
	}
}

func TestWebhookBurstIsNotRateLimited(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.RateLimitRequests = 2
	relay := &fakeRelay{outcome: pipeline.OutcomeHeld}
	srv := newTestServer(t, cfg, relay)

	// A library scan: ItemAdded plus ItemUpdated for 80 episodes from one host.
	for i := 0; i < 160; i++ {
		if code, body := post(t, srv.URL+"/jellyfin_webhook", `{}`, nil); code != http.StatusOK || body != "OK" {
			t.Fatalf("post %d = %d %q, want 200 OK", i, code, body)
		}
	}
	if relay.count() != 160 {
		t.Errorf("relay saw %d posts, want 160", relay.count())
	}
}

func TestAPIRateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.RateLimitRequests = 2
	srv := newTestServer(t, cfg, &fakeRelay{})

	var last int
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/api/v1/health/live")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		last = resp.StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", last)
	}
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	t.Parallel()

	running := make(chan struct{})
	close(running)
	srv := newTestServer(t, testConfig(), &fakeRelay{}, func(o *Options) {
		o.Bus = &fakeBus{running: running}
		o.Cache = fakeCache{pending: 2, titles: 7}
		o.Version = "1.2.3"
	})

	var resp struct {
		Status string       `json:"status"`
		Data   HealthStatus `json:"data"`
	}
	if code := getJSON(t, srv.URL+"/api/v1/health", &resp); code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	d := resp.Data
	if d.Status != "healthy" || d.Version != "1.2.3" || d.Transport != "memory" {
		t.Errorf("health = %+v", d)
	}
	if d.Pending != 2 || d.Titles != 7 {
		t.Errorf("cache = %d/%d", d.Pending, d.Titles)
	}
	if !d.Sources["jellyfin"] || d.Sources["plex"] {
		t.Errorf("sources = %v", d.Sources)
	}
}

func TestHealthDegradedWithoutDestinations(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(), &fakeRelay{}, func(o *Options) { o.Destinations = nil })
	var resp struct {
		Data HealthStatus `json:"data"`
	}
	getJSON(t, srv.URL+"/api/v1/health", &resp)
	if resp.Data.Status != "degraded" {
		t.Errorf("status = %q, want degraded", resp.Data.Status)
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	bus := &fakeBus{running: make(chan struct{})}
	srv := newTestServer(t, testConfig(), &fakeRelay{}, func(o *Options) { o.Bus = bus })

	var resp APIResponse
	if code := getJSON(t, srv.URL+"/api/v1/health/ready", &resp); code != http.StatusServiceUnavailable {
		t.Errorf("before start: code = %d", code)
	}
	close(bus.running)
	if code := getJSON(t, srv.URL+"/api/v1/health/ready", &resp); code != http.StatusOK {
		t.Errorf("after start: code = %d", code)
	}
	if code := getJSON(t, srv.URL+"/api/v1/health/live", &resp); code != http.StatusOK {
		t.Errorf("live: code = %d", code)
	}
}

func TestWebSocketWithoutHub(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(), &fakeRelay{})
	var resp APIResponse
	if code := getJSON(t, srv.URL+"/api/v1/ws", &resp); code != http.StatusServiceUnavailable {
		t.Errorf("code = %d", code)
	}
	if resp.Error == nil || resp.Error.Code != "FEED_UNAVAILABLE" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(), &fakeRelay{})
	resp, err := http.Get(srv.URL + "/api/v1/health/live")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" || resp.Header.Get("X-Frame-Options") != "DENY" {
		t.Errorf("security headers missing: %v", resp.Header)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testConfig(), &fakeRelay{outcome: pipeline.OutcomeEmitted})
	post(t, srv.URL+"/sonarr_webhook", `{}`, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("code = %d", resp.StatusCode)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a\nb", `a\x0ab`},
		{"tab\there", `tab\x09here`},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
