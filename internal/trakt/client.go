// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package trakt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/mediarelay/internal/breaker"
)

// DefaultAPIURL is the public Trakt API.
const DefaultAPIURL = "https://api.trakt.tv"

// ErrNotFound is returned for an unknown or private user.
var ErrNotFound = errors.New("trakt: not found")

// APIError is a non-2xx response from Trakt.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trakt: status %d: %s", e.StatusCode, e.Body)
}

// ClientConfig configures a Trakt client.
type ClientConfig struct {
	APIURL            string
	ClientID          string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Breaker           breaker.Settings
}

// Client reads a user's public ratings and favorites.
type Client struct {
	apiURL   string
	clientID string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *breaker.Breaker[[]map[string]any]
}

// NewClient creates a Trakt client. Trakt allows 1000 GETs per five
// minutes; the default limiter stays well under that.
func NewClient(cfg ClientConfig) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Breaker == (breaker.Settings{}) {
		cfg.Breaker = breaker.DefaultSettings()
	}
	return &Client{
		apiURL:   strings.TrimRight(cfg.APIURL, "/"),
		clientID: cfg.ClientID,
		timeout:  cfg.Timeout,
		http:     cfg.HTTPClient,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		breaker:  breaker.New[[]map[string]any]("trakt-api", cfg.Breaker),
	}
}

// Ratings returns every rating of username, newest first as Trakt sends them.
func (c *Client) Ratings(ctx context.Context, username string) ([]map[string]any, error) {
	return c.list(ctx, username, "ratings/all")
}

// Favorites returns every favorite of username.
func (c *Client) Favorites(ctx context.Context, username string) ([]map[string]any, error) {
	return c.list(ctx, username, "favorites/all")
}

func (c *Client) list(ctx context.Context, username, path string) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := fmt.Sprintf("%s/users/%s/%s", c.apiURL, url.PathEscape(username), path)
	return c.breaker.Execute(func() ([]map[string]any, error) {
		return c.get(ctx, endpoint)
	})
}

func (c *Client) get(ctx context.Context, endpoint string) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", "2")
	req.Header.Set("trakt-api-key", c.clientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		if len(body) > 256 {
			body = body[:256]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return items, nil
}
