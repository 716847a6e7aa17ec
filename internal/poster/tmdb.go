// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package poster

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
	"github.com/tomtom215/mediarelay/internal/metrics"
)

// ErrResolution is returned when a poster could not be resolved. It never
// crosses the PosterResolver boundary; CachingResolver turns it into a miss.
var ErrResolution = errors.New("poster resolution failed")

// ErrNoPoster means the lookup succeeded but the item has no poster.
var ErrNoPoster = fmt.Errorf("%w: no poster", ErrResolution)

// ClientConfig configures a TMDb client.
type ClientConfig struct {
	APIKey            string
	BaseURL           string
	ImageBaseURL      string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
	Breaker           breaker.Settings
}

// Client looks up poster paths on TMDb.
type Client struct {
	apiKey    string
	baseURL   string
	imageBase string
	timeout   time.Duration
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *breaker.Breaker[string]
}

// NewClient creates a TMDb client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Breaker == (breaker.Settings{}) {
		cfg.Breaker = breaker.DefaultSettings()
	}
	return &Client{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		imageBase: strings.TrimRight(cfg.ImageBaseURL, "/"),
		timeout:   cfg.Timeout,
		http:      httpClient,
		limiter:   rate.NewLimiter(limit, cfg.Burst),
		breaker:   breaker.New[string]("tmdb-api", cfg.Breaker),
	}
}

type findResponse struct {
	TVResults []struct {
		PosterPath string `json:"poster_path"`
	} `json:"tv_results"`
}

type movieResponse struct {
	PosterPath string `json:"poster_path"`
}

// ShowPosterURL resolves a show poster from its TVDB id.
func (c *Client) ShowPosterURL(ctx context.Context, tvdbID string) (string, error) {
	endpoint := fmt.Sprintf("%s/find/%s?api_key=%s&external_source=tvdb_id",
		c.baseURL, url.PathEscape(tvdbID), url.QueryEscape(c.apiKey))
	return c.lookup(ctx, endpoint, func(body []byte) (string, error) {
		var resp findResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("%w: decode find response: %w", ErrResolution, err)
		}
		if len(resp.TVResults) == 0 {
			return "", nil
		}
		return resp.TVResults[0].PosterPath, nil
	})
}

// MoviePosterURL resolves a movie poster from its TMDb id.
func (c *Client) MoviePosterURL(ctx context.Context, tmdbID string) (string, error) {
	endpoint := fmt.Sprintf("%s/movie/%s?api_key=%s", c.baseURL, url.PathEscape(tmdbID), url.QueryEscape(c.apiKey))
	return c.lookup(ctx, endpoint, func(body []byte) (string, error) {
		var resp movieResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("%w: decode movie response: %w", ErrResolution, err)
		}
		return resp.PosterPath, nil
	})
}

func (c *Client) lookup(ctx context.Context, endpoint string, parse func([]byte) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %w", ErrResolution, err)
	}

	start := time.Now()
	path, err := c.breaker.Execute(func() (string, error) {
		body, err := c.get(ctx, endpoint)
		if err != nil {
			return "", err
		}
		return parse(body)
	})
	metrics.PosterLookupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, ErrResolution) {
			err = fmt.Errorf("%w: %w", ErrResolution, err)
		}
		return "", err
	}
	if path == "" {
		return "", ErrNoPoster
	}
	return c.imageBase + path, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		// TMDb has no such item; reported as no poster.
		return []byte(`{}`), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("TMDb returned status %d", resp.StatusCode)
	}
	return body, nil
}
