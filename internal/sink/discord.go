// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/mediarelay/internal/breaker"
	"github.com/tomtom215/mediarelay/internal/logging"
	"github.com/tomtom215/mediarelay/internal/metrics"
	"github.com/tomtom215/mediarelay/internal/render"
)

// DefaultMaxRetryAfter bounds how long a 429 is waited out before the one
// retry. Longer Retry-After values fail the send.
const DefaultMaxRetryAfter = 5 * time.Second

// DiscordConfig configures a Discord sink.
type DiscordConfig struct {
	// Destinations maps destination names to webhook URLs.
	Destinations      map[string]string
	Username          string
	AvatarURL         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetryAfter     time.Duration
	HTTPClient        *http.Client
	Breaker           breaker.Settings
}

type destination struct {
	url     string
	limiter *rate.Limiter
}

// Discord posts messages to Discord webhooks. Each destination has its own
// rate limiter; one circuit breaker covers the Discord API.
type Discord struct {
	client        *http.Client
	destinations  map[string]destination
	username      string
	avatarURL     string
	timeout       time.Duration
	maxRetryAfter time.Duration
	breaker       *breaker.Breaker[struct{}]
}

// NewDiscord creates a Discord sink.
func NewDiscord(cfg DiscordConfig) *Discord {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetryAfter <= 0 {
		cfg.MaxRetryAfter = DefaultMaxRetryAfter
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

	dests := make(map[string]destination, len(cfg.Destinations))
	for name, url := range cfg.Destinations {
		if url == "" {
			continue
		}
		if !IsDiscordWebhookURL(url) {
			logging.Warn().Str("destination", name).Msg("Destination URL does not look like a Discord webhook")
		}
		dests[name] = destination{url: url, limiter: rate.NewLimiter(limit, cfg.Burst)}
	}

	return &Discord{
		client:        client,
		destinations:  dests,
		username:      cfg.Username,
		avatarURL:     cfg.AvatarURL,
		timeout:       cfg.Timeout,
		maxRetryAfter: cfg.MaxRetryAfter,
		breaker:       breaker.New[struct{}]("discord-webhook", cfg.Breaker),
	}
}

// IsDiscordWebhookURL reports whether url points at the Discord webhook API.
func IsDiscordWebhookURL(url string) bool {
	return strings.Contains(url, "discord.com/api/webhooks/") ||
		strings.Contains(url, "discordapp.com/api/webhooks/")
}

// Destinations returns the configured destination names, sorted.
func (d *Discord) Destinations() []string {
	names := make([]string, 0, len(d.destinations))
	for name := range d.destinations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether destination is configured.
func (d *Discord) Has(destination string) bool {
	_, ok := d.destinations[destination]
	return ok
}

// Send posts msg to destination. A 429 is waited out once when its
// Retry-After fits within the configured maximum.
func (d *Discord) Send(ctx context.Context, destination string, msg render.Message) error {
	dest, ok := d.destinations[destination]
	if !ok {
		metrics.RecordSinkSend(destination, "not_found", 0)
		return fmt.Errorf("%w: %q", ErrDestinationNotFound, destination)
	}

	if msg.Username == "" {
		msg.Username = d.username
	}
	if msg.AvatarURL == "" {
		msg.AvatarURL = d.avatarURL
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	start := time.Now()
	err = d.post(ctx, destination, dest, payload)

	var se *SendError
	if errors.As(err, &se) && se.Code == ErrorCodeRateLimited && se.RetryAfter > 0 && se.RetryAfter <= d.maxRetryAfter {
		logging.Ctx(ctx).Warn().
			Str("destination", destination).
			Dur("retry_after", se.RetryAfter).
			Msg("Discord rate limited, retrying once")
		select {
		case <-ctx.Done():
			return &SendError{Destination: destination, Code: ErrorCodeTimeout, Message: "context done while rate limited", Err: ctx.Err()}
		case <-time.After(se.RetryAfter):
		}
		err = d.post(ctx, destination, dest, payload)
	}

	switch {
	case err == nil:
		metrics.RecordSinkSend(destination, "success", time.Since(start))
	case errors.As(err, &se) && se.Code == ErrorCodeRateLimited:
		metrics.RecordSinkSend(destination, "rate_limited", time.Since(start))
	default:
		metrics.RecordSinkSend(destination, "failure", time.Since(start))
	}
	return err
}

func (d *Discord) post(ctx context.Context, name string, dest destination, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := dest.limiter.Wait(ctx); err != nil {
		return &SendError{Destination: name, Code: ErrorCodeTimeout, Message: "rate limiter wait", Err: err}
	}

	_, err := d.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, d.do(ctx, name, dest.url, payload)
	})
	if err != nil && breaker.IsOpen(err) {
		return &SendError{Destination: name, Code: ErrorCodeCircuitOpen, Message: "circuit open", Err: err}
	}
	return err
}

func (d *Discord) do(ctx context.Context, name, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &SendError{Destination: name, Code: ErrorCodeUnknown, Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return &SendError{Destination: name, Code: classifyHTTPError(err), Message: "send webhook", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		body = []byte("(failed to read response)")
	}
	se := &SendError{
		Destination: name,
		StatusCode:  resp.StatusCode,
		Code:        classifyHTTPStatusCode(resp.StatusCode),
		Message:     strings.TrimSpace(string(body)),
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		se.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return se
}

// parseRetryAfter reads Discord's Retry-After header, given in seconds and
// possibly fractional.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if seconds, err := strconv.ParseFloat(v, 64); err == nil && seconds > 0 {
		return time.Duration(seconds * float64(time.Second))
	}
	return 0
}
