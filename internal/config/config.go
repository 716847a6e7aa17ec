// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package config

import (
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Webhooks    WebhooksConfig    `koanf:"webhooks"`
	Correlation CorrelationConfig `koanf:"correlation"`
	Poster      PosterConfig      `koanf:"poster"`
	Discord     DiscordConfig     `koanf:"discord"`
	Bus         BusConfig         `koanf:"bus"`
	Trakt       TraktConfig       `koanf:"trakt"`
	Security    SecurityConfig    `koanf:"security"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// WebhooksConfig toggles the inbound endpoints. A disabled source answers 404.
type WebhooksConfig struct {
	Jellyfin bool `koanf:"jellyfin"`
	Plex     bool `koanf:"plex"`
	Sonarr   bool `koanf:"sonarr"`
	Radarr   bool `koanf:"radarr"`
	Trakt    bool `koanf:"trakt"`

	// Secret, when set, must match the X-Webhook-Secret header.
	Secret string `koanf:"secret"`

	// MaxBodyBytes bounds a single webhook body.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"gt=0"`
}

// CorrelationConfig holds the correlation cache and duplicate guard windows.
type CorrelationConfig struct {
	ItemTTL       time.Duration `koanf:"item_ttl" validate:"gt=0"`
	TitleTTL      time.Duration `koanf:"title_ttl" validate:"gt=0"`
	SweepInterval time.Duration `koanf:"sweep_interval" validate:"gt=0"`

	// MaxTitles caps the duplicate guard; the least recently seen title is evicted first.
	MaxTitles int `koanf:"max_titles" validate:"min=1"`
}

// PosterConfig configures TMDb poster lookups. Lookups are skipped when APIKey is empty.
type PosterConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url" validate:"required,url"`
	ImageBaseURL      string        `koanf:"image_base_url" validate:"required,url"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int           `koanf:"burst" validate:"min=1"`

	// CachePath enables the badger-backed poster URL cache when set.
	CachePath string `koanf:"cache_path"`
}

// DiscordConfig maps destination names to Discord webhook URLs.
type DiscordConfig struct {
	Destinations      map[string]string `koanf:"destinations" validate:"dive,keys,required,endkeys,url"`
	Username          string            `koanf:"username"`
	AvatarURL         string            `koanf:"avatar_url" validate:"omitempty,url"`
	Timeout           time.Duration     `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64           `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int               `koanf:"burst" validate:"min=1"`
}

// BusConfig selects how rendered messages reach the sink.
type BusConfig struct {
	// Transport: direct (inline send), memory (watermill GoChannel) or nats.
	Transport    string        `koanf:"transport" validate:"oneof=direct memory nats"`
	NATSURL      string        `koanf:"nats_url"`
	Topic        string        `koanf:"topic" validate:"required"`
	CloseTimeout time.Duration `koanf:"close_timeout" validate:"gt=0"`
}

// TraktConfig configures the activity feed poller.
type TraktConfig struct {
	Enabled           bool          `koanf:"enabled"`
	ClientID          string        `koanf:"client_id"`
	Username          string        `koanf:"username"`
	APIURL            string        `koanf:"api_url" validate:"required,url"`
	RatingsInterval   time.Duration `koanf:"ratings_interval" validate:"gt=0"`
	FavoritesInterval time.Duration `koanf:"favorites_interval" validate:"gt=0"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
}

// SecurityConfig holds inbound rate limiting and CORS.
type SecurityConfig struct {
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            2024,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Webhooks: WebhooksConfig{
			Jellyfin:     true,
			Plex:         false,
			Sonarr:       true,
			Radarr:       true,
			Trakt:        true,
			MaxBodyBytes: 1 << 20,
		},
		Correlation: CorrelationConfig{
			ItemTTL:       300 * time.Second,
			TitleTTL:      24 * time.Hour,
			SweepInterval: time.Minute,
			MaxTitles:     10000,
		},
		Poster: PosterConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			ImageBaseURL:      "https://image.tmdb.org/t/p/original",
			Timeout:           5 * time.Second,
			RequestsPerSecond: 20,
			Burst:             20,
		},
		Discord: DiscordConfig{
			Destinations:      map[string]string{},
			Username:          "Mediarelay",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 0.5,
			Burst:             5,
		},
		Bus: BusConfig{
			Transport:    "direct",
			NATSURL:      "nats://127.0.0.1:4222",
			Topic:        "relay.outbound",
			CloseTimeout: 10 * time.Second,
		},
		Trakt: TraktConfig{
			Enabled:           false,
			APIURL:            "https://api.trakt.tv",
			RatingsInterval:   time.Hour,
			FavoritesInterval: 24 * time.Hour,
			Timeout:           10 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
		},
	}
}

// Load reads configuration with precedence env > file > defaults and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
