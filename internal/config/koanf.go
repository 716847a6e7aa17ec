// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mediarelay/config.yaml",
	"/etc/mediarelay/config.yml",
}

// ConfigPathEnvVar names an explicit config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// discordWebhookEnvPrefix maps DISCORD_WEBHOOK_<NAME> to discord.destinations.<name>.
const discordWebhookEnvPrefix = "discord_webhook_"

// LoadWithKoanf layers defaults, an optional YAML file and environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"jellyfin_webhook_enabled": "webhooks.jellyfin",
	"plex_webhook_enabled":     "webhooks.plex",
	"sonarr_webhook_enabled":   "webhooks.sonarr",
	"radarr_webhook_enabled":   "webhooks.radarr",
	"trakt_webhook_enabled":    "webhooks.trakt",
	"webhook_secret":           "webhooks.secret",
	"webhook_max_body_bytes":   "webhooks.max_body_bytes",

	"correlation_item_ttl":       "correlation.item_ttl",
	"correlation_title_ttl":      "correlation.title_ttl",
	"correlation_sweep_interval": "correlation.sweep_interval",
	"correlation_max_titles":     "correlation.max_titles",

	"tmdb_api_key":        "poster.api_key",
	"tmdb_base_url":       "poster.base_url",
	"tmdb_image_base_url": "poster.image_base_url",
	"tmdb_timeout":        "poster.timeout",
	"tmdb_rate_limit":     "poster.requests_per_second",
	"tmdb_burst":          "poster.burst",
	"poster_cache_path":   "poster.cache_path",

	"discord_username":   "discord.username",
	"discord_avatar_url": "discord.avatar_url",
	"discord_timeout":    "discord.timeout",
	"discord_rate_limit": "discord.requests_per_second",
	"discord_burst":      "discord.burst",

	"bus_transport":     "bus.transport",
	"nats_url":          "bus.nats_url",
	"bus_topic":         "bus.topic",
	"bus_close_timeout": "bus.close_timeout",

	"trakt_enabled":            "trakt.enabled",
	"trakt_client_id":          "trakt.client_id",
	"trakt_username":           "trakt.username",
	"trakt_api_url":            "trakt.api_url",
	"trakt_ratings_interval":   "trakt.ratings_interval",
	"trakt_favorites_interval": "trakt.favorites_interval",
	"trakt_timeout":            "trakt.timeout",

	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unknown variables return "" and are ignored.
//
//	HTTP_PORT                         -> server.port
//	TMDB_API_KEY                      -> poster.api_key
//	DISCORD_WEBHOOK_JELLYFIN_CONTENT  -> discord.destinations.jellyfin_content
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if name, ok := strings.CutPrefix(key, discordWebhookEnvPrefix); ok && name != "" {
		return "discord.destinations." + name
	}
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
