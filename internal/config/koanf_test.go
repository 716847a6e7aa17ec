// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing file so a config.yaml in the
// working directory cannot leak into the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Chdir(t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 2024 {
		t.Errorf("Server.Port = %d, want 2024", cfg.Server.Port)
	}
	if cfg.Correlation.ItemTTL != 300*time.Second {
		t.Errorf("Correlation.ItemTTL = %v, want 300s", cfg.Correlation.ItemTTL)
	}
	if cfg.Correlation.TitleTTL != 24*time.Hour {
		t.Errorf("Correlation.TitleTTL = %v, want 24h", cfg.Correlation.TitleTTL)
	}
	if cfg.Bus.Transport != "direct" {
		t.Errorf("Bus.Transport = %q, want direct", cfg.Bus.Transport)
	}
	if cfg.Trakt.RatingsInterval != time.Hour {
		t.Errorf("Trakt.RatingsInterval = %v, want 1h", cfg.Trakt.RatingsInterval)
	}
	if cfg.Trakt.FavoritesInterval != 24*time.Hour {
		t.Errorf("Trakt.FavoritesInterval = %v, want 24h", cfg.Trakt.FavoritesInterval)
	}
	if cfg.Webhooks.Plex {
		t.Error("Plex webhook should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"TMDB_API_KEY", "poster.api_key"},
		{"CORRELATION_ITEM_TTL", "correlation.item_ttl"},
		{"DISCORD_WEBHOOK_JELLYFIN_CONTENT", "discord.destinations.jellyfin_content"},
		{"DISCORD_WEBHOOK_", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORRELATION_ITEM_TTL", "120s")
	t.Setenv("DISCORD_WEBHOOK_SONARR", "https://discord.example/api/webhooks/1/abc")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PLEX_WEBHOOK_ENABLED", "true")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Correlation.ItemTTL != 120*time.Second {
		t.Errorf("Correlation.ItemTTL = %v, want 2m", cfg.Correlation.ItemTTL)
	}
	if got := cfg.Discord.Destinations["sonarr"]; got != "https://discord.example/api/webhooks/1/abc" {
		t.Errorf("Discord.Destinations[sonarr] = %q", got)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if !cfg.WebhookEnabled("plex") {
		t.Error("plex webhook should be enabled from env")
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8080
correlation:
  item_ttl: 10m
  title_ttl: 48h
discord:
  destinations:
    jellyfin_content: https://discord.example/api/webhooks/2/def
trakt:
  enabled: true
  client_id: abc
  username: someone
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "8181")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8181 {
		t.Errorf("env should override file: Server.Port = %d, want 8181", cfg.Server.Port)
	}
	if cfg.Correlation.ItemTTL != 10*time.Minute {
		t.Errorf("Correlation.ItemTTL = %v, want 10m", cfg.Correlation.ItemTTL)
	}
	if cfg.Correlation.TitleTTL != 48*time.Hour {
		t.Errorf("Correlation.TitleTTL = %v, want 48h", cfg.Correlation.TitleTTL)
	}
	if !cfg.Trakt.Enabled || cfg.Trakt.Username != "someone" {
		t.Errorf("Trakt = %+v", cfg.Trakt)
	}
	if cfg.Discord.Destinations["jellyfin_content"] == "" {
		t.Error("expected jellyfin_content destination from file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad transport", func(c *Config) { c.Bus.Transport = "kafka" }, "bus.transport"},
		{"title shorter than item", func(c *Config) { c.Correlation.TitleTTL = time.Second }, "title_ttl"},
		{"nats without url", func(c *Config) { c.Bus.Transport = "nats"; c.Bus.NATSURL = "" }, "NATS_URL"},
		{"trakt without client", func(c *Config) { c.Trakt.Enabled = true; c.Trakt.Username = "u" }, "TRAKT_CLIENT_ID"},
		{"trakt without user", func(c *Config) { c.Trakt.Enabled = true; c.Trakt.ClientID = "id" }, "TRAKT_USERNAME"},
		{"bad destination url", func(c *Config) { c.Discord.Destinations["sonarr"] = "nope" }, "destinations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestWebhookEnabled(t *testing.T) {
	cfg := defaultConfig()

	for source, want := range map[string]bool{
		"jellyfin": true,
		"plex":     false,
		"sonarr":   true,
		"radarr":   true,
		"trakt":    true,
		"emby":     false,
	} {
		if got := cfg.WebhookEnabled(source); got != want {
			t.Errorf("WebhookEnabled(%q) = %v, want %v", source, got, want)
		}
	}
}
