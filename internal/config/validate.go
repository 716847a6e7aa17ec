// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package config

import (
	"fmt"

	"github.com/tomtom215/mediarelay/internal/validation"
)

// Validate runs struct tag rules, then the cross-field checks tags cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	if err := c.validateCorrelation(); err != nil {
		return err
	}
	if err := c.validateBus(); err != nil {
		return err
	}
	return c.validateTrakt()
}

func (c *Config) validateCorrelation() error {
	if c.Correlation.TitleTTL < c.Correlation.ItemTTL {
		return fmt.Errorf("correlation.title_ttl (%s) must not be shorter than correlation.item_ttl (%s)",
			c.Correlation.TitleTTL, c.Correlation.ItemTTL)
	}
	return nil
}

func (c *Config) validateBus() error {
	if c.Bus.Transport == "nats" && c.Bus.NATSURL == "" {
		return fmt.Errorf("NATS_URL is required when BUS_TRANSPORT=nats")
	}
	return nil
}

func (c *Config) validateTrakt() error {
	if !c.Trakt.Enabled {
		return nil
	}
	if c.Trakt.ClientID == "" {
		return fmt.Errorf("TRAKT_CLIENT_ID is required when TRAKT_ENABLED=true")
	}
	if c.Trakt.Username == "" {
		return fmt.Errorf("TRAKT_USERNAME is required when TRAKT_ENABLED=true")
	}
	return nil
}

// WebhookEnabled reports whether the inbound endpoint for source is on.
func (c *Config) WebhookEnabled(source string) bool {
	switch source {
	case "jellyfin":
		return c.Webhooks.Jellyfin
	case "plex":
		return c.Webhooks.Plex
	case "sonarr":
		return c.Webhooks.Sonarr
	case "radarr":
		return c.Webhooks.Radarr
	case "trakt":
		return c.Webhooks.Trakt
	default:
		return false
	}
}
