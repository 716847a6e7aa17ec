// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

// Package config loads Mediarelay configuration with Koanf v2.
//
// Sources, lowest to highest precedence:
//
//  1. Built-in defaults (defaultConfig)
//  2. YAML file from CONFIG_PATH or DefaultConfigPaths
//  3. Environment variables, mapped explicitly in envMappings
//
// Discord destinations are a map and can be set per name from the
// environment:
//
//	DISCORD_WEBHOOK_JELLYFIN_CONTENT=https://discord.com/api/webhooks/...
//
// or in YAML:
//
//	discord:
//	  destinations:
//	    jellyfin_content: https://discord.com/api/webhooks/...
//	    sonarr: https://discord.com/api/webhooks/...
//
// Validation uses validator tags on the config structs plus a few
// cross-field checks in Validate.
package config
