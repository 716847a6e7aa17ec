// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

// Package validation wraps go-playground/validator v10 behind a singleton
// instance with readable error messages.
//
// Field names in messages use the koanf tag when present, so a failure on
// Config.Server.Port reads "port must be at most 65535" and matches the key
// an operator writes in config.yaml.
//
//	type CorrelationConfig struct {
//	    ItemTTL time.Duration `koanf:"item_ttl" validate:"gt=0"`
//	}
//
//	if err := validation.ValidateStruct(&cfg); err != nil {
//	    return err
//	}
package validation
