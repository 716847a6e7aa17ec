// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package correlation

import "github.com/tomtom215/mediarelay/internal/models"

// Role is how an event takes part in correlation.
type Role int

const (
	// RoleBypass skips both the pending map and the duplicate guard.
	RoleBypass Role = iota
	// RoleSingle passes only the duplicate guard.
	RoleSingle
	// RolePrimary opens a pending entry and waits for its secondary.
	RolePrimary
	// RoleSecondary completes a pending entry.
	RoleSecondary
	// RoleIgnored is dropped outright.
	RoleIgnored
)

func (r Role) String() string {
	switch r {
	case RoleBypass:
		return "bypass"
	case RoleSingle:
		return "single"
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	case RoleIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// RoleOf assigns the correlation role. Only Jellyfin has a two-phase
// protocol: ItemAdded is announced before metadata is fetched, and the
// ItemUpdated carrying MetadataDownload completes it. Every other source
// sends complete content events once.
func RoleOf(ev models.NormalizedEvent) Role {
	if !ev.Kind.IsContent() {
		return RoleBypass
	}
	if ev.Source != models.SourceJellyfin {
		return RoleSingle
	}
	switch ev.Kind {
	case models.KindContentAdded:
		return RolePrimary
	case models.KindContentUpdated:
		if ev.MetadataReady {
			return RoleSecondary
		}
		return RoleIgnored
	default:
		return RoleSingle
	}
}
