// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package extract

import (
	"fmt"

	"github.com/tomtom215/mediarelay/internal/models"
)

// Reason classifies why a payload produced no event.
type Reason int

const (
	ReasonUnsupportedType Reason = iota + 1
	ReasonMissingKey
	ReasonMalformedPayload
	ReasonUnknownEvent
)

func (r Reason) String() string {
	switch r {
	case ReasonUnsupportedType:
		return "unsupported_type"
	case ReasonMissingKey:
		return "missing_key"
	case ReasonMalformedPayload:
		return "malformed_payload"
	case ReasonUnknownEvent:
		return "unknown_event"
	default:
		return "unknown"
	}
}

// Failure is an expected extraction outcome: the event is dropped and the
// webhook still answers 200.
type Failure struct {
	Reason Reason
	Source models.Source
	Detail string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s extraction failed (%s): %s", f.Source, f.Reason, f.Detail)
}

func fail(source models.Source, reason Reason, format string, args ...any) *Failure {
	return &Failure{Reason: reason, Source: source, Detail: fmt.Sprintf(format, args...)}
}
