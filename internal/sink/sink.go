// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/mediarelay/internal/render"
)

// Sink delivers a rendered message to a named destination.
type Sink interface {
	Send(ctx context.Context, destination string, msg render.Message) error
}

// Func adapts a function to Sink.
type Func func(ctx context.Context, destination string, msg render.Message) error

// Send calls f.
func (f Func) Send(ctx context.Context, destination string, msg render.Message) error {
	return f(ctx, destination, msg)
}

// ErrDestinationNotFound is returned for a destination with no configured
// webhook. Callers log and drop; it is never retried.
var ErrDestinationNotFound = errors.New("destination not found")

// Error codes for failed deliveries.
const (
	ErrorCodeConnectionFailed = "CONNECTION_FAILED"
	ErrorCodeAuthFailed       = "AUTH_FAILED"
	ErrorCodeRateLimited      = "RATE_LIMITED"
	ErrorCodeContentTooLarge  = "CONTENT_TOO_LARGE"
	ErrorCodeNotFound         = "WEBHOOK_NOT_FOUND"
	ErrorCodeBadRequest       = "BAD_REQUEST"
	ErrorCodeServerError      = "SERVER_ERROR"
	ErrorCodeTimeout          = "TIMEOUT"
	ErrorCodeCircuitOpen      = "CIRCUIT_OPEN"
	ErrorCodeUnknown          = "UNKNOWN"
)

// SendError describes a failed delivery.
type SendError struct {
	Destination string
	StatusCode  int
	Code        string
	Message     string
	RetryAfter  time.Duration
	Err         error
}

func (e *SendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("send to %s: %s (status %d): %s", e.Destination, e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("send to %s: %s: %s", e.Destination, e.Code, e.Message)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure may succeed later.
func (e *SendError) Transient() bool {
	switch e.Code {
	case ErrorCodeConnectionFailed, ErrorCodeTimeout, ErrorCodeRateLimited, ErrorCodeServerError, ErrorCodeCircuitOpen:
		return true
	default:
		return false
	}
}

// classifyHTTPError classifies a transport error into an error code.
func classifyHTTPError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeTimeout
	}
	errStr := err.Error()
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline") {
		return ErrorCodeTimeout
	}
	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "refused") {
		return ErrorCodeConnectionFailed
	}
	return ErrorCodeUnknown
}

// classifyHTTPStatusCode classifies an HTTP status code into an error code.
func classifyHTTPStatusCode(code int) string {
	switch {
	case code == 401 || code == 403:
		return ErrorCodeAuthFailed
	case code == 404:
		return ErrorCodeNotFound
	case code == 429:
		return ErrorCodeRateLimited
	case code == 413:
		return ErrorCodeContentTooLarge
	case code >= 500:
		return ErrorCodeServerError
	case code >= 400:
		return ErrorCodeBadRequest
	default:
		return ErrorCodeUnknown
	}
}
