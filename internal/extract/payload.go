// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package extract

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mediarelay/internal/models"
)

// Sentinels returned by Payload accessors for absent or wrong-typed fields.
const (
	UnknownString = models.Unknown
	ZeroNumber    = 0
)

var errNotObject = errors.New("payload is not a JSON object")

// Payload is a read-only view over a decoded JSON object. Every accessor is
// total: it never panics and resolves missing data to a sentinel.
type Payload struct {
	fields map[string]any
}

// Decode parses raw into a Payload. The top level must be an object.
func Decode(raw []byte) (Payload, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Payload{}, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Payload{}, errNotObject
	}
	return Payload{fields: m}, nil
}

// NewPayload wraps an already decoded object.
func NewPayload(m map[string]any) Payload {
	return Payload{fields: m}
}

// Has reports whether key is present and not null.
func (p Payload) Has(key string) bool {
	v, ok := p.fields[key]
	return ok && v != nil
}

// Object returns the nested object at key, or an empty Payload.
func (p Payload) Object(key string) Payload {
	if m, ok := p.fields[key].(map[string]any); ok {
		return Payload{fields: m}
	}
	return Payload{}
}

// Objects returns the objects of the list at key. Non-object elements are skipped.
func (p Payload) Objects(key string) []Payload {
	list, ok := p.fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Payload, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Payload{fields: m})
		}
	}
	return out
}

// String returns the string at key, or UnknownString. Blank strings count as absent.
func (p Payload) String(key string) string {
	if s, ok := p.fields[key].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return UnknownString
}

// Strings returns the string elements of the list at key, or an empty list.
func (p Payload) Strings(key string) []string {
	list, ok := p.fields[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CommaList reads key either as a list of strings or as a comma-separated string.
func (p Payload) CommaList(key string) []string {
	if s, ok := p.fields[key].(string); ok {
		out := []string{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return p.Strings(key)
}

// Float returns the number at key, or ZeroNumber. Numeric strings are
// accepted since several tools template numbers into strings.
func (p Payload) Float(key string) float64 {
	switch v := p.fields[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ZeroNumber
		}
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return ZeroNumber
}

// Int returns the number at key truncated to int, or ZeroNumber.
func (p Payload) Int(key string) int {
	return int(p.Float(key))
}

// Int64 returns the number at key truncated to int64, or ZeroNumber.
func (p Payload) Int64(key string) int64 {
	return int64(p.Float(key))
}

// ID returns an identifier that may be encoded as a string or a number.
// Absent identifiers are "", not UnknownString, so they never form a key.
func (p Payload) ID(key string) string {
	switch v := p.fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) && v > 0 {
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

// Time parses an RFC 3339 timestamp or a bare YYYY-MM-DD date. The zero
// time is returned when absent or unparsable.
func (p Payload) Time(key string) time.Time {
	s, ok := p.fields[key].(string)
	if !ok {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if len(s) >= 10 {
		if t, err := time.Parse(time.DateOnly, s[:10]); err == nil {
			return t
		}
	}
	return time.Time{}
}
