// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package extract

import (
	"testing"
	"time"
)

const accessorFixture = `{
	"name": "Dune",
	"blank": "   ",
	"year": 1984,
	"year_str": "1984",
	"bad_num": "x",
	"flag": true,
	"genres": ["Sci-Fi", 3, "", "Adventure"],
	"csv": "Drama, Crime ,",
	"nested": {"id": 42, "slug": "dune-1984"},
	"objs": [{"a": 1}, "skip", {"a": 2}],
	"null": null,
	"date": "2026-01-15T20:00:00.0000000Z",
	"bare_date": "1984-12-14",
	"bad_date": "soon"
}`

func TestPayloadSentinels(t *testing.T) {
	t.Parallel()

	p, err := Decode([]byte(accessorFixture))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if UnknownString != "Unknown" {
		t.Errorf("UnknownString = %q", UnknownString)
	}
	if ZeroNumber != 0 {
		t.Errorf("ZeroNumber = %v", ZeroNumber)
	}

	stringTests := map[string]string{
		"name":    "Dune",
		"blank":   UnknownString,
		"missing": UnknownString,
		"year":    UnknownString,
		"flag":    UnknownString,
		"null":    UnknownString,
	}
	for key, want := range stringTests {
		if got := p.String(key); got != want {
			t.Errorf("String(%q) = %q, want %q", key, got, want)
		}
	}

	intTests := map[string]int{
		"year":     1984,
		"year_str": 1984,
		"bad_num":  ZeroNumber,
		"flag":     ZeroNumber,
		"missing":  ZeroNumber,
		"name":     ZeroNumber,
	}
	for key, want := range intTests {
		if got := p.Int(key); got != want {
			t.Errorf("Int(%q) = %d, want %d", key, got, want)
		}
	}

	if got := p.Strings("genres"); len(got) != 2 || got[0] != "Sci-Fi" || got[1] != "Adventure" {
		t.Errorf("Strings(genres) = %v", got)
	}
	if got := p.Strings("missing"); got == nil || len(got) != 0 {
		t.Errorf("Strings(missing) = %#v, want empty non-nil list", got)
	}
	if got := p.CommaList("csv"); len(got) != 2 || got[1] != "Crime" {
		t.Errorf("CommaList(csv) = %v", got)
	}
	if got := p.CommaList("genres"); len(got) != 2 {
		t.Errorf("CommaList on a list = %v", got)
	}
}

func TestPayloadNesting(t *testing.T) {
	t.Parallel()

	p, err := Decode([]byte(accessorFixture))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	nested := p.Object("nested")
	if got := nested.ID("id"); got != "42" {
		t.Errorf("ID(id) = %q, want 42", got)
	}
	if got := nested.ID("slug"); got != "dune-1984" {
		t.Errorf("ID(slug) = %q", got)
	}
	if got := p.Object("missing").Object("deeper").String("x"); got != UnknownString {
		t.Errorf("chained missing objects = %q", got)
	}
	if got := p.Object("name").Int("x"); got != 0 {
		t.Errorf("Object on a string should be empty, got %d", got)
	}
	if got := p.Objects("objs"); len(got) != 2 || got[1].Int("a") != 2 {
		t.Errorf("Objects(objs) = %v", got)
	}
	if p.Has("null") || p.Has("missing") || !p.Has("name") {
		t.Error("Has() mismatch")
	}
}

func TestPayloadTime(t *testing.T) {
	t.Parallel()

	p, err := Decode([]byte(accessorFixture))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got := p.Time("date"); !got.Equal(time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)) {
		t.Errorf("Time(date) = %v", got)
	}
	if got := p.Time("bare_date"); got.Format(time.DateOnly) != "1984-12-14" {
		t.Errorf("Time(bare_date) = %v", got)
	}
	if !p.Time("bad_date").IsZero() || !p.Time("missing").IsZero() {
		t.Error("unparsable or missing dates should be zero")
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"[]", "1", "null", `"x"`} {
		if _, err := Decode([]byte(body)); err == nil {
			t.Errorf("Decode(%s) should fail", body)
		}
	}
}
