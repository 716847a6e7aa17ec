// Mediarelay - Media Server Notification Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediarelay

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/mediarelay/internal/models"
)

func embedOf(t *testing.T, m Message) Embed {
	t.Helper()
	if len(m.Embeds) != 1 {
		t.Fatalf("got %d embeds, want 1", len(m.Embeds))
	}
	return m.Embeds[0]
}

func field(e Embed, name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func TestSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bytes int64
		want  string
	}{
		{0, ""},
		{1 << 20, "1.00MB"},
		{734003200, "700.00MB"},
		{1 << 30, "1.00GB"},
		{4617089843, "4.30GB"},
	}
	for _, tt := range tests {
		if got := Size(tt.bytes); got != tt.want {
			t.Errorf("Size(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestTrailer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		trailers []models.Link
		want     string
	}{
		{"none", nil, ""},
		{"official wins", []models.Link{{Name: "Teaser", URL: "a"}, {Name: "Trailer 2", URL: "b"}, {Name: "Official Trailer", URL: "c"}}, "c"},
		{"contains trailer", []models.Link{{Name: "Teaser", URL: "a"}, {Name: "Final Trailer", URL: "b"}}, "b"},
		{"first otherwise", []models.Link{{Name: "Teaser", URL: "a"}, {Name: "Clip", URL: "b"}}, "a"},
	}
	for _, tt := range tests {
		got, ok := Trailer(tt.trailers)
		if ok != (tt.want != "") || got.URL != tt.want {
			t.Errorf("%s: Trailer() = %+v, %v", tt.name, got, ok)
		}
	}
}

func TestLinksOrder(t *testing.T) {
	t.Parallel()

	m := models.Media{
		Type: models.MediaMovie,
		Links: []models.Link{
			{Name: "Trakt", URL: "https://trakt.tv/movies/dune"},
			{Name: "TheTVDB", URL: "https://thetvdb.com/x"},
			{Name: "TheMovieDb", URL: "https://www.themoviedb.org/movie/841"},
			{Name: "IMDb", URL: "https://www.imdb.com/title/tt0087182"},
		},
		Trailers: []models.Link{{Name: "Official Trailer", URL: "https://youtube.com/watch?v=1"}},
	}
	want := "[IMDb](https://www.imdb.com/title/tt0087182) • [TMDb](https://www.themoviedb.org/movie/841) • " +
		"[Trakt](https://trakt.tv/movies/dune) • [YouTube](https://youtube.com/watch?v=1)"
	if got := Links(m); got != want {
		t.Errorf("Links() =\n%s\nwant\n%s", got, want)
	}

	m.Type = models.MediaEpisode
	if strings.Contains(Links(m), "YouTube") {
		t.Error("trailers are only linked for movies")
	}
}

func TestLinksFromIDs(t *testing.T) {
	t.Parallel()

	m := models.Media{Type: models.MediaEpisode, SeriesIDs: models.ProviderIDs{IMDb: "tt1", TMDb: "77"}}
	want := "[IMDb](https://www.imdb.com/title/tt1) • [TMDb](https://www.themoviedb.org/tv/77)"
	if got := Links(m); got != want {
		t.Errorf("Links() = %q, want %q", got, want)
	}
}

func TestContentFooter(t *testing.T) {
	t.Parallel()

	movie := models.Media{Type: models.MediaMovie, Genres: []string{"Science Fiction", "Adventure"}, RuntimeSeconds: 8220}
	if got := ContentFooter(movie); got != "Science Fiction, Adventure • 137 min" {
		t.Errorf("movie footer = %q", got)
	}

	episode := models.Media{Type: models.MediaEpisode, PremiereDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)}
	if got := ContentFooter(episode); got != "Aired on 09/03/2026" {
		t.Errorf("episode footer = %q", got)
	}

	if got := ContentFooter(models.Media{Type: models.MediaMovie}); got != "" {
		t.Errorf("empty footer = %q", got)
	}
}

func TestPlotSpoilers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mediaType models.MediaType
		want      string
	}{
		{models.MediaEpisode, "||plot||"},
		{models.MediaShow, "||plot||"},
		{models.MediaMovie, "plot"},
		{models.MediaSeason, "plot"},
	}
	for _, tt := range tests {
		if got := Plot(models.Media{Type: tt.mediaType, Overview: "plot"}); got != tt.want {
			t.Errorf("Plot(%s) = %q, want %q", tt.mediaType, got, tt.want)
		}
	}
	if got := Plot(models.Media{Type: models.MediaEpisode, Overview: models.Unknown}); got != "" {
		t.Errorf("unknown overview rendered as %q", got)
	}
}

func TestPlaybackJellyfin(t *testing.T) {
	t.Parallel()

	ev := models.NormalizedEvent{
		Source: models.SourceJellyfin,
		Kind:   models.KindPaused,
		Media: models.Media{
			Type: models.MediaMovie, Title: "Dune", Year: 1984,
			Links:     []models.Link{{Name: "IMDb", URL: "https://www.imdb.com/title/tt0087182"}},
			PosterURL: "https://image.tmdb.org/t/p/original/dune.jpg",
		},
		Actor:      &models.Actor{Username: "alice", PlayMethod: "Direct Play", Client: "Jellyfin Web"},
		ReceivedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	e := embedOf(t, Playback(ev))

	if e.Author == nil || e.Author.Name != "Paused on Jellyfin" {
		t.Errorf("Author = %+v", e.Author)
	}
	if e.Color != ColorPaused {
		t.Errorf("Color = %#x", e.Color)
	}
	if e.Title != "Dune (1984)" || e.URL != "https://www.imdb.com/title/tt0087182" {
		t.Errorf("Title/URL = %q %q", e.Title, e.URL)
	}
	if e.Footer == nil || e.Footer.Text != "alice • Direct Play • Jellyfin Web" {
		t.Errorf("Footer = %+v", e.Footer)
	}
	if e.Thumbnail == nil || e.Thumbnail.URL != ev.Media.PosterURL {
		t.Errorf("Thumbnail = %+v", e.Thumbnail)
	}
	if e.Timestamp != "2026-01-01T12:00:00Z" {
		t.Errorf("Timestamp = %q", e.Timestamp)
	}
}

func TestPlaybackPlexStopped(t *testing.T) {
	t.Parallel()

	ev := models.NormalizedEvent{
		Source: models.SourcePlex,
		Kind:   models.KindFinished,
		Media:  models.Media{Type: models.MediaEpisode, SeriesTitle: "ShowName", Title: "Pilot", Season: 1, Episode: 1, URL: "https://app.plex.tv/x"},
	}
	e := embedOf(t, Playback(ev))
	if e.Author.Name != "Stopped on Plex" || e.Color != ColorPlex || e.URL != "https://app.plex.tv/x" {
		t.Errorf("embed = %+v", e)
	}
	if e.Footer != nil {
		t.Errorf("footer without actor should be dropped, got %+v", e.Footer)
	}
}

func TestNewContentJellyfinEpisode(t *testing.T) {
	t.Parallel()

	ev := models.NormalizedEvent{
		Source: models.SourceJellyfin,
		Kind:   models.KindContentUpdated,
		Media: models.Media{
			Type: models.MediaEpisode, SeriesTitle: "ShowName", Title: "EpisodeName", Season: 1, Episode: 5,
			Overview:     "Things happen.",
			PremiereDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	e := embedOf(t, NewContent(ev))

	if e.Title != "ShowName - EpisodeName (S01E05)" {
		t.Errorf("Title = %q", e.Title)
	}
	if e.Author.Name != "New Episode added to Jellyfin" || e.Color != ColorJellyfin {
		t.Errorf("Author/Color = %q %#x", e.Author.Name, e.Color)
	}
	if f, ok := field(e, "Plot"); !ok || f.Value != "||Things happen.||" {
		t.Errorf("Plot field = %+v", f)
	}
	if _, ok := field(e, "Links"); ok {
		t.Error("empty Links field should be omitted")
	}
	if e.Footer == nil || e.Footer.Text != "Aired on 01/02/2026" {
		t.Errorf("Footer = %+v", e.Footer)
	}
}

func TestNewContentPlexSeason(t *testing.T) {
	t.Parallel()

	ev := models.NormalizedEvent{
		Source: models.SourcePlex,
		Kind:   models.KindContentAdded,
		Media:  models.Media{Type: models.MediaSeason, SeriesTitle: "ShowName", Season: 2, EpisodeCount: 8, Overview: "Season plot"},
	}
	e := embedOf(t, NewContent(ev))
	if e.Title != "ShowName - Season 02" || e.Color != ColorPlex || e.Description != "Season plot" {
		t.Errorf("embed = %+v", e)
	}
	if f, ok := field(e, "Episodes"); !ok || f.Value != "8" {
		t.Errorf("Episodes field = %+v", f)
	}
}

func TestGrab(t *testing.T) {
	t.Parallel()

	ev := models.NormalizedEvent{
		Source: models.SourceSonarr,
		Kind:   models.KindGrab,
		Media:  models.Media{Type: models.MediaSeason, SeriesTitle: "ShowName", Season: 3, EpisodeCount: 10},
		Release: &models.Release{
			Title: "ShowName.S03.1080p.WEB", Quality: "WEBDL-1080p", SizeBytes: 3 << 30, Indexer: "Indexer",
			CustomFormatScore: 25, CustomFormats: []string{"x265", "DV"},
		},
	}
	e := embedOf(t, Grab(ev))

	if e.Title != "ShowName (Season 03)" {
		t.Errorf("Title = %q", e.Title)
	}
	if e.Description != "```ShowName.S03.1080p.WEB```" {
		t.Errorf("Description = %q", e.Description)
	}
	if f, ok := field(e, "Custom Formats"); !ok || f.Value != "```Score: 25\nFormat: x265, DV```" {
		t.Errorf("Custom Formats = %+v", f)
	}
	if e.Footer.Text != "WEBDL-1080p • 3.00GB • Indexer" {
		t.Errorf("Footer = %q", e.Footer.Text)
	}
	if e.Author.Name != "A new grab by Sonarr" || e.Color != ColorGrab {
		t.Errorf("Author/Color = %q %#x", e.Author.Name, e.Color)
	}
}

func TestArrTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		media models.Media
		want  string
	}{
		{models.Media{Type: models.MediaEpisode, SeriesTitle: "ShowName", Season: 1, Episode: 5}, "ShowName (S01E05)"},
		{models.Media{Type: models.MediaSeason, SeriesTitle: "ShowName", Season: 1}, "ShowName (Season 01)"},
		{models.Media{Type: models.MediaMovie, Title: "Dune", Year: 2021}, "Dune (2021)"},
	}
	for _, tt := range tests {
		if got := ArrTitle(tt.media); got != tt.want {
			t.Errorf("ArrTitle() = %q, want %q", got, tt.want)
		}
	}
}

func TestDownloadWithoutRelease(t *testing.T) {
	t.Parallel()

	ev := models.NormalizedEvent{Source: models.SourceRadarr, Kind: models.KindDownload, Media: models.Media{Type: models.MediaMovie, Title: "Dune", Year: 2021}}
	e := embedOf(t, Download(ev))
	if e.Description != "A download event has occurred." || e.Author.Name != "Imported by Radarr" {
		t.Errorf("embed = %+v", e)
	}
}

func TestAppUpdateAndTest(t *testing.T) {
	t.Parallel()

	update := models.NormalizedEvent{
		Source: models.SourceRadarr,
		Kind:   models.KindAppUpdate,
		Event:  "ApplicationUpdate",
		App:    &models.App{Instance: "Radarr 4K", PreviousVersion: "5.1.0", NewVersion: "5.2.0"},
	}
	e := embedOf(t, AppUpdate(update))
	if e.Author.Name != "Radarr 4K - ApplicationUpdate" {
		t.Errorf("Author = %q", e.Author.Name)
	}
	if f, _ := field(e, "Old Version"); f.Value != "5.1.0" {
		t.Errorf("Old Version = %q", f.Value)
	}
	if f, _ := field(e, "New Version"); f.Value != "5.2.0" {
		t.Errorf("New Version = %q", f.Value)
	}

	test := models.NormalizedEvent{Source: models.SourceSonarr, Kind: models.KindTest, Event: "Test", App: &models.App{Instance: "Sonarr"}}
	e = embedOf(t, Test(test))
	if e.Description != "This is a test event from Sonarr, it was a success!" || e.Color != ColorTest {
		t.Errorf("embed = %+v", e)
	}
}

func TestTrakt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ev         models.NormalizedEvent
		wantTitle  string
		wantAuthor string
		wantRating bool
	}{
		{
			name: "episode rating",
			ev: models.NormalizedEvent{
				Kind:   models.KindRated,
				Media:  models.Media{Type: models.MediaEpisode, SeriesTitle: "ShowName", Title: "EpisodeName", Season: 1, Episode: 5},
				Rating: &models.Rating{Value: 9, Username: "bob"},
			},
			wantTitle:  "ShowName - S01E05",
			wantAuthor: "Trakt: An episode has been rated",
			wantRating: true,
		},
		{
			name: "show favorite",
			ev: models.NormalizedEvent{
				Kind:   models.KindFavorited,
				Media:  models.Media{Type: models.MediaShow, Title: "ShowName"},
				Rating: &models.Rating{Username: "bob"},
			},
			wantTitle:  "ShowName",
			wantAuthor: "Trakt: A show has been favorited",
		},
		{
			name: "movie rating",
			ev: models.NormalizedEvent{
				Kind:   models.KindRated,
				Media:  models.Media{Type: models.MediaMovie, Title: "Dune", Year: 1984},
				Rating: &models.Rating{Value: 7, Username: "bob"},
			},
			wantTitle:  "Dune (1984)",
			wantAuthor: "Trakt: A movie has been rated",
			wantRating: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.ev.Source = models.SourceTrakt
			e := embedOf(t, Trakt(tt.ev))
			if e.Title != tt.wantTitle || e.Author.Name != tt.wantAuthor || e.Color != ColorTrakt {
				t.Errorf("embed = %+v", e)
			}
			if f, ok := field(e, "User"); !ok || f.Value != "[bob](https://trakt.tv/users/bob)" {
				t.Errorf("User = %+v", f)
			}
			_, hasRating := field(e, "Rating")
			if hasRating != tt.wantRating {
				t.Errorf("Rating field present = %v", hasRating)
			}
		})
	}
}

func TestMinimal(t *testing.T) {
	t.Parallel()

	e := embedOf(t, Minimal(models.NormalizedEvent{Source: models.SourceSonarr, Kind: models.KindRated, Media: models.Media{Title: models.Unknown}}))
	if e.Title != "Sonarr" || e.Description != "A rated event was received from Sonarr." {
		t.Errorf("embed = %+v", e)
	}
}

func TestTruncatesLongDescription(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", maxDescription+10)
	msg := single(models.NormalizedEvent{}, Embed{Description: long})
	if n := len([]rune(msg.Embeds[0].Description)); n != maxDescription {
		t.Errorf("description length = %d, want %d", n, maxDescription)
	}
}
