package library

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

func TestParse(t *testing.T) {
	tc := []struct {
		name        string
		input       string
		wantTracks  []models.Track
		wantArtists []string
	}{
		{
			name:        "single release",
			input:       `{"releases":[{"artist":"Aphex Twin","favorited_tracks":[{"title":"Windowlicker","track_id":"t1"}]}]}`,
			wantTracks:  []models.Track{{Title: "Windowlicker", Artist: "Aphex Twin", TrackID: "t1"}},
			wantArtists: []string{"Aphex Twin"},
		},
		{
			name: "artists deduplicated in first-seen order",
			input: `{"releases":[
				{"artist":"Boards of Canada","favorited_tracks":[{"title":"Roygbiv","track_id":"a"}]},
				{"artist":"Aphex Twin","favorited_tracks":[]},
				{"artist":"Boards of Canada","favorited_tracks":[{"title":"Dayvan Cowboy","track_id":"b"}]},
				{"artist":"aphex twin"}
			]}`,
			wantTracks: []models.Track{
				{Title: "Roygbiv", Artist: "Boards of Canada", TrackID: "a"},
				{Title: "Dayvan Cowboy", Artist: "Boards of Canada", TrackID: "b"},
			},
			wantArtists: []string{"Boards of Canada", "Aphex Twin", "aphex twin"},
		},
		{
			name: "missing artist defaults to Unknown and is not collected",
			input: `{"releases":[
				{"favorited_tracks":[{"title":"Ghost","track_id":"g"}]},
				{"artist":"","favorited_tracks":[{"title":"Blank","track_id":"h"}]}
			]}`,
			wantTracks: []models.Track{
				{Title: "Ghost", Artist: models.UnknownArtist, TrackID: "g"},
				{Title: "Blank", Artist: models.UnknownArtist, TrackID: "h"},
			},
			wantArtists: []string{},
		},
		{
			name: "malformed entries degrade",
			input: `{"releases":[
				"not a release",
				{"artist":12,"favorited_tracks":[{"title":7,"track_id":99},"nope",{"title":"Ok"}]}
			]}`,
			wantTracks: []models.Track{
				{Title: "", Artist: models.UnknownArtist, TrackID: "99"},
				{Title: "", Artist: models.UnknownArtist, TrackID: ""},
				{Title: "Ok", Artist: models.UnknownArtist, TrackID: ""},
			},
			wantArtists: []string{},
		},
		{
			name: "bad track list keeps the release artist",
			input: `{"releases":[
				{"artist":"Autechre","favorited_tracks":"oops"},
				{"artist":"Air","favorited_tracks":[{"title":"Alone in Kyoto","track_id":"k"}]}
			]}`,
			wantTracks:  []models.Track{{Title: "Alone in Kyoto", Artist: "Air", TrackID: "k"}},
			wantArtists: []string{"Autechre", "Air"},
		},
		{
			name:        "no releases",
			input:       `{}`,
			wantTracks:  []models.Track{},
			wantArtists: []string{},
		},
		{
			name:        "releases not a list",
			input:       `{"releases":"oops"}`,
			wantTracks:  []models.Track{},
			wantArtists: []string{},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(lib.Tracks, tt.wantTracks) {
				t.Errorf("tracks = %+v, want %+v", lib.Tracks, tt.wantTracks)
			}
			if !reflect.DeepEqual(lib.Artists, tt.wantArtists) {
				t.Errorf("artists = %v, want %v", lib.Artists, tt.wantArtists)
			}
		})
	}
}

func TestParseInvalidDocument(t *testing.T) {
	if _, err := Parse([]byte(`[1, 2`)); !errors.Is(err, shared.ErrInvalidLibrary) {
		t.Errorf("expected ErrInvalidLibrary, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("Missing File", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "music.json"))
		if !errors.Is(err, shared.ErrLibraryNotFound) {
			t.Errorf("expected ErrLibraryNotFound, got %v", err)
		}
	})

	t.Run("Existing File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "music.json")
		body := `{"releases":[{"artist":"Aphex Twin","favorited_tracks":[{"title":"Xtal","track_id":"x1"}]}]}`
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("failed to write library: %v", err)
		}

		lib, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if lib.TrackCount() != 1 || lib.ArtistCount() != 1 {
			t.Errorf("unexpected counts: %d tracks, %d artists", lib.TrackCount(), lib.ArtistCount())
		}
	})
}
