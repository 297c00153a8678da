// package library reads the local favorited-tracks document.
//
// The document has the shape
//
//	{"releases": [{"artist": "...", "favorited_tracks": [{"title": "...", "track_id": "..."}]}]}
//
// Entries that do not match this shape degrade to absent fields instead of failing the load:
// a release that is not an object contributes nothing, a non-string title becomes "", and a
// track_id may be a string or a number.
package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

type document struct {
	Releases json.RawMessage `json:"releases"`
}

type release struct {
	Artist          json.RawMessage `json:"artist"`
	FavoritedTracks json.RawMessage `json:"favorited_tracks"`
}

type favoritedTrack struct {
	Title   json.RawMessage `json:"title"`
	TrackID json.RawMessage `json:"track_id"`
}

// Load reads the library document at path.
//
// Returns [shared.ErrLibraryNotFound] when the file does not exist.
func Load(path string) (*models.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", shared.ErrLibraryNotFound, path)
		}
		return nil, fmt.Errorf("failed to read library: %w", err)
	}

	return Parse(data)
}

// Parse derives the track list and unique artist set from a library document.
func Parse(data []byte) (*models.Library, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidLibrary, err)
	}

	var releases []json.RawMessage
	if err := json.Unmarshal(doc.Releases, &releases); err != nil {
		releases = nil
	}

	lib := &models.Library{Tracks: []models.Track{}, Artists: []string{}}
	seen := make(map[string]struct{})

	for _, raw := range releases {
		var rel release
		if err := json.Unmarshal(raw, &rel); err != nil {
			continue
		}

		name, ok := stringValue(rel.Artist)
		if ok && name != "" {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				lib.Artists = append(lib.Artists, name)
			}
		} else {
			name = models.UnknownArtist
		}

		var tracks []json.RawMessage
		if err := json.Unmarshal(rel.FavoritedTracks, &tracks); err != nil {
			tracks = nil
		}

		for _, rawTrack := range tracks {
			var ft favoritedTrack
			if err := json.Unmarshal(rawTrack, &ft); err != nil {
				ft = favoritedTrack{}
			}
			title, _ := stringValue(ft.Title)
			lib.Tracks = append(lib.Tracks, models.Track{
				Title:   title,
				Artist:  name,
				TrackID: idValue(ft.TrackID),
			})
		}
	}

	return lib, nil
}

func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// idValue accepts a JSON string or number and returns its text form.
func idValue(raw json.RawMessage) string {
	if s, ok := stringValue(raw); ok {
		return s
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err == nil {
		if _, err := strconv.ParseFloat(n.String(), 64); err == nil {
			return n.String()
		}
	}
	return ""
}
