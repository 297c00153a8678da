package models

import (
	"fmt"
	"time"
)

const (
	VideoRecordType   = "tidal-video"
	VideoRecordSource = "Tidal Video"
)

// Artist is a TIDAL artist entity.
type Artist struct {
	ID   int64
	Name string
}

// Video is a TIDAL music video as returned by the API, reduced to the fields vidx uses.
type Video struct {
	ID         int64
	Title      string
	Artist     *Artist // nil when the API returned no artist
	Duration   int     // seconds
	Explicit   bool
	Popularity int
	ImageID    string
}

// ArtistName returns the video's artist name, or "" when absent.
func (v Video) ArtistName() string {
	if v.Artist == nil {
		return ""
	}
	return v.Artist.Name
}

// VideoRecord is the normalized, serialized form of a [Video].
type VideoRecord struct {
	ID         string  `json:"id"`
	VideoID    int64   `json:"video_id"`
	Type       string  `json:"type"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	ArtistID   *int64  `json:"artist_id"`
	Duration   int     `json:"duration"`
	TidalURL   string  `json:"tidalUrl"`
	ImageURL   *string `json:"imageUrl"`
	Explicit   bool    `json:"explicit"`
	Popularity int     `json:"popularity"`
	Source     string  `json:"source"`
}

// NewVideoRecord projects v into a record. browseURL is the base for the video page link
// and imageURL may be nil when no thumbnail could be resolved.
func NewVideoRecord(v Video, browseURL string, imageURL *string) VideoRecord {
	rec := VideoRecord{
		ID:         fmt.Sprintf("%s-%d", VideoRecordType, v.ID),
		VideoID:    v.ID,
		Type:       VideoRecordType,
		Title:      v.Title,
		Artist:     UnknownArtist,
		Duration:   v.Duration,
		TidalURL:   fmt.Sprintf("%s/%d", browseURL, v.ID),
		ImageURL:   imageURL,
		Explicit:   v.Explicit,
		Popularity: v.Popularity,
		Source:     VideoRecordSource,
	}

	if v.Artist != nil {
		id := v.Artist.ID
		rec.Artist = v.Artist.Name
		rec.ArtistID = &id
	}

	return rec
}

// OutputDocument is the JSON document written at the end of a fetch.
type OutputDocument struct {
	GeneratedAt time.Time     `json:"generated_at"`
	TrackCount  int           `json:"track_count"`
	ArtistCount int           `json:"artist_count"`
	VideoCount  int           `json:"video_count"`
	Videos      []VideoRecord `json:"videos"`
}

// NewOutputDocument builds a document whose video count always matches its video list.
func NewOutputDocument(generatedAt time.Time, lib *Library, videos []VideoRecord) *OutputDocument {
	if videos == nil {
		videos = []VideoRecord{}
	}
	return &OutputDocument{
		GeneratedAt: generatedAt,
		TrackCount:  lib.TrackCount(),
		ArtistCount: lib.ArtistCount(),
		VideoCount:  len(videos),
		Videos:      videos,
	}
}
