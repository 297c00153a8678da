package models

// UnknownArtist is used for tracks whose release carries no artist name.
const UnknownArtist = "Unknown"

// Track is a favorited track from the local library.
type Track struct {
	Title   string
	Artist  string
	TrackID string
}

// Library holds the two views derived from the library document.
type Library struct {
	Tracks  []Track
	Artists []string // unique, in first-seen order
}

// TrackCount returns the number of favorited tracks.
func (l *Library) TrackCount() int { return len(l.Tracks) }

// ArtistCount returns the number of unique artist names.
func (l *Library) ArtistCount() int { return len(l.Artists) }
