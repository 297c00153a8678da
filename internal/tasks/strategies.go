package tasks

import (
	"context"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
)

// MatchTrack searches videos for a track and applies [FilterByArtist].
func (e *VideoEngine) MatchTrack(ctx context.Context, track models.Track) ItemResult {
	query := track.Title + " " + track.Artist

	candidates, err := e.provider.SearchVideos(ctx, query, e.opts.TrackLimit)
	if err != nil {
		e.logger.Debug("track search failed", "query", query, "err", err)
		return ItemResult{Err: err}
	}

	return ItemResult{Videos: FilterByArtist(candidates, track.Artist)}
}

// FilterByArtist keeps the candidates whose artist matches artist (see [ArtistMatches]).
// When none match it falls back to the first candidate, and an empty input yields an empty result.
func FilterByArtist(candidates []models.Video, artist string) []models.Video {
	matching := make([]models.Video, 0, len(candidates))
	for _, v := range candidates {
		if ArtistMatches(v.ArtistName(), artist) {
			matching = append(matching, v)
		}
	}

	switch {
	case len(matching) > 0:
		return matching
	case len(candidates) > 0:
		return candidates[:1]
	default:
		return []models.Video{}
	}
}

// ArtistMatches reports whether candidate and artist contain one another, ignoring case.
// An empty candidate only matches an empty artist.
//
// Short names match loosely: "Air" matches "Fair Play".
func ArtistMatches(candidate, artist string) bool {
	c, a := strings.ToLower(candidate), strings.ToLower(artist)
	if c == "" {
		return a == ""
	}
	return strings.Contains(a, c) || strings.Contains(c, a)
}

// SweepArtist resolves name to a catalogue artist and lists that artist's videos.
// The chosen artist is nil when the search found none.
func (e *VideoEngine) SweepArtist(ctx context.Context, name string) (*models.Artist, ItemResult) {
	artists, err := e.provider.SearchArtists(ctx, name, e.opts.ArtistLimit)
	if err != nil {
		e.logger.Debug("artist search failed", "artist", name, "err", err)
		return nil, ItemResult{Err: err}
	}

	chosen, ok := ChooseArtist(artists, name)
	if !ok {
		return nil, ItemResult{Videos: []models.Video{}}
	}

	videos, err := e.provider.ArtistVideos(ctx, chosen.ID, e.opts.ArtistVideoLimit)
	if err != nil {
		e.logger.Debug("artist videos failed", "artist", name, "id", chosen.ID, "err", err)
		return &chosen, ItemResult{Err: err}
	}

	return &chosen, ItemResult{Videos: videos}
}

// ChooseArtist returns the first candidate whose name equals name ignoring case, or else the
// first candidate. ok is false when there are no candidates.
func ChooseArtist(candidates []models.Artist, name string) (models.Artist, bool) {
	if len(candidates) == 0 {
		return models.Artist{}, false
	}

	want := strings.ToLower(name)
	for _, a := range candidates {
		if strings.ToLower(a.Name) == want {
			return a, true
		}
	}
	return candidates[0], true
}
