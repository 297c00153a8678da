package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a fetch.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // *TrackOutcome or *ArtistOutcome for per-item steps
}

// Operation phase enumeration
type Phase int

const (
	MatchTracks Phase = iota
	TrackSummary
	SweepArtists
)

func (p Phase) String() string {
	switch p {
	case MatchTracks:
		return "match_tracks"
	case TrackSummary:
		return "track_summary"
	case SweepArtists:
		return "sweep_artists"
	default:
		return ""
	}
}

func matchTracksUpdate(step, total int, o *TrackOutcome) ProgressUpdate {
	if o == nil {
		return ProgressUpdate{
			Phase:   MatchTracks,
			Step:    step,
			Total:   total,
			Message: "Phase 1: Searching for videos matching favorited tracks",
		}
	}

	status := "no match"
	if o.New > 0 {
		status = fmt.Sprintf("found %d", o.New)
	}
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s... %s", step, total, o.Track.Artist, o.Track.Title, status),
		Data:    o,
	}
}

func trackSummaryUpdate(matched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackSummary,
		Step:    matched,
		Total:   total,
		Message: fmt.Sprintf("Found videos for %d/%d tracks", matched, total),
	}
}

func sweepArtistsUpdate(step, total int, o *ArtistOutcome) ProgressUpdate {
	if o == nil {
		return ProgressUpdate{
			Phase:   SweepArtists,
			Step:    step,
			Total:   total,
			Message: "Phase 2: Fetching all videos from artists",
		}
	}
	return ProgressUpdate{
		Phase:   SweepArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: found %d videos (%d new)", step, total, o.Name, len(o.Result.Videos), o.New),
		Data:    o,
	}
}
