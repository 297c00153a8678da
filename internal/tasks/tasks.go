package tasks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
)

const defaultBrowseURL = "https://tidal.com/browse/video"

// ItemResult is the outcome of one strategy step for a single track or artist.
// A failed step carries Err and no videos.
type ItemResult struct {
	Videos []models.Video
	Err    error
}

// Failed reports whether the provider call behind this result failed.
func (r ItemResult) Failed() bool { return r.Err != nil }

// TrackOutcome records what phase 1 did for one track.
type TrackOutcome struct {
	Track  models.Track
	Result ItemResult
	New    int // videos not seen before this track
}

// ArtistOutcome records what phase 2 did for one artist name.
type ArtistOutcome struct {
	Name   string
	Match  *models.Artist // nil when the search returned no artist
	Result ItemResult
	New    int
}

// FetchResult contains the output document and per-item outcomes of a fetch.
type FetchResult struct {
	Document     *models.OutputDocument
	Tracks       []TrackOutcome
	Artists      []ArtistOutcome
	TrackMatches int // tracks that contributed at least one new video
}

// EngineOpts configures a [VideoEngine]. Zero values fall back to the defaults noted per field.
type EngineOpts struct {
	TrackLimit       int    // candidates per track search (5)
	ArtistLimit      int    // candidates per artist search (5)
	ArtistVideoLimit int    // videos per artist (30)
	ImageWidths      []int  // thumbnail widths tried in order (750, 480)
	BrowseURL        string // base of the video page link
	Logger           *log.Logger
	Now              func() time.Time
}

// VideoEngine runs the two discovery strategies against a provider.
type VideoEngine struct {
	provider services.VideoProvider
	opts     EngineOpts
	logger   *log.Logger
}

// NewVideoEngine creates a new VideoEngine for provider.
func NewVideoEngine(provider services.VideoProvider, opts EngineOpts) *VideoEngine {
	if opts.TrackLimit <= 0 {
		opts.TrackLimit = 5
	}
	if opts.ArtistLimit <= 0 {
		opts.ArtistLimit = 5
	}
	if opts.ArtistVideoLimit <= 0 {
		opts.ArtistVideoLimit = 30
	}
	if len(opts.ImageWidths) == 0 {
		opts.ImageWidths = []int{750, 480}
	}
	if opts.BrowseURL == "" {
		opts.BrowseURL = defaultBrowseURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &VideoEngine{provider: provider, opts: opts, logger: logger}
}

// sendProgress delivers update, waiting for the reader unless ctx is done first.
func (e *VideoEngine) sendProgress(ctx context.Context, progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	case <-ctx.Done():
	}
}

// Run matches every track, then sweeps every artist, and returns the merged document.
//
// Provider failures for a single track or artist are recorded in the outcomes and never abort
// the run. Run only fails when no provider is configured or ctx is cancelled.
func (e *VideoEngine) Run(ctx context.Context, lib *models.Library, progress chan<- ProgressUpdate) (*FetchResult, error) {
	if e.provider == nil {
		return nil, fmt.Errorf("%w: video provider not initialized", shared.ErrServiceUnavailable)
	}
	if lib == nil {
		return nil, fmt.Errorf("%w: nil library", shared.ErrInvalidInput)
	}

	acc := NewAccumulator(e.provider, e.opts.BrowseURL, e.opts.ImageWidths...)
	result := &FetchResult{
		Tracks:  make([]TrackOutcome, 0, len(lib.Tracks)),
		Artists: make([]ArtistOutcome, 0, len(lib.Artists)),
	}

	total := len(lib.Tracks)
	e.sendProgress(ctx, progress, matchTracksUpdate(0, total, nil))

	for i, track := range lib.Tracks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := e.MatchTrack(ctx, track)
		outcome := TrackOutcome{Track: track, Result: res, New: acc.Merge(res)}
		if outcome.New > 0 {
			result.TrackMatches++
		}
		result.Tracks = append(result.Tracks, outcome)

		e.sendProgress(ctx, progress, matchTracksUpdate(i+1, total, &outcome))
	}

	e.sendProgress(ctx, progress, trackSummaryUpdate(result.TrackMatches, total))
	e.logger.Info("track matching complete", "matched", result.TrackMatches, "tracks", total, "videos", acc.Len())

	total = len(lib.Artists)
	e.sendProgress(ctx, progress, sweepArtistsUpdate(0, total, nil))

	for i, name := range lib.Artists {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		match, res := e.SweepArtist(ctx, name)
		outcome := ArtistOutcome{Name: name, Match: match, Result: res, New: acc.Merge(res)}
		result.Artists = append(result.Artists, outcome)

		e.sendProgress(ctx, progress, sweepArtistsUpdate(i+1, total, &outcome))
	}

	e.logger.Info("artist sweep complete", "artists", total, "videos", acc.Len())

	result.Document = models.NewOutputDocument(e.opts.Now(), lib, acc.Records())
	return result, nil
}
