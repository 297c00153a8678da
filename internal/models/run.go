package models

import (
	"fmt"
	"time"
)

// FetchRun is the persisted summary of one completed fetch.
type FetchRun struct {
	id           string
	sequence     int
	generatedAt  time.Time
	libraryPath  string
	outputPath   string
	trackCount   int
	artistCount  int
	videoCount   int
	trackMatches int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewFetchRun creates a run summary for doc written to outputPath.
func NewFetchRun(sequence int, libraryPath, outputPath string, doc *OutputDocument, trackMatches int) *FetchRun {
	now := time.Now()
	return &FetchRun{
		sequence:     sequence,
		generatedAt:  doc.GeneratedAt,
		libraryPath:  libraryPath,
		outputPath:   outputPath,
		trackCount:   doc.TrackCount,
		artistCount:  doc.ArtistCount,
		videoCount:   doc.VideoCount,
		trackMatches: trackMatches,
		createdAt:    now,
		updatedAt:    now,
	}
}

// RestoreFetchRun rebuilds a run from stored columns.
func RestoreFetchRun(
	id string, sequence int, generatedAt time.Time, libraryPath, outputPath string,
	trackCount, artistCount, videoCount, trackMatches int, createdAt, updatedAt time.Time,
) *FetchRun {
	return &FetchRun{
		id:           id,
		sequence:     sequence,
		generatedAt:  generatedAt,
		libraryPath:  libraryPath,
		outputPath:   outputPath,
		trackCount:   trackCount,
		artistCount:  artistCount,
		videoCount:   videoCount,
		trackMatches: trackMatches,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (r *FetchRun) ID() string             { return r.id }
func (r *FetchRun) SetID(id string)        { r.id = id }
func (r *FetchRun) Sequence() int          { return r.sequence }
func (r *FetchRun) SetSequence(seq int)    { r.sequence = seq }
func (r *FetchRun) GeneratedAt() time.Time { return r.generatedAt }
func (r *FetchRun) LibraryPath() string    { return r.libraryPath }
func (r *FetchRun) OutputPath() string     { return r.outputPath }
func (r *FetchRun) TrackCount() int        { return r.trackCount }
func (r *FetchRun) ArtistCount() int       { return r.artistCount }
func (r *FetchRun) VideoCount() int        { return r.videoCount }
func (r *FetchRun) TrackMatches() int      { return r.trackMatches }
func (r *FetchRun) CreatedAt() time.Time   { return r.createdAt }
func (r *FetchRun) UpdatedAt() time.Time   { return r.updatedAt }

// SetOutputPath records that the document was moved and bumps the update time.
func (r *FetchRun) SetOutputPath(path string) {
	r.outputPath = path
	r.updatedAt = time.Now()
}

// Validate checks the run's counts and paths.
func (r *FetchRun) Validate() error {
	switch {
	case r.outputPath == "":
		return fmt.Errorf("output path is required")
	case r.trackCount < 0 || r.artistCount < 0 || r.videoCount < 0:
		return fmt.Errorf("counts must not be negative")
	case r.trackMatches > r.trackCount:
		return fmt.Errorf("track matches (%d) exceed track count (%d)", r.trackMatches, r.trackCount)
	case r.generatedAt.IsZero():
		return fmt.Errorf("generated_at is required")
	}
	return nil
}
