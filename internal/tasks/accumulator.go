package tasks

import (
	"github.com/desertthunder/vidx/internal/models"
)

// ImageResolver resolves a video thumbnail URL at a given width.
type ImageResolver interface {
	VideoImageURL(v models.Video, width int) (string, error)
}

// Accumulator is the identity-keyed set both strategies feed. It keeps the first record for every
// video id in insertion order.
//
// Not safe for concurrent use; the engine feeds it from a single goroutine.
type Accumulator struct {
	seen      map[int64]struct{}
	records   []models.VideoRecord
	images    ImageResolver
	widths    []int
	browseURL string
}

// NewAccumulator creates an empty accumulator. widths are tried in order when resolving
// thumbnails; with no resolver or widths every record gets a null image.
func NewAccumulator(images ImageResolver, browseURL string, widths ...int) *Accumulator {
	return &Accumulator{
		seen:      make(map[int64]struct{}),
		images:    images,
		widths:    widths,
		browseURL: browseURL,
	}
}

// Merge adds the videos of a result and returns how many were new. Failed results add nothing.
func (a *Accumulator) Merge(r ItemResult) int {
	if r.Failed() {
		return 0
	}

	added := 0
	for _, v := range r.Videos {
		if a.Add(v) {
			added++
		}
	}
	return added
}

// Add records v unless its id was seen before, and reports whether it was added.
func (a *Accumulator) Add(v models.Video) bool {
	if _, ok := a.seen[v.ID]; ok {
		return false
	}
	a.seen[v.ID] = struct{}{}
	a.records = append(a.records, models.NewVideoRecord(v, a.browseURL, a.resolveImage(v)))
	return true
}

// Len returns the number of distinct videos recorded.
func (a *Accumulator) Len() int {
	return len(a.records)
}

// Records returns a copy of the records in insertion order.
func (a *Accumulator) Records() []models.VideoRecord {
	out := make([]models.VideoRecord, len(a.records))
	copy(out, a.records)
	return out
}

// resolveImage tries each width in turn; any failure moves on to the next, and a video with no
// resolvable image gets nil.
func (a *Accumulator) resolveImage(v models.Video) *string {
	if a.images == nil {
		return nil
	}
	for _, w := range a.widths {
		if url, err := a.images.VideoImageURL(v, w); err == nil {
			return &url
		}
	}
	return nil
}
