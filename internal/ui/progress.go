package ui

import (
	"fmt"
	"io"

	"github.com/desertthunder/vidx/internal/tasks"
)

// Printer writes fetch progress updates to an [io.Writer].
type Printer struct {
	w       io.Writer
	palette *Palette
}

// NewPrinter creates a Printer using the default palette.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, palette: styles}
}

// Start drains updates on a new goroutine. The returned channel is closed once updates is
// closed and every update has been written.
func (p *Printer) Start(updates <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			p.Print(u)
		}
	}()
	return done
}

// Print writes a single update.
func (p *Printer) Print(u tasks.ProgressUpdate) {
	fmt.Fprintln(p.w, p.Format(u))
}

// Format renders an update as one line. Phase headers are titled, per-item lines are indented and
// colored by outcome.
func (p *Printer) Format(u tasks.ProgressUpdate) string {
	switch u.Phase {
	case tasks.TrackSummary:
		return "\n" + p.palette.OK(u.Message)
	case tasks.MatchTracks, tasks.SweepArtists:
		if u.Step == 0 {
			return "\n" + p.palette.Title(u.Message) + "\n"
		}
		return "  " + p.item(u)
	default:
		return u.Message
	}
}

func (p *Printer) item(u tasks.ProgressUpdate) string {
	switch o := u.Data.(type) {
	case *tasks.TrackOutcome:
		if o.Result.Failed() {
			return p.palette.Err(u.Message)
		}
		if o.New == 0 {
			return p.palette.Help(u.Message)
		}
	case *tasks.ArtistOutcome:
		if o.Result.Failed() {
			return p.palette.Err(u.Message)
		}
		if o.Match == nil {
			return p.palette.Warn(u.Message)
		}
	}
	return u.Message
}
