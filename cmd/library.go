package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/vidx/internal/library"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/ui"
	"github.com/urfave/cli/v3"
)

// artistSummary is one row of the library summary.
type artistSummary struct {
	Artist string `json:"artist"`
	Tracks int    `json:"tracks"`
}

// Library prints how many favorited tracks each artist in the library has.
func (r *Runner) Library(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	path := cfg.Paths.Library
	if p := cmd.String("library"); p != "" {
		path = p
	}

	lib, err := library.Load(path)
	if err != nil {
		return err
	}

	summary := summarizeLibrary(lib)

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"path":         path,
			"track_count":  lib.TrackCount(),
			"artist_count": lib.ArtistCount(),
			"artists":      summary,
		}, true)
	}

	tbl := ui.NewTable(ui.Column{Title: "Artist"}, ui.Column{Title: "Tracks", Numeric: true})
	for _, s := range summary {
		tbl.Add(s.Artist, strconv.Itoa(s.Tracks))
	}
	tbl.Footer(fmt.Sprintf("%d artists", lib.ArtistCount()), strconv.Itoa(lib.TrackCount()))

	r.writePlainHeader("Music Library: " + path)
	r.writePlain("%s\n", tbl.Render())
	return nil
}

// summarizeLibrary counts tracks per artist in the library's artist order. Tracks whose release
// had no artist are reported last under [models.UnknownArtist].
func summarizeLibrary(lib *models.Library) []artistSummary {
	counts := make(map[string]int, len(lib.Artists))
	for _, t := range lib.Tracks {
		counts[t.Artist]++
	}

	summary := make([]artistSummary, 0, len(lib.Artists)+1)
	seen := make(map[string]bool, len(lib.Artists))
	for _, a := range lib.Artists {
		summary = append(summary, artistSummary{Artist: a, Tracks: counts[a]})
		seen[a] = true
	}
	if n := counts[models.UnknownArtist]; n > 0 && !seen[models.UnknownArtist] {
		summary = append(summary, artistSummary{Artist: models.UnknownArtist, Tracks: n})
	}
	return summary
}
