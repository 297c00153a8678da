package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/vidx/internal/repositories"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/ui"
	"github.com/urfave/cli/v3"
)

// History lists the most recent fetch runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Database.Path == "" {
		return fmt.Errorf("%w: database.path is not set, run history is disabled", shared.ErrInvalidConfig)
	}
	if !shared.FileExists(cfg.Database.Path) && cfg.Database.Path != ":memory:" {
		r.writePlain("No fetch runs recorded yet.\n")
		return nil
	}

	db, err := shared.OpenDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewFetchRunRepository(db).List(map[string]any{"limit": cmd.Int("limit")})
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		r.writePlain("No fetch runs recorded yet.\n")
		return nil
	}

	tbl := ui.NewTable(
		ui.Column{Title: "#", Numeric: true},
		ui.Column{Title: "Generated"},
		ui.Column{Title: "Tracks Matched", Numeric: true},
		ui.Column{Title: "Artists", Numeric: true},
		ui.Column{Title: "Videos", Numeric: true},
		ui.Column{Title: "Output"},
	)
	for _, run := range runs {
		tbl.Add(
			strconv.Itoa(run.Sequence()),
			run.GeneratedAt().Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d/%d", run.TrackMatches(), run.TrackCount()),
			strconv.Itoa(run.ArtistCount()),
			strconv.Itoa(run.VideoCount()),
			run.OutputPath(),
		)
	}

	r.writePlain("%s\n", tbl.Render())
	return nil
}
