package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/library"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/repositories"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/desertthunder/vidx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Fetch loads the library, makes sure a TIDAL session exists, runs both discovery phases and
// writes the output document.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	libraryPath := cfg.Paths.Library
	if p := cmd.String("library"); p != "" {
		libraryPath = p
	}
	outputPath := cfg.Paths.Output
	if p := cmd.String("output"); p != "" {
		outputPath = p
	}

	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	if cfg.Paths.PoolDir != "" {
		if err := os.MkdirAll(cfg.Paths.PoolDir, 0755); err != nil {
			return fmt.Errorf("failed to create pool directory: %w", err)
		}
	}

	lock, err := shared.AcquireRunLock(fetchLockPath(cfg, outputPath))
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release fetch lock", "error", err)
		}
	}()

	r.writePlainHeader("TIDAL Video Fetcher")

	lib, err := library.Load(libraryPath)
	if err != nil {
		return err
	}
	r.writePlain("Loaded %d tracks from %d artists\n", lib.TrackCount(), lib.ArtistCount())

	client, err := r.newClient(cfg)
	if err != nil {
		return err
	}

	store := services.NewSessionStore(cfg.Paths.Session)
	if err := r.ensureSession(ctx, client, store, cmd.Bool("login")); err != nil {
		return err
	}

	engine := tasks.NewVideoEngine(client, tasks.EngineOpts{
		TrackLimit:       cfg.Search.TrackLimit,
		ArtistLimit:      cfg.Search.ArtistLimit,
		ArtistVideoLimit: cfg.Search.ArtistVideoLimit,
		ImageWidths:      []int{cfg.Images.PrimaryWidth, cfg.Images.FallbackWidth},
		BrowseURL:        cfg.Tidal.BrowseURL,
		Logger:           shared.WithLogger(r.logger, "service", client.Name()),
	})

	progress := make(chan tasks.ProgressUpdate, 50)
	done := ui.NewPrinter(r.output).Start(progress)

	result, err := engine.Run(ctx, lib, progress)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	doc := result.Document
	if err := formatter.WriteDocument(outputPath, doc); err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader(fmt.Sprintf("Saved %d videos to %s", doc.VideoCount, outputPath))

	if cfg.Database.Path != "" {
		if err := r.recordRun(cfg, libraryPath, outputPath, result); err != nil {
			r.logger.Warn("failed to record fetch run", "error", err)
		}
	}

	return nil
}

// fetchLockPath places the run lock in the pool directory, or next to the output file when no pool
// directory is configured.
func fetchLockPath(cfg *shared.Config, outputPath string) string {
	dir := cfg.Paths.PoolDir
	if dir == "" {
		dir = filepath.Dir(outputPath)
	}
	return filepath.Join(dir, ".vidx.lock")
}

// ensureSession installs a working session on client. The cached session is tried first unless
// force is set; any failure there falls through to the interactive device login. The resulting
// token is written back to store either way.
func (r *Runner) ensureSession(ctx context.Context, client tidalClient, store *services.SessionStore, force bool) error {
	if !force {
		session, err := store.Load()
		if err == nil {
			err = client.LoadSession(ctx, session)
		}
		if err == nil {
			r.logger.Info("loaded existing session", "path", store.Path())
			r.saveSession(client, store)
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("no cached session", "path", store.Path())
		} else {
			r.logger.Warn("could not load session", "error", err)
		}
	}

	r.writePlain("→ Starting TIDAL login...\n")

	var waiter *ui.Waiter
	err := client.Login(ctx, func(dl services.DeviceLogin) {
		r.writePlain("Visit %s to log in", dl.URL)
		if dl.ExpiresIn > 0 {
			r.writePlain(" (expires in %d seconds)", dl.ExpiresIn)
		}
		r.writePlain("\n")

		if err := r.openBrowser(dl.URL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
		}
		waiter = ui.Wait(r.output, "Waiting for authorization...")
	})
	if waiter != nil {
		if err := waiter.Stop(); err != nil {
			r.logger.Debug("login spinner exited with error", "error", err)
		}
	}
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged in to TIDAL\n")
	r.saveSession(client, store)
	return nil
}

// saveSession writes the client's current token to store, logging instead of failing.
func (r *Runner) saveSession(client tidalClient, store *services.SessionStore) {
	token, err := client.Token()
	if err != nil {
		r.logger.Warn("no token to save", "error", err)
		return
	}
	if err := store.Save(token); err != nil {
		r.logger.Warn("failed to save session", "path", store.Path(), "error", err)
		return
	}
	r.logger.Debug("session saved", "path", store.Path())
}

// recordRun stores a summary of the fetch in the run history database.
func (r *Runner) recordRun(cfg *shared.Config, libraryPath, outputPath string, result *tasks.FetchResult) error {
	if err := shared.EnsureParentDir(cfg.Database.Path); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := shared.OpenDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	run := models.NewFetchRun(0, libraryPath, outputPath, result.Document, result.TrackMatches)
	if err := repositories.NewFetchRunRepository(db).Create(run); err != nil {
		return err
	}

	r.logger.Info("recorded fetch run", "sequence", run.Sequence(), "id", run.ID())
	return nil
}
