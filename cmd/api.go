package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct, authenticated GET request to the TIDAL API using the cached session.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required (e.g. /search?query=air&types=VIDEOS)", shared.ErrInvalidArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	cfg, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	client, err := r.newClient(cfg)
	if err != nil {
		return err
	}

	store := services.NewSessionStore(cfg.Paths.Session)
	session, err := store.Load()
	if err != nil {
		return fmt.Errorf("%w: %v (run 'vidx auth login')", shared.ErrNotAuthenticated, err)
	}
	if err := client.LoadSession(ctx, session); err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	api := services.NewAPIService(cfg.Tidal.APIURL, client.CountryCode(), client.HTTPClient())
	resp, err := api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("json"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}
