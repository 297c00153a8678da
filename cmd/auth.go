package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/vidx/internal/services"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the device login and caches the session, replacing any existing one.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
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
	if err := r.ensureSession(ctx, client, store, true); err != nil {
		return err
	}

	r.writePlain("✓ Session saved to %s\n", store.Path())
	return nil
}

// AuthStatus verifies the cached session against the API without starting a login.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	store := services.NewSessionStore(cfg.Paths.Session)
	session, err := store.Load()
	if err != nil {
		return err
	}

	client, err := r.newClient(cfg)
	if err != nil {
		return err
	}

	if err := client.LoadSession(ctx, session); err != nil {
		return fmt.Errorf("session at %s is not usable: %w", store.Path(), err)
	}
	r.saveSession(client, store)

	r.writePlainHeader("TIDAL Session")
	r.writePlain("✓ Authenticated\n")
	r.writePlain("User ID: %d\n", client.UserID())
	r.writePlain("Country: %s\n", client.CountryCode())
	if token, err := client.Token(); err == nil && !token.Expiry.IsZero() {
		r.writePlain("Token expires: %s\n", token.Expiry.Local().Format(time.RFC3339))
	}
	r.writePlain("Session file: %s\n", store.Path())
	return nil
}
