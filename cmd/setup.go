package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the built-in configuration template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")

	if err := shared.EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set credentials.tidal.client_id (and client_secret) in %s\n", path)
	r.writePlain("2. Run 'vidx auth login' to create a session\n")
	r.writePlain("3. Run 'vidx fetch' to fetch videos\n")
	return nil
}

// SetupDatabase initializes the run history database and runs migrations. With --rollback it
// reverts the most recently applied migration instead.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Database.Path == "" {
		return fmt.Errorf("%w: database.path is not set", shared.ErrInvalidConfig)
	}

	if cmd.Bool("rollback") {
		return r.rollbackDatabase(cfg.Database)
	}

	if err := shared.EnsureParentDir(cfg.Database.Path); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	r.logger.Info("initializing database", "path", cfg.Database.Path)

	db, err := shared.OpenDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", cfg.Database.Path)
	r.writePlain("✓ Database ready at %s\n", cfg.Database.Path)
	return nil
}

func (r *Runner) rollbackDatabase(cfg shared.DatabaseConfig) error {
	if !shared.FileExists(cfg.Path) {
		return fmt.Errorf("%w: no database at %s", shared.ErrInvalidArgument, cfg.Path)
	}

	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

	if err := shared.RollbackMigration(db); err != nil {
		return err
	}

	r.logger.Info("rolled back migration", "path", cfg.Path)
	r.writePlain("✓ Rolled back the latest migration in %s\n", cfg.Path)
	return nil
}
