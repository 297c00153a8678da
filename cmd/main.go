package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := ""
	if shared.FileExists(defaultConfigPath) {
		loaded, err := shared.LoadConfig(defaultConfigPath)
		if err != nil {
			logger.Warn("failed to load config, using defaults", "path", defaultConfigPath, "error", err)
		} else {
			config, configPath = loaded, defaultConfigPath
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "vidx",
		Usage:    "Fetch TIDAL music videos for the artists in your music library",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Error("application error", "error", err)
		stop()
		os.Exit(exitCode(err))
	}
}
