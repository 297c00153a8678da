package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// tidalClient is what the commands need from the TIDAL service.
type tidalClient interface {
	services.VideoProvider
	services.Authenticator
	CountryCode() string
	UserID() int64
	HTTPClient() *http.Client
}

// ClientFactory builds a TIDAL client from the active configuration.
type ClientFactory func(cfg *shared.Config) (tidalClient, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	logger      *log.Logger
	output      io.Writer
	newClient   ClientFactory
	openBrowser func(url string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string // file Config was loaded from, if any
	Logger      *log.Logger
	Output      io.Writer
	NewClient   ClientFactory
	OpenBrowser func(url string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.NewClient == nil {
		opts.NewClient = newTidalClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		logger:      opts.Logger,
		output:      opts.Output,
		newClient:   opts.NewClient,
		openBrowser: opts.OpenBrowser,
	}
}

// newTidalClient builds the real TIDAL service from configuration.
func newTidalClient(cfg *shared.Config) (tidalClient, error) {
	srv, err := services.NewTidalService(services.TidalOpts{
		ClientID:     cfg.Credentials.Tidal.ClientID,
		ClientSecret: cfg.Credentials.Tidal.ClientSecret,
		CountryCode:  cfg.Credentials.Tidal.CountryCode,
		APIURL:       cfg.Tidal.APIURL,
		AuthURL:      cfg.Tidal.AuthURL,
		LinkURL:      cfg.Tidal.LinkURL,
		ImageURL:     cfg.Tidal.ImageURL,
		HTTPClient:   &http.Client{Timeout: cfg.HTTP.Timeout()},
	})
	if err != nil {
		return nil, err
	}
	return srv, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		fetchCommand, authCommand, setupCommand, libraryCommand, historyCommand, exportCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveConfig returns the configuration for cmd.
//
// The runner's config is reused when the --config flag points at the file it was loaded from.
// An explicitly passed path that does not exist is an error; the default path may be absent.
func (r *Runner) resolveConfig(cmd *cli.Command) (*shared.Config, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if path == "" || path == r.configPath {
		return r.config, nil
	}

	if !shared.FileExists(path) {
		if cmd.IsSet("config") {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		return r.config, nil
	}

	cfg, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("loaded config", "path", path)
	r.config, r.configPath = cfg, path
	return cfg, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// exitCode maps an application error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrLibraryNotFound), errors.Is(err, shared.ErrMissingCredentials):
		return 2
	case errors.Is(err, shared.ErrAuthFailed):
		return 3
	default:
		return 1
	}
}
