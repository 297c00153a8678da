package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Paths       PathsConfig       `toml:"paths"`
	Credentials CredentialsConfig `toml:"credentials"`
	Tidal       TidalConfig       `toml:"tidal"`
	Search      SearchConfig      `toml:"search"`
	Images      ImagesConfig      `toml:"images"`
	HTTP        HTTPConfig        `toml:"http"`
	Database    DatabaseConfig    `toml:"database"`
}

// PathsConfig locates the library input, session cache and output document.
type PathsConfig struct {
	Library string `toml:"library"`
	PoolDir string `toml:"pool_dir"`
	Session string `toml:"session"`
	Output  string `toml:"output"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Tidal TidalCredentials `toml:"tidal"`
}

// TidalCredentials contains the TIDAL API client credentials.
type TidalCredentials struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	CountryCode  string `toml:"country_code"`
}

// TidalConfig contains TIDAL endpoint base URLs.
type TidalConfig struct {
	APIURL    string `toml:"api_url"`
	AuthURL   string `toml:"auth_url"`
	LinkURL   string `toml:"link_url"`
	BrowseURL string `toml:"browse_url"`
	ImageURL  string `toml:"image_url"`
}

// SearchConfig bounds the number of candidates requested per provider call.
type SearchConfig struct {
	TrackLimit       int `toml:"track_limit"`
	ArtistLimit      int `toml:"artist_limit"`
	ArtistVideoLimit int `toml:"artist_video_limit"`
}

// ImagesConfig sets the thumbnail widths tried, in order, when resolving a video image.
type ImagesConfig struct {
	PrimaryWidth  int `toml:"primary_width"`
	FallbackWidth int `toml:"fallback_width"`
}

// HTTPConfig contains HTTP client settings.
type HTTPConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// DatabaseConfig contains database connection settings. An empty path disables run history.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// Timeout returns the HTTP client timeout; zero means no timeout.
func (h HTTPConfig) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values absent from the file keep the defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks limits and widths. Credentials are checked separately by [Config.RequireCredentials]
// since commands such as history never talk to TIDAL.
func (c *Config) Validate() error {
	switch {
	case c.Paths.Library == "":
		return fmt.Errorf("%w: paths.library is empty", ErrInvalidConfig)
	case c.Paths.Output == "":
		return fmt.Errorf("%w: paths.output is empty", ErrInvalidConfig)
	case c.Search.TrackLimit <= 0, c.Search.ArtistLimit <= 0, c.Search.ArtistVideoLimit <= 0:
		return fmt.Errorf("%w: search limits must be positive", ErrInvalidConfig)
	case c.Images.PrimaryWidth <= 0 || c.Images.FallbackWidth <= 0:
		return fmt.Errorf("%w: image widths must be positive", ErrInvalidConfig)
	}
	return nil
}

// RequireCredentials returns [ErrMissingCredentials] when no TIDAL client id is configured.
func (c *Config) RequireCredentials() error {
	if c.Credentials.Tidal.ClientID == "" {
		return fmt.Errorf("%w: credentials.tidal.client_id is not set", ErrMissingCredentials)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
