// package services defines the provider interfaces used by the fetch pipeline
//
// TIDAL is the only implementation.
package services

import (
	"context"

	"github.com/desertthunder/vidx/internal/models"
	"golang.org/x/oauth2"
)

// VideoProvider is the capability the fetch pipeline needs from a streaming service.
type VideoProvider interface {
	// SearchVideos returns up to limit videos for a free-text query, in the provider's ranking order.
	SearchVideos(ctx context.Context, query string, limit int) ([]models.Video, error)

	// SearchArtists returns up to limit artists matching name, in the provider's ranking order.
	SearchArtists(ctx context.Context, name string, limit int) ([]models.Artist, error)

	// ArtistVideos returns up to limit videos attributed to the artist.
	ArtistVideos(ctx context.Context, artistID int64, limit int) ([]models.Video, error)

	// VideoImageURL resolves the thumbnail URL for v at the given width.
	VideoImageURL(v models.Video, width int) (string, error)

	// Name returns the name of the service (e.g., "TIDAL")
	Name() string
}

// Authenticator manages the OAuth session of a provider.
type Authenticator interface {
	// LoadSession installs a cached session and verifies it against the API.
	LoadSession(ctx context.Context, session *models.Session) error

	// Login runs the interactive device-code flow. notify receives the activation link
	// before the call blocks waiting for the user.
	Login(ctx context.Context, notify func(DeviceLogin)) error

	// CheckLogin verifies the current token against the API.
	CheckLogin(ctx context.Context) error

	// Token returns the current (possibly refreshed) token.
	Token() (*oauth2.Token, error)
}

// DeviceLogin describes a pending device-code authorization.
type DeviceLogin struct {
	UserCode  string
	URL       string
	ExpiresIn int // seconds
}
