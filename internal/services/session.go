package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"golang.org/x/oauth2"
)

// SessionStore reads and writes the JSON session cache.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store backed by the file at path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Path returns the session file location.
func (s *SessionStore) Path() string {
	return s.path
}

// Load reads the cached session. A missing file yields an error wrapping [fs.ErrNotExist];
// unparseable content yields [shared.ErrSessionInvalid].
func (s *SessionStore) Load() (*models.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no cached session at %s: %w", s.path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionInvalid, err)
	}
	if session.AccessToken == "" || session.TokenType == "" {
		return nil, fmt.Errorf("%w: missing token fields", shared.ErrSessionInvalid)
	}

	return &session, nil
}

// Save writes token to the session file, creating its directory when needed.
func (s *SessionStore) Save(token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", shared.ErrInvalidInput)
	}

	data, err := json.MarshalIndent(TokenSession(token), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := shared.EnsureParentDir(s.path); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// TokenSession converts an OAuth token into its cached form.
func TokenSession(token *oauth2.Token) *models.Session {
	session := &models.Session{
		TokenType:    token.Type(),
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		session.ExpiryTime = &expiry
	}
	return session
}

// SessionToken converts a cached session back into an OAuth token.
func SessionToken(session *models.Session) *oauth2.Token {
	token := &oauth2.Token{
		TokenType:    session.TokenType,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}
	if session.ExpiryTime != nil {
		token.Expiry = *session.ExpiryTime
	}
	return token
}
