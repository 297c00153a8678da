package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"golang.org/x/oauth2"
)

// tidalDeviceAuth is TIDAL's device authorization response. TIDAL uses camelCase keys, so the
// response cannot be decoded by [oauth2.Config.DeviceAuth].
type tidalDeviceAuth struct {
	DeviceCode              string `json:"deviceCode"`
	UserCode                string `json:"userCode"`
	VerificationURI         string `json:"verificationUri"`
	VerificationURIComplete string `json:"verificationUriComplete"`
	ExpiresIn               int64  `json:"expiresIn"`
	Interval                int64  `json:"interval"`
}

// LoadSession installs a cached session and verifies it with [TidalService.CheckLogin].
//
// An expired access token is refreshed transparently when the session carries a refresh token.
func (s *TidalService) LoadSession(ctx context.Context, session *models.Session) error {
	if session == nil || session.AccessToken == "" {
		return fmt.Errorf("%w: no access token", shared.ErrSessionInvalid)
	}

	token := SessionToken(session)
	if !token.Valid() && token.RefreshToken == "" {
		return fmt.Errorf("%w: access token expired and no refresh token", shared.ErrTokenExpired)
	}

	s.setToken(ctx, token)

	if err := s.CheckLogin(ctx); err != nil {
		s.clearToken()
		return fmt.Errorf("%w: %v", shared.ErrSessionInvalid, err)
	}
	return nil
}

func (s *TidalService) clearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = nil
	s.apiClient = nil
}

// Login runs the OAuth device-code flow: it requests a user code, hands the activation link to
// notify, then polls the token endpoint until the user approves or the code expires.
func (s *TidalService) Login(ctx context.Context, notify func(DeviceLogin)) error {
	da, err := s.deviceAuthorization(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if notify != nil {
		dl := DeviceLogin{UserCode: da.UserCode, URL: s.linkURL + "/" + da.UserCode}
		if !da.Expiry.IsZero() {
			dl.ExpiresIn = int(time.Until(da.Expiry).Round(time.Second).Seconds())
		}
		notify(dl)
	}

	token, err := s.config.DeviceAccessToken(s.withClient(ctx), da)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	s.setToken(ctx, token)

	if err := s.CheckLogin(ctx); err != nil {
		s.clearToken()
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return nil
}

// deviceAuthorization requests a device and user code from the authorization server.
func (s *TidalService) deviceAuthorization(ctx context.Context) (*oauth2.DeviceAuthResponse, error) {
	form := url.Values{}
	form.Set("client_id", s.config.ClientID)
	form.Set("scope", strings.Join(s.config.Scopes, " "))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint.DeviceAuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.baseClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device authorization request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("device authorization status %d", resp.StatusCode)
	}

	var body tidalDeviceAuth
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode device authorization: %w", err)
	}
	if body.DeviceCode == "" || body.UserCode == "" {
		return nil, errors.New("device authorization returned no code")
	}

	da := &oauth2.DeviceAuthResponse{
		DeviceCode:              body.DeviceCode,
		UserCode:                body.UserCode,
		VerificationURI:         body.VerificationURI,
		VerificationURIComplete: body.VerificationURIComplete,
		Interval:                body.Interval,
	}
	if body.ExpiresIn > 0 {
		da.Expiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	}
	return da, nil
}
