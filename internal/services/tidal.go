// TIDAL API implementation of [VideoProvider] and [Authenticator]
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	"golang.org/x/oauth2"
)

const (
	tidalAPIURL   = "https://api.tidal.com/v1"
	tidalAuthURL  = "https://auth.tidal.com/v1/oauth2"
	tidalLinkURL  = "https://link.tidal.com"
	tidalImageURL = "https://resources.tidal.com/images"
	tidalScope    = "r_usr w_usr w_sub"
)

type tidalArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TidalVideo is a video object as returned by the TIDAL v1 API.
type TidalVideo struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	Duration   int           `json:"duration"`
	Explicit   bool          `json:"explicit"`
	Popularity int           `json:"popularity"`
	ImageID    string        `json:"imageId"`
	Artist     *tidalArtist  `json:"artist"`
	Artists    []tidalArtist `json:"artists"`
}

type tidalPage[T any] struct {
	Limit              int `json:"limit"`
	Offset             int `json:"offset"`
	TotalNumberOfItems int `json:"totalNumberOfItems"`
	Items              []T `json:"items"`
}

type tidalSearchResult struct {
	Videos  tidalPage[TidalVideo]  `json:"videos"`
	Artists tidalPage[tidalArtist] `json:"artists"`
}

type tidalSessionInfo struct {
	SessionID   string `json:"sessionId"`
	UserID      int64  `json:"userId"`
	CountryCode string `json:"countryCode"`
}

// toVideo converts the API object into a plain value. The primary artist falls back to the
// first entry of the artists list.
func (v TidalVideo) toVideo() models.Video {
	out := models.Video{
		ID:         v.ID,
		Title:      v.Title,
		Duration:   v.Duration,
		Explicit:   v.Explicit,
		Popularity: v.Popularity,
		ImageID:    v.ImageID,
	}

	switch {
	case v.Artist != nil:
		out.Artist = &models.Artist{ID: v.Artist.ID, Name: v.Artist.Name}
	case len(v.Artists) > 0:
		out.Artist = &models.Artist{ID: v.Artists[0].ID, Name: v.Artists[0].Name}
	}

	return out
}

// TidalOpts configures a [TidalService]. Empty URLs fall back to the public TIDAL endpoints.
type TidalOpts struct {
	ClientID     string
	ClientSecret string
	CountryCode  string
	APIURL       string
	AuthURL      string
	LinkURL      string
	ImageURL     string
	HTTPClient   *http.Client
}

// TidalService implements [VideoProvider] and [Authenticator] for the TIDAL v1 API.
//
// Uses [oauth2] for the device-code flow and for transparent token refresh.
type TidalService struct {
	config      *oauth2.Config
	baseClient  *http.Client
	apiURL      string
	linkURL     string
	imageURL    string
	countryCode string

	mu        sync.Mutex
	source    oauth2.TokenSource
	apiClient *http.Client
	userID    int64
}

// NewTidalService creates a new TIDAL service with the given client credentials.
func NewTidalService(opts TidalOpts) (*TidalService, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: missing TIDAL client_id", shared.ErrMissingCredentials)
	}

	if opts.APIURL == "" {
		opts.APIURL = tidalAPIURL
	}
	if opts.AuthURL == "" {
		opts.AuthURL = tidalAuthURL
	}
	if opts.LinkURL == "" {
		opts.LinkURL = tidalLinkURL
	}
	if opts.ImageURL == "" {
		opts.ImageURL = tidalImageURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	authURL := strings.TrimRight(opts.AuthURL, "/")
	config := &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		Scopes:       []string{tidalScope},
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: authURL + "/device_authorization",
			TokenURL:      authURL + "/token",
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}

	return &TidalService{
		config:      config,
		baseClient:  opts.HTTPClient,
		apiURL:      strings.TrimRight(opts.APIURL, "/"),
		linkURL:     strings.TrimRight(opts.LinkURL, "/"),
		imageURL:    strings.TrimRight(opts.ImageURL, "/"),
		countryCode: opts.CountryCode,
	}, nil
}

func (s *TidalService) Name() string {
	return "TIDAL"
}

// CountryCode returns the country code sent with catalogue requests.
func (s *TidalService) CountryCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countryCode
}

// UserID returns the account id reported by the last successful [TidalService.CheckLogin].
func (s *TidalService) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// withClient makes oauth2 use the service's base HTTP client for token requests.
func (s *TidalService) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.baseClient)
}

func (s *TidalService) setToken(ctx context.Context, token *oauth2.Token) {
	ctx = s.withClient(ctx)
	source := oauth2.ReuseTokenSource(token, s.config.TokenSource(ctx, token))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
	s.apiClient = oauth2.NewClient(ctx, source)
}

// Token returns the current token, refreshing it when expired.
func (s *TidalService) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	source := s.source
	s.mu.Unlock()

	if source == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return source.Token()
}

// HTTPClient returns the authorized client, or nil before a session is installed.
func (s *TidalService) HTTPClient() *http.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiClient
}

// doRequest performs an authenticated GET against the TIDAL API and decodes the JSON body into result.
func (s *TidalService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	client := s.HTTPClient()
	if client == nil {
		return fmt.Errorf("%w: call LoadSession or Login first", shared.ErrNotAuthenticated)
	}

	if params == nil {
		params = url.Values{}
	}
	if cc := s.CountryCode(); cc != "" {
		params.Set("countryCode", cc)
	}

	apiURL := s.apiURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return fmt.Errorf("%w: token refresh failed: %v", shared.ErrSessionInvalid, err)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrNotAuthenticated, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: tidal API status %d for %s", shared.ErrAPIRequest, resp.StatusCode, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// CheckLogin verifies the installed token by fetching the current session.
//
// The session's country code replaces the configured one, since catalogue requests are rejected
// when it does not match the account region.
func (s *TidalService) CheckLogin(ctx context.Context) error {
	var info tidalSessionInfo
	if err := s.doRequest(ctx, "/sessions", nil, &info); err != nil {
		return err
	}
	if info.UserID == 0 {
		return fmt.Errorf("%w: session has no user", shared.ErrNotAuthenticated)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = info.UserID
	if info.CountryCode != "" {
		s.countryCode = info.CountryCode
	}
	return nil
}

func (s *TidalService) search(ctx context.Context, query, types string, limit int) (*tidalSearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("types", types)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", "0")

	var result tidalSearchResult
	if err := s.doRequest(ctx, "/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchVideos searches the catalogue for videos matching query.
func (s *TidalService) SearchVideos(ctx context.Context, query string, limit int) ([]models.Video, error) {
	result, err := s.search(ctx, query, "VIDEOS", limit)
	if err != nil {
		return nil, err
	}
	return toVideos(result.Videos.Items, limit), nil
}

// SearchArtists searches the catalogue for artists matching name.
func (s *TidalService) SearchArtists(ctx context.Context, name string, limit int) ([]models.Artist, error) {
	result, err := s.search(ctx, name, "ARTISTS", limit)
	if err != nil {
		return nil, err
	}

	items := result.Artists.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	artists := make([]models.Artist, 0, len(items))
	for _, a := range items {
		artists = append(artists, models.Artist{ID: a.ID, Name: a.Name})
	}
	return artists, nil
}

// ArtistVideos lists the videos of an artist.
func (s *TidalService) ArtistVideos(ctx context.Context, artistID int64, limit int) ([]models.Video, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", "0")

	var page tidalPage[TidalVideo]
	if err := s.doRequest(ctx, fmt.Sprintf("/artists/%d/videos", artistID), params, &page); err != nil {
		return nil, err
	}
	return toVideos(page.Items, limit), nil
}

func toVideos(items []TidalVideo, limit int) []models.Video {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		videos = append(videos, item.toVideo())
	}
	return videos
}
