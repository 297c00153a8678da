package services

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
	tu "github.com/desertthunder/vidx/internal/testing"
	"golang.org/x/oauth2"
)

// fakeTidal serves the subset of the TIDAL API and auth server used by [TidalService].
type fakeTidal struct {
	t            *testing.T
	server       *httptest.Server
	accessToken  atomic.Value // string
	tokenErr     string
	refreshCalls atomic.Int32
	searchStatus atomic.Int32
}

func newFakeTidal(t *testing.T) *fakeTidal {
	t.Helper()
	f := &fakeTidal{t: t}
	f.accessToken.Store("good-token")

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sessions", f.authorized(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"sessionId": "s1", "userId": 1234, "countryCode": "NO"})
	}))
	mux.HandleFunc("/v1/search", f.authorized(func(w http.ResponseWriter, r *http.Request) {
		if status := f.searchStatus.Load(); status != 0 {
			w.WriteHeader(int(status))
			return
		}
		q := r.URL.Query()
		if q.Get("countryCode") != "NO" {
			t.Errorf("expected countryCode NO from session, got %q", q.Get("countryCode"))
		}
		switch q.Get("types") {
		case "VIDEOS":
			writeJSON(w, map[string]any{"videos": map[string]any{"items": []any{
				map[string]any{"id": 1, "title": "Windowlicker", "duration": 363, "imageId": "ab-cd", "artist": map[string]any{"id": 10, "name": "Aphex Twin"}},
				map[string]any{"id": 2, "title": "Come to Daddy", "artists": []any{map[string]any{"id": 10, "name": "Aphex Twin"}}},
				map[string]any{"id": 3, "title": "Nameless"},
			}}})
		case "ARTISTS":
			writeJSON(w, map[string]any{"artists": map[string]any{"items": []any{
				map[string]any{"id": 10, "name": "Aphex Twin"},
				map[string]any{"id": 11, "name": "Aphex Twin Tribute"},
			}}})
		default:
			t.Errorf("unexpected search types %q", q.Get("types"))
		}
	}))
	mux.HandleFunc("/v1/artists/10/videos", f.authorized(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "30" {
			t.Errorf("expected limit 30, got %q", r.URL.Query().Get("limit"))
		}
		writeJSON(w, map[string]any{"limit": 30, "offset": 0, "totalNumberOfItems": 1, "items": []any{
			map[string]any{"id": 5, "title": "Donkey Rhubarb", "artist": map[string]any{"id": 10, "name": "Aphex Twin"}, "explicit": true, "popularity": 12},
		}})
	}))
	mux.HandleFunc("/oauth2/device_authorization", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("client_id") != "client" || r.Form.Get("scope") != tidalScope {
			t.Errorf("unexpected device authorization form: %v", r.Form)
		}
		writeJSON(w, map[string]any{
			"deviceCode": "dev-1", "userCode": "ABCDE", "verificationUri": "link.tidal.com",
			"verificationUriComplete": "link.tidal.com/ABCDE", "expiresIn": 300, "interval": 1,
		})
	})
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		switch r.Form.Get("grant_type") {
		case "refresh_token":
			f.refreshCalls.Add(1)
			if r.Form.Get("refresh_token") != "refresh-1" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{"error": "invalid_grant"})
				return
			}
		case "urn:ietf:params:oauth:grant-type:device_code":
			if r.Form.Get("device_code") != "dev-1" || r.Form.Get("client_secret") != "secret" {
				t.Errorf("unexpected device token form: %v", r.Form)
			}
			if f.tokenErr != "" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{"error": f.tokenErr})
				return
			}
		default:
			t.Errorf("unexpected grant type %q", r.Form.Get("grant_type"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": f.accessToken.Load().(string), "refresh_token": "refresh-1", "token_type": "Bearer", "expires_in": 3600,
		})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeTidal) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.accessToken.Load().(string) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (f *fakeTidal) service(t *testing.T) *TidalService {
	t.Helper()
	srv, err := NewTidalService(TidalOpts{
		ClientID:     "client",
		ClientSecret: "secret",
		CountryCode:  "US",
		APIURL:       f.server.URL + "/v1",
		AuthURL:      f.server.URL + "/oauth2",
		LinkURL:      "https://link.example",
		ImageURL:     "https://img.example/images",
		HTTPClient:   f.server.Client(),
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func validSession(token string) *models.Session {
	expiry := time.Now().Add(time.Hour)
	return &models.Session{TokenType: "Bearer", AccessToken: token, RefreshToken: "refresh-1", ExpiryTime: &expiry}
}

func TestTidalService(t *testing.T) {
	ctx := context.Background()

	t.Run("NewTidalService", func(t *testing.T) {
		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewTidalService(TidalOpts{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Defaults", func(t *testing.T) {
			srv, err := NewTidalService(TidalOpts{ClientID: "id"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.apiURL != tidalAPIURL || srv.linkURL != tidalLinkURL || srv.imageURL != tidalImageURL {
				t.Errorf("unexpected default urls: %s %s %s", srv.apiURL, srv.linkURL, srv.imageURL)
			}
			if srv.config.Endpoint.TokenURL != tidalAuthURL+"/token" {
				t.Errorf("unexpected token url %s", srv.config.Endpoint.TokenURL)
			}
			if srv.Name() != "TIDAL" {
				t.Errorf("expected name TIDAL, got %s", srv.Name())
			}
		})
	})

	t.Run("Requests Without Session", func(t *testing.T) {
		f := newFakeTidal(t)
		srv := f.service(t)

		if _, err := srv.SearchVideos(ctx, "anything", 5); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if _, err := srv.Token(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated from Token, got %v", err)
		}
	})

	t.Run("LoadSession", func(t *testing.T) {
		t.Run("Valid Session", func(t *testing.T) {
			f := newFakeTidal(t)
			srv := f.service(t)

			if err := srv.LoadSession(ctx, validSession("good-token")); err != nil {
				t.Fatalf("expected session to load, got %v", err)
			}
			if srv.UserID() != 1234 {
				t.Errorf("expected user id 1234, got %d", srv.UserID())
			}
			if srv.CountryCode() != "NO" {
				t.Errorf("expected session country code NO, got %s", srv.CountryCode())
			}
		})

		t.Run("Rejected Token", func(t *testing.T) {
			f := newFakeTidal(t)
			srv := f.service(t)

			err := srv.LoadSession(ctx, validSession("stale-token"))
			if !errors.Is(err, shared.ErrSessionInvalid) {
				t.Errorf("expected ErrSessionInvalid, got %v", err)
			}
			if srv.HTTPClient() != nil {
				t.Error("rejected session should be cleared")
			}
		})

		t.Run("Empty Session", func(t *testing.T) {
			srv := newFakeTidal(t).service(t)
			if err := srv.LoadSession(ctx, &models.Session{}); !errors.Is(err, shared.ErrSessionInvalid) {
				t.Errorf("expected ErrSessionInvalid, got %v", err)
			}
		})

		t.Run("Expired Without Refresh Token", func(t *testing.T) {
			srv := newFakeTidal(t).service(t)
			expired := time.Now().Add(-time.Hour)
			sess := &models.Session{TokenType: "Bearer", AccessToken: "old", ExpiryTime: &expired}

			if err := srv.LoadSession(ctx, sess); !errors.Is(err, shared.ErrTokenExpired) {
				t.Errorf("expected ErrTokenExpired, got %v", err)
			}
		})

		t.Run("Expired With Refresh Token", func(t *testing.T) {
			f := newFakeTidal(t)
			srv := f.service(t)
			expired := time.Now().Add(-time.Hour)
			sess := &models.Session{TokenType: "Bearer", AccessToken: "old", RefreshToken: "refresh-1", ExpiryTime: &expired}

			if err := srv.LoadSession(ctx, sess); err != nil {
				t.Fatalf("expected refresh to succeed, got %v", err)
			}
			if f.refreshCalls.Load() != 1 {
				t.Errorf("expected one refresh call, got %d", f.refreshCalls.Load())
			}

			tok, err := srv.Token()
			if err != nil {
				t.Fatalf("Token() error = %v", err)
			}
			if tok.AccessToken != "good-token" {
				t.Errorf("expected refreshed token, got %s", tok.AccessToken)
			}
		})

		t.Run("Refresh Rejected", func(t *testing.T) {
			srv := newFakeTidal(t).service(t)
			expired := time.Now().Add(-time.Hour)
			sess := &models.Session{TokenType: "Bearer", AccessToken: "old", RefreshToken: "revoked", ExpiryTime: &expired}

			if err := srv.LoadSession(ctx, sess); !errors.Is(err, shared.ErrSessionInvalid) {
				t.Errorf("expected ErrSessionInvalid, got %v", err)
			}
		})
	})

	t.Run("Catalogue", func(t *testing.T) {
		f := newFakeTidal(t)
		srv := f.service(t)
		if err := srv.LoadSession(ctx, validSession("good-token")); err != nil {
			t.Fatalf("failed to load session: %v", err)
		}

		t.Run("SearchVideos", func(t *testing.T) {
			videos, err := srv.SearchVideos(ctx, "Windowlicker Aphex Twin", 5)
			if err != nil {
				t.Fatalf("SearchVideos() error = %v", err)
			}
			if len(videos) != 3 {
				t.Fatalf("expected 3 videos, got %d", len(videos))
			}
			if videos[0].ArtistName() != "Aphex Twin" || videos[0].ImageID != "ab-cd" || videos[0].Duration != 363 {
				t.Errorf("unexpected first video: %+v", videos[0])
			}
			if videos[1].Artist == nil || videos[1].Artist.ID != 10 {
				t.Errorf("expected artist from artists list, got %+v", videos[1].Artist)
			}
			if videos[2].Artist != nil {
				t.Errorf("expected no artist, got %+v", videos[2].Artist)
			}
		})

		t.Run("SearchVideos Truncates To Limit", func(t *testing.T) {
			videos, err := srv.SearchVideos(ctx, "Aphex", 2)
			if err != nil {
				t.Fatalf("SearchVideos() error = %v", err)
			}
			if len(videos) != 2 {
				t.Errorf("expected 2 videos, got %d", len(videos))
			}
		})

		t.Run("SearchArtists", func(t *testing.T) {
			artists, err := srv.SearchArtists(ctx, "Aphex Twin", 5)
			if err != nil {
				t.Fatalf("SearchArtists() error = %v", err)
			}
			if len(artists) != 2 || artists[0].ID != 10 || artists[1].Name != "Aphex Twin Tribute" {
				t.Errorf("unexpected artists: %+v", artists)
			}
		})

		t.Run("ArtistVideos", func(t *testing.T) {
			videos, err := srv.ArtistVideos(ctx, 10, 30)
			if err != nil {
				t.Fatalf("ArtistVideos() error = %v", err)
			}
			if len(videos) != 1 || videos[0].ID != 5 || !videos[0].Explicit || videos[0].Popularity != 12 {
				t.Errorf("unexpected videos: %+v", videos)
			}
		})

		t.Run("Unknown Artist", func(t *testing.T) {
			if _, err := srv.ArtistVideos(ctx, 99, 30); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest for 404, got %v", err)
			}
		})

		t.Run("Server Error", func(t *testing.T) {
			f.searchStatus.Store(http.StatusInternalServerError)
			defer f.searchStatus.Store(0)

			if _, err := srv.SearchVideos(ctx, "x", 5); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Unauthorized", func(t *testing.T) {
			f.accessToken.Store("rotated")
			defer f.accessToken.Store("good-token")

			if _, err := srv.SearchVideos(ctx, "x", 5); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Device Flow Succeeds", func(t *testing.T) {
			f := newFakeTidal(t)
			srv := f.service(t)

			var got DeviceLogin
			if err := srv.Login(ctx, func(dl DeviceLogin) { got = dl }); err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if got.UserCode != "ABCDE" || got.URL != "https://link.example/ABCDE" {
				t.Errorf("unexpected device login: %+v", got)
			}
			if got.ExpiresIn < 290 || got.ExpiresIn > 300 {
				t.Errorf("expected ~300s expiry, got %d", got.ExpiresIn)
			}

			tok, err := srv.Token()
			if err != nil || tok.AccessToken != "good-token" {
				t.Errorf("expected issued token, got %v (%v)", tok, err)
			}
			if srv.UserID() != 1234 {
				t.Errorf("expected login to check the session, got user %d", srv.UserID())
			}
		})

		t.Run("Device Code Expired", func(t *testing.T) {
			f := newFakeTidal(t)
			f.tokenErr = "expired_token"
			srv := f.service(t)

			err := srv.Login(ctx, nil)
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
			if _, err := srv.Token(); err == nil {
				t.Error("failed login should not install a token")
			}
		})

		t.Run("Authorization Server Down", func(t *testing.T) {
			f := newFakeTidal(t)
			srv := f.service(t)
			f.server.Close()

			if err := srv.Login(ctx, nil); !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})
	})
}

func TestVideoImageURL(t *testing.T) {
	tc := []struct {
		name    string
		imageID string
		width   int
		want    string
		wantErr error
	}{
		{name: "valid width", imageID: "1b2c-3d4e", width: 750, want: "https://img.example/1b2c/3d4e/750x500.jpg"},
		{name: "smaller width", imageID: "1b2c-3d4e", width: 480, want: "https://img.example/1b2c/3d4e/480x320.jpg"},
		{name: "unsupported width", imageID: "1b2c-3d4e", width: 640, wantErr: shared.ErrInvalidImageSize},
		{name: "no image id", imageID: "", width: 750, wantErr: shared.ErrNoImage},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := videoImageURL("https://img.example", tt.imageID, tt.width)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("videoImageURL() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSessionStore(t *testing.T) {
	t.Run("Save And Load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".pool", ".tidal-session.json")
		store := NewSessionStore(path)
		expiry := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		err := store.Save(&oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", Expiry: expiry})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("session file should exist: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
		}

		sess, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if sess.AccessToken != "a" || sess.RefreshToken != "r" || sess.TokenType != "Bearer" {
			t.Errorf("unexpected session: %+v", sess)
		}
		if sess.ExpiryTime == nil || !sess.ExpiryTime.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, sess.ExpiryTime)
		}
	})

	t.Run("Null Expiry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		store := NewSessionStore(path)

		if err := store.Save(&oauth2.Token{AccessToken: "a", TokenType: "Bearer"}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		data, _ := os.ReadFile(path)
		if !strings.Contains(string(data), `"expiry_time": null`) {
			t.Errorf("expected null expiry in %s", data)
		}

		sess, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !SessionToken(sess).Expiry.IsZero() {
			t.Error("expected zero expiry on token")
		}
	})

	t.Run("Expiry Without Offset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		body := `{"token_type":"Bearer","access_token":"a","refresh_token":"r","expiry_time":"2026-10-15T12:34:56.123456"}`
		tu.MustWriteFile(t, path, body)

		sess, err := NewSessionStore(path).Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		want := time.Date(2026, 10, 15, 12, 34, 56, 123456000, time.Local)
		if got := SessionToken(sess).Expiry; !got.Equal(want) {
			t.Errorf("expected expiry %v, got %v", want, got)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := NewSessionStore(filepath.Join(t.TempDir(), "none.json")).Load()
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("Malformed File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		for _, body := range []string{"{not json", `{"token_type":"Bearer"}`} {
			os.WriteFile(path, []byte(body), 0600)
			if _, err := NewSessionStore(path).Load(); !errors.Is(err, shared.ErrSessionInvalid) {
				t.Errorf("expected ErrSessionInvalid for %q, got %v", body, err)
			}
		}
	})

	t.Run("Nil Token", func(t *testing.T) {
		if err := NewSessionStore(filepath.Join(t.TempDir(), "s.json")).Save(nil); err == nil {
			t.Error("expected error saving nil token")
		}
	})
}
