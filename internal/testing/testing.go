// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// FakeProvider is a scripted, in-memory stand-in for services.VideoProvider.
//
// Responses are keyed by query, artist name or artist id; a key with an entry in the matching
// error map fails instead. Every call is appended to Calls as "<method>:<key>".
type FakeProvider struct {
	VideoResults       map[string][]models.Video
	VideoErrs          map[string]error
	ArtistResults      map[string][]models.Artist
	ArtistErrs         map[string]error
	ArtistVideoResults map[int64][]models.Video
	ArtistVideoErrs    map[int64]error
	BadImageWidths     map[int]bool
	Calls              []string
}

func (f *FakeProvider) SearchVideos(ctx context.Context, query string, limit int) ([]models.Video, error) {
	f.Calls = append(f.Calls, "videos:"+query)
	if err := f.VideoErrs[query]; err != nil {
		return nil, err
	}
	return truncate(f.VideoResults[query], limit), nil
}

func (f *FakeProvider) SearchArtists(ctx context.Context, name string, limit int) ([]models.Artist, error) {
	f.Calls = append(f.Calls, "artists:"+name)
	if err := f.ArtistErrs[name]; err != nil {
		return nil, err
	}
	artists := f.ArtistResults[name]
	if limit > 0 && len(artists) > limit {
		artists = artists[:limit]
	}
	return artists, nil
}

func (f *FakeProvider) ArtistVideos(ctx context.Context, artistID int64, limit int) ([]models.Video, error) {
	f.Calls = append(f.Calls, fmt.Sprintf("artist-videos:%d", artistID))
	if err := f.ArtistVideoErrs[artistID]; err != nil {
		return nil, err
	}
	return truncate(f.ArtistVideoResults[artistID], limit), nil
}

func (f *FakeProvider) VideoImageURL(v models.Video, width int) (string, error) {
	if v.ImageID == "" {
		return "", shared.ErrNoImage
	}
	if f.BadImageWidths[width] {
		return "", fmt.Errorf("%w: %d", shared.ErrInvalidImageSize, width)
	}
	return fmt.Sprintf("https://img.test/%s/%d.jpg", v.ImageID, width), nil
}

func (f *FakeProvider) Name() string { return "fake" }

func truncate(videos []models.Video, limit int) []models.Video {
	if limit > 0 && len(videos) > limit {
		return videos[:limit]
	}
	return videos
}

// NewVideo builds a video by the given artist; artist may be "" for a video without one.
func NewVideo(id int64, title, artist string) models.Video {
	v := models.Video{ID: id, Title: title, ImageID: fmt.Sprintf("img-%d", id)}
	if artist != "" {
		v.Artist = &models.Artist{ID: id * 100, Name: artist}
	}
	return v
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := shared.EnsureParentDir(path); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
