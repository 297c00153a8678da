package tasks

import (
	"errors"
	"testing"

	"github.com/desertthunder/vidx/internal/models"
	tu "github.com/desertthunder/vidx/internal/testing"
)

func TestAccumulator(t *testing.T) {
	const browse = "https://tidal.com/browse/video"

	t.Run("Dedup Keeps First Record", func(t *testing.T) {
		acc := NewAccumulator(&tu.FakeProvider{}, browse, 750, 480)

		if !acc.Add(tu.NewVideo(1, "first", "Aphex Twin")) {
			t.Fatal("expected first add to succeed")
		}
		if acc.Add(tu.NewVideo(1, "second", "Someone Else")) {
			t.Error("expected duplicate id to be rejected")
		}
		if acc.Len() != 1 {
			t.Errorf("expected 1 record, got %d", acc.Len())
		}
		if got := acc.Records()[0].Title; got != "first" {
			t.Errorf("expected first record to win, got %q", got)
		}
	})

	t.Run("Merge Counts New Videos", func(t *testing.T) {
		acc := NewAccumulator(nil, browse)

		n := acc.Merge(ItemResult{Videos: []models.Video{
			tu.NewVideo(1, "a", "X"), tu.NewVideo(2, "b", "X"), tu.NewVideo(1, "a", "X"),
		}})
		if n != 2 {
			t.Errorf("expected 2 new, got %d", n)
		}

		n = acc.Merge(ItemResult{Videos: []models.Video{tu.NewVideo(2, "b", "X"), tu.NewVideo(3, "c", "X")}})
		if n != 1 {
			t.Errorf("expected 1 new, got %d", n)
		}

		if n := acc.Merge(ItemResult{Err: errors.New("boom")}); n != 0 {
			t.Errorf("failed result should add nothing, got %d", n)
		}

		var got []int64
		for _, r := range acc.Records() {
			got = append(got, r.VideoID)
		}
		want := []int64{1, 2, 3}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected order %v, got %v", want, got)
			}
		}
	})

	t.Run("Records Returns Copy", func(t *testing.T) {
		acc := NewAccumulator(nil, browse)
		acc.Add(tu.NewVideo(1, "a", "X"))

		recs := acc.Records()
		recs[0].Title = "changed"
		if acc.Records()[0].Title != "a" {
			t.Error("mutating the returned slice changed the accumulator")
		}
	})

	t.Run("Record Fields", func(t *testing.T) {
		acc := NewAccumulator(&tu.FakeProvider{}, browse, 750, 480)
		acc.Add(tu.NewVideo(42, "Come to Daddy", "Aphex Twin"))
		acc.Add(tu.NewVideo(43, "Untitled", ""))

		recs := acc.Records()
		r := recs[0]
		if r.ID != "tidal-video-42" || r.VideoID != 42 || r.Type != "tidal-video" || r.Source != "Tidal Video" {
			t.Errorf("unexpected identity fields %+v", r)
		}
		if r.TidalURL != "https://tidal.com/browse/video/42" {
			t.Errorf("unexpected url %q", r.TidalURL)
		}
		if r.ArtistID == nil || *r.ArtistID != 4200 || r.Artist != "Aphex Twin" {
			t.Errorf("unexpected artist fields %q %v", r.Artist, r.ArtistID)
		}

		if recs[1].Artist != "Unknown" || recs[1].ArtistID != nil {
			t.Errorf("expected Unknown artist with null id, got %q %v", recs[1].Artist, recs[1].ArtistID)
		}
	})

	t.Run("Image Widths", func(t *testing.T) {
		tc := []struct {
			name  string
			bad   map[int]bool
			video models.Video
			want  string
		}{
			{"primary", nil, tu.NewVideo(1, "a", "X"), "https://img.test/img-1/750.jpg"},
			{"fallback", map[int]bool{750: true}, tu.NewVideo(1, "a", "X"), "https://img.test/img-1/480.jpg"},
			{"none valid", map[int]bool{750: true, 480: true}, tu.NewVideo(1, "a", "X"), ""},
			{"no image id", nil, models.Video{ID: 1}, ""},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				acc := NewAccumulator(&tu.FakeProvider{BadImageWidths: tt.bad}, browse, 750, 480)
				acc.Add(tt.video)

				got := acc.Records()[0].ImageURL
				switch {
				case tt.want == "" && got != nil:
					t.Errorf("expected null image, got %q", *got)
				case tt.want != "" && (got == nil || *got != tt.want):
					t.Errorf("expected %q, got %v", tt.want, got)
				}
			})
		}
	})
}
