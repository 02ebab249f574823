package invidious

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthurmond/odeum/internal/source"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWithBaseURL(5*time.Second, source.NewRateLimiterMap(), logger, baseURL)
}

func TestFetchPlaylist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/playlists/PLindie123456" {
			t.Errorf("path = %q", r.URL.Path)
		}
		data, err := os.ReadFile(filepath.Join("testdata", "playlist.json"))
		if err != nil {
			t.Errorf("reading fixture: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	res, err := c.FetchPlaylist(context.Background(), "PLindie123456")
	if err != nil {
		t.Fatalf("FetchPlaylist: %v", err)
	}

	if res.Title != "Indie Picks" || res.Total != 17 {
		t.Errorf("res = %q/%d", res.Title, res.Total)
	}
	// The entry with an empty video id is dropped.
	if len(res.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(res.Items))
	}

	first := res.Items[0]
	if first.ID != "inv111aaa22" || first.DurationSeconds != 215 {
		t.Errorf("first item = %+v", first)
	}
	// Highest-resolution thumbnail wins regardless of array order.
	if first.Thumbnail != "https://img.example/q-large.jpg" {
		t.Errorf("thumbnail = %q", first.Thumbnail)
	}
	if first.ChannelURL != "https://www.youtube.com/channel/UCindie001" {
		t.Errorf("channel URL = %q", first.ChannelURL)
	}

	// No thumbnails and no author URL leave those fields empty.
	second := res.Items[1]
	if second.Thumbnail != "" || second.ChannelURL != "" {
		t.Errorf("second item = %+v", second)
	}
}

func TestFetchPlaylistRejectsAutoGenerated(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:0")
	_, err := c.FetchPlaylist(context.Background(), "RDEMabcdef123")

	var unsupported *source.ErrUnsupportedInput
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want ErrUnsupportedInput", err)
	}
}

func TestFetchPlaylistUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.FetchPlaylist(context.Background(), "PLindie123456")

	var upstream *source.ErrUpstream
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if upstream.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", upstream.Status)
	}
}

func TestFetchPlaylistMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{broken"))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.FetchPlaylist(context.Background(), "PLindie123456")

	var malformed *source.ErrMalformed
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestLargestThumbnail(t *testing.T) {
	thumbs := []thumbnailItem{
		{URL: "a", Width: 100, Height: 100},
		{URL: "b", Width: 640, Height: 480},
		{URL: "c", Width: 320, Height: 240},
	}
	if got := largestThumbnail(thumbs); got != "b" {
		t.Errorf("largestThumbnail = %q, want b", got)
	}
	if got := largestThumbnail(nil); got != "" {
		t.Errorf("largestThumbnail(nil) = %q, want empty", got)
	}
}
