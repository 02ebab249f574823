package innertube

import (
	"context"
	"encoding/json"
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

func testClient(t *testing.T, baseURL string, cfg Config) *Client {
	t.Helper()
	if cfg.ClientName == "" {
		cfg.ClientName = "WEB_REMIX"
		cfg.ClientVersion = "1.20240101.00.00"
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWithBaseURL(cfg, source.NewRateLimiterMap(), logger, baseURL)
}

func serveFixture(t *testing.T, w http.ResponseWriter, name string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Errorf("reading fixture %s: %v", name, err)
		http.Error(w, "missing fixture", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func TestFetchPlaylistFollowsContinuations(t *testing.T) {
	var browseIDs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.URL.Query().Get("continuation"); token != "" {
			if token != "token-page-2" {
				t.Errorf("unexpected continuation token %q", token)
			}
			serveFixture(t, w, "playlist_page2.json")
			return
		}
		var body struct {
			BrowseID string `json:"browseId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		browseIDs = append(browseIDs, body.BrowseID)
		serveFixture(t, w, "playlist_page1.json")
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	res, err := c.FetchPlaylist(context.Background(), "PLabcdefghij1234")
	if err != nil {
		t.Fatalf("FetchPlaylist: %v", err)
	}

	if len(browseIDs) != 1 || browseIDs[0] != "VLPLabcdefghij1234" {
		t.Errorf("browse ids = %v, want one VL-prefixed id", browseIDs)
	}
	if res.Title != "Long Playlist" || res.Total != 200 {
		t.Errorf("res = %q/%d", res.Title, res.Total)
	}

	wantOrder := []string{"page1vid001", "page2vid001", "page2vid002"}
	if len(res.Items) != len(wantOrder) {
		t.Fatalf("got %d items, want %d", len(res.Items), len(wantOrder))
	}
	for i, id := range wantOrder {
		if res.Items[i].ID != id {
			t.Errorf("items[%d] = %s, want %s", i, res.Items[i].ID, id)
		}
	}
}

func TestFetchPlaylistKeepsExistingVLPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BrowseID string `json:"browseId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.BrowseID != "VLPLabcdefghij1234" {
			t.Errorf("browse id = %q", body.BrowseID)
		}
		serveFixture(t, w, "playlist_single_column.json")
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	if _, err := c.FetchPlaylist(context.Background(), "VLPLabcdefghij1234"); err != nil {
		t.Fatalf("FetchPlaylist: %v", err)
	}
}

func TestFetchPlaylistRejectsAutoGenerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("auto-generated id reached the network")
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	_, err := c.FetchPlaylist(context.Background(), "RDAMVMabc123")

	var unsupported *source.ErrUnsupportedInput
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want ErrUnsupportedInput", err)
	}
}

func TestFetchPlaylistUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	_, err := c.FetchPlaylist(context.Background(), "PLabcdefghij1234")

	var upstream *source.ErrUpstream
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if upstream.Status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", upstream.Status)
	}
}

func TestFetchPlaylistMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	_, err := c.FetchPlaylist(context.Background(), "PLabcdefghij1234")

	var malformed *source.ErrMalformed
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestFetchPlaylistQuickRetryAfterBulkTimeout(t *testing.T) {
	// Every browse call takes 200ms. The bulk fetch needs two calls and
	// blows its 300ms budget; the quick retry needs one and fits.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		if r.URL.Query().Get("continuation") != "" {
			serveFixture(t, w, "playlist_page2.json")
			return
		}
		serveFixture(t, w, "playlist_page1.json")
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{
		FetchTimeout: 300 * time.Millisecond,
		QuickTimeout: 2 * time.Second,
	})

	res, err := c.FetchPlaylist(context.Background(), "PLabcdefghij1234")
	if err != nil {
		t.Fatalf("FetchPlaylist: %v", err)
	}
	// Only the first page made it.
	if len(res.Items) != 1 || res.Items[0].ID != "page1vid001" {
		t.Errorf("items = %+v, want first page only", res.Items)
	}
}

func TestFetchArtist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query  string `json:"query"`
			Params string `json:"params"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Query != "Famous Artist" {
			t.Errorf("query = %q", body.Query)
		}
		if body.Params == "" {
			t.Error("expected songs filter params")
		}
		serveFixture(t, w, "search_songs.json")
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	res, err := c.FetchArtist(context.Background(), "Famous Artist")
	if err != nil {
		t.Fatalf("FetchArtist: %v", err)
	}
	if res.Title != "Famous Artist" {
		t.Errorf("title = %q", res.Title)
	}
	if len(res.Items) != 2 {
		t.Errorf("got %d items, want 2", len(res.Items))
	}
}

func TestFetchFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BrowseID string `json:"browseId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.BrowseID != "FEmusic_home" {
			t.Errorf("browse id = %q", body.BrowseID)
		}
		serveFixture(t, w, "feed_home.json")
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, Config{})
	sections, err := c.FetchFeed(context.Background(), "FEmusic_home")
	if err != nil {
		t.Fatalf("FetchFeed: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
}
