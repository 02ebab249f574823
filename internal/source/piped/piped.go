// Package piped resolves playlists through a Piped instance's metadata
// API. Piped serves less metadata than the browse endpoint but with a
// stable documented-ish shape, making it the first fallback.
package piped

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pthurmond/odeum/internal/source"
)

const defaultBaseURL = "https://pipedapi.kavin.rocks"

// Client implements source.PlaylistSource and source.ArtistSource against
// a Piped instance. It also serves the trending feed as a single-section
// fallback for the home feed.
type Client struct {
	client  *http.Client
	limiter *source.RateLimiterMap
	logger  *slog.Logger
	baseURL string
	timeout time.Duration
	region  string
}

// New creates a Piped client with the default public instance.
func New(timeout time.Duration, limiter *source.RateLimiterMap, logger *slog.Logger) *Client {
	return NewWithBaseURL(timeout, limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates a Piped client with a custom base URL (for testing).
func NewWithBaseURL(timeout time.Duration, limiter *source.RateLimiterMap, logger *slog.Logger, baseURL string) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger.With(slog.String("source", "piped")),
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		region:  "US",
	}
}

// Name returns the source identifier.
func (c *Client) Name() source.Name { return source.NamePiped }

// FetchPlaylist resolves a playlist by raw id (Piped addresses playlists
// by the bare id, no prefix, no URL).
func (c *Client) FetchPlaylist(ctx context.Context, id string) (*source.Result, error) {
	if source.IsAutoGenerated(id) {
		return nil, &source.ErrUnsupportedInput{Input: id, Reason: "mix/radio ids are not served by Piped"}
	}

	return source.Guard(ctx, source.NamePiped, c.timeout, func(ctx context.Context) (*source.Result, error) {
		body, err := c.get(ctx, "/playlists/"+url.PathEscape(id))
		if err != nil {
			return nil, err
		}

		var resp playlistResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, &source.ErrMalformed{Source: source.NamePiped, Cause: err}
		}

		return &source.Result{
			Title:     resp.Name,
			Thumbnail: resp.ThumbnailURL,
			Total:     resp.Videos,
			Items:     normalizeStreams(resp.RelatedStreams),
		}, nil
	})
}

// FetchArtist resolves an artist name through music-song search.
func (c *Client) FetchArtist(ctx context.Context, artist string) (*source.Result, error) {
	return source.Guard(ctx, source.NamePiped, c.timeout, func(ctx context.Context) (*source.Result, error) {
		params := url.Values{
			"q":      {artist},
			"filter": {"music_songs"},
		}
		body, err := c.get(ctx, "/search?"+params.Encode())
		if err != nil {
			return nil, err
		}

		var resp searchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, &source.ErrMalformed{Source: source.NamePiped, Cause: err}
		}

		return &source.Result{
			Title: artist,
			Items: normalizeStreams(resp.Items),
		}, nil
	})
}

// FetchFeed serves the home feed as a single "Trending" section. Genre
// feeds are browse-endpoint territory and not supported here.
func (c *Client) FetchFeed(ctx context.Context, feedID string) ([]source.Section, error) {
	if feedID != "FEmusic_home" {
		return nil, &source.ErrUnsupportedInput{Input: feedID, Reason: "only the home feed is served by Piped"}
	}

	return source.Guard(ctx, source.NamePiped, c.timeout, func(ctx context.Context) ([]source.Section, error) {
		body, err := c.get(ctx, "/trending?region="+url.QueryEscape(c.region))
		if err != nil {
			return nil, err
		}

		var items []streamItem
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, &source.ErrMalformed{Source: source.NamePiped, Cause: err}
		}

		normalized := normalizeStreams(items)
		if len(normalized) == 0 {
			return nil, nil
		}
		return []source.Section{{Title: "Trending", Items: normalized}}, nil
	})
}

// get executes a GET request and returns the response body.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, source.NamePiped); err != nil {
		return nil, &source.ErrUpstream{Source: source.NamePiped, Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &source.ErrUpstream{Source: source.NamePiped, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &source.ErrUpstream{Source: source.NamePiped, Status: resp.StatusCode}
	}

	return io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
}

// normalizeStreams converts stream entries to items. Entries whose URL
// carries no video id are dropped.
func normalizeStreams(streams []streamItem) []source.Item {
	items := make([]source.Item, 0, len(streams))
	for _, s := range streams {
		id := videoIDFromURL(s.URL)
		if id == "" {
			continue
		}

		duration := s.Duration
		if duration < 0 {
			duration = 0 // livestreams report -1
		}

		item := source.Item{
			ID:              id,
			Title:           s.Title,
			URL:             source.WatchURL(id),
			Thumbnail:       s.Thumbnail,
			DurationSeconds: duration,
			ChannelName:     s.UploaderName,
		}
		if s.UploaderURL != "" {
			item.ChannelURL = "https://www.youtube.com" + s.UploaderURL
		}
		items = append(items, item)
	}
	return items
}

// videoIDFromURL extracts the video id from a relative watch URL
// ("/watch?v=abc123").
func videoIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}
