// Package invidious resolves playlists through an Invidious instance's
// API. Third in the fallback chain: typed responses, but public instances
// are slow and rate-limit aggressively.
package invidious

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

const defaultBaseURL = "https://inv.nadeko.net"

// Client implements source.PlaylistSource against an Invidious instance.
type Client struct {
	client  *http.Client
	limiter *source.RateLimiterMap
	logger  *slog.Logger
	baseURL string
	timeout time.Duration
}

// New creates an Invidious client with the default public instance.
func New(timeout time.Duration, limiter *source.RateLimiterMap, logger *slog.Logger) *Client {
	return NewWithBaseURL(timeout, limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates an Invidious client with a custom base URL (for testing).
func NewWithBaseURL(timeout time.Duration, limiter *source.RateLimiterMap, logger *slog.Logger, baseURL string) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger.With(slog.String("source", "invidious")),
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// Name returns the source identifier.
func (c *Client) Name() source.Name { return source.NameInvidious }

// FetchPlaylist resolves a playlist by raw id.
func (c *Client) FetchPlaylist(ctx context.Context, id string) (*source.Result, error) {
	if source.IsAutoGenerated(id) {
		return nil, &source.ErrUnsupportedInput{Input: id, Reason: "mix/radio ids are not served by Invidious"}
	}

	return source.Guard(ctx, source.NameInvidious, c.timeout, func(ctx context.Context) (*source.Result, error) {
		reqURL := c.baseURL + "/api/v1/playlists/" + url.PathEscape(id)

		if err := c.limiter.Wait(ctx, source.NameInvidious); err != nil {
			return nil, &source.ErrUpstream{Source: source.NameInvidious, Cause: fmt.Errorf("rate limiter: %w", err)}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, &source.ErrUpstream{Source: source.NameInvidious, Cause: err}
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			return nil, &source.ErrUpstream{Source: source.NameInvidious, Status: resp.StatusCode}
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
		if err != nil {
			return nil, &source.ErrUpstream{Source: source.NameInvidious, Cause: err}
		}

		var pl playlistResponse
		if err := json.Unmarshal(body, &pl); err != nil {
			return nil, &source.ErrMalformed{Source: source.NameInvidious, Cause: err}
		}

		return &source.Result{
			Title: pl.Title,
			Total: pl.VideoCount,
			Items: normalizeVideos(pl.Videos),
		}, nil
	})
}

// normalizeVideos converts playlist entries to items, dropping entries
// without a video id.
func normalizeVideos(videos []videoItem) []source.Item {
	items := make([]source.Item, 0, len(videos))
	for _, v := range videos {
		if v.VideoID == "" {
			continue
		}

		item := source.Item{
			ID:              v.VideoID,
			Title:           v.Title,
			URL:             source.WatchURL(v.VideoID),
			Thumbnail:       largestThumbnail(v.VideoThumbnails),
			DurationSeconds: v.LengthSeconds,
			ChannelName:     v.Author,
		}
		if v.AuthorURL != "" {
			item.ChannelURL = "https://www.youtube.com" + v.AuthorURL
		}
		items = append(items, item)
	}
	return items
}

// largestThumbnail picks the highest-resolution thumbnail on offer.
func largestThumbnail(thumbs []thumbnailItem) string {
	best := ""
	bestArea := 0
	for _, t := range thumbs {
		area := t.Width * t.Height
		if area > bestArea || (best == "" && t.URL != "") {
			best = t.URL
			bestArea = area
		}
	}
	return best
}
