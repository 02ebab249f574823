// Package innertube talks to the music service's internal browse endpoint.
// It is the richest source in the fallback chain and the only one serving
// feed-shaped (shelf) responses. The wire format is undocumented and
// changes without notice; normalization is defensive, not authoritative.
package innertube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pthurmond/odeum/internal/source"
)

const defaultBaseURL = "https://music.youtube.com/youtubei/v1"

// searchSongsParams filters a search request to song results.
const searchSongsParams = "Eg-KAQwIARAAGAAgACgAMABqChAEEAMQCRAFEAo%3D"

// maxContinuationPages bounds the bulk fetch. Pages past this add latency
// without fitting under the resolution cap anyway.
const maxContinuationPages = 4

// Config carries the request fingerprint the browse endpoint expects.
// These drift upstream independently of the pipeline, so they arrive from
// configuration rather than living here as constants.
type Config struct {
	ClientName    string
	ClientVersion string
	VisitorData   string
	UserAgent     string
	HL            string
	GL            string

	// FetchTimeout bounds the bulk fetch (first page + continuations).
	// QuickTimeout bounds the first-page-only fallback fetch.
	FetchTimeout time.Duration
	QuickTimeout time.Duration
}

// Client implements source.PlaylistSource, source.ArtistSource, and
// source.FeedSource against the internal browse endpoint.
type Client struct {
	client  *http.Client
	cfg     Config
	limiter *source.RateLimiterMap
	logger  *slog.Logger
	baseURL string
}

// New creates a browse client with the default base URL.
func New(cfg Config, limiter *source.RateLimiterMap, logger *slog.Logger) *Client {
	return NewWithBaseURL(cfg, limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates a browse client with a custom base URL (for testing).
func NewWithBaseURL(cfg Config, limiter *source.RateLimiterMap, logger *slog.Logger, baseURL string) *Client {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 20 * time.Second
	}
	if cfg.QuickTimeout <= 0 {
		cfg.QuickTimeout = 6 * time.Second
	}
	return &Client{
		client:  &http.Client{Timeout: cfg.FetchTimeout},
		cfg:     cfg,
		limiter: limiter,
		logger:  logger.With(slog.String("source", "browse")),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the source identifier.
func (c *Client) Name() source.Name { return source.NameBrowse }

// FetchPlaylist resolves a playlist id through the browse endpoint. The id
// is reformatted to the VL-prefixed browse form this endpoint expects.
//
// Two-tier fetch: the bulk path follows continuations under the long
// deadline; if that times out, a first-page-only fetch under the short
// deadline is tried before giving up on this source.
func (c *Client) FetchPlaylist(ctx context.Context, id string) (*source.Result, error) {
	if source.IsAutoGenerated(id) {
		return nil, &source.ErrUnsupportedInput{Input: id, Reason: "mix/radio ids have no browse page"}
	}

	browseID := "VL" + strings.TrimPrefix(id, "VL")

	res, err := source.Guard(ctx, source.NameBrowse, c.cfg.FetchTimeout, func(ctx context.Context) (*source.Result, error) {
		return c.fetchPlaylistPages(ctx, browseID, maxContinuationPages)
	})
	if err == nil {
		return res, nil
	}

	var timeout *source.ErrTimeout
	if !errors.As(err, &timeout) {
		return nil, err
	}

	c.logger.Debug("bulk fetch timed out, retrying first page only",
		slog.String("browse_id", browseID))

	return source.Guard(ctx, source.NameBrowse, c.cfg.QuickTimeout, func(ctx context.Context) (*source.Result, error) {
		return c.fetchPlaylistPages(ctx, browseID, 1)
	})
}

// FetchArtist resolves an artist display name to their top songs via the
// search endpoint.
func (c *Client) FetchArtist(ctx context.Context, artist string) (*source.Result, error) {
	return source.Guard(ctx, source.NameBrowse, c.cfg.FetchTimeout, func(ctx context.Context) (*source.Result, error) {
		root, err := c.post(ctx, "/search", map[string]any{
			"context": c.requestContext(),
			"query":   artist,
			"params":  searchSongsParams,
		})
		if err != nil {
			return nil, err
		}

		items := normalizeSearchSongs(root)
		return &source.Result{Title: artist, Items: items}, nil
	})
}

// FetchFeed resolves a feed browse id (home, genre) into sections.
func (c *Client) FetchFeed(ctx context.Context, feedID string) ([]source.Section, error) {
	return source.Guard(ctx, source.NameBrowse, c.cfg.FetchTimeout, func(ctx context.Context) ([]source.Section, error) {
		root, err := c.browse(ctx, feedID, "")
		if err != nil {
			return nil, err
		}
		return extractSections(root, c.logger), nil
	})
}

// fetchPlaylistPages fetches the playlist page and up to maxPages-1
// continuations, concatenating item pages in upstream order.
func (c *Client) fetchPlaylistPages(ctx context.Context, browseID string, maxPages int) (*source.Result, error) {
	root, err := c.browse(ctx, browseID, "")
	if err != nil {
		return nil, err
	}

	res := normalizePlaylist(root)
	token := continuationToken(root)

	for page := 1; page < maxPages && token != ""; page++ {
		next, err := c.browse(ctx, "", token)
		if err != nil {
			// Pages already fetched stay valid; the envelope reports
			// truncation against the upstream total.
			c.logger.Debug("continuation fetch failed, keeping partial pages",
				slog.Int("pages", page),
				slog.String("error", err.Error()))
			break
		}
		res.Items = append(res.Items, normalizeItems(continuationItems(next))...)
		token = continuationToken(next)
	}

	return res, nil
}

// browse issues one POST to the browse endpoint, either by browse id or by
// continuation token.
func (c *Client) browse(ctx context.Context, browseID, continuation string) (map[string]any, error) {
	body := map[string]any{
		"context": c.requestContext(),
	}
	endpoint := "/browse"
	if continuation != "" {
		endpoint = fmt.Sprintf("/browse?continuation=%s&ctoken=%s", continuation, continuation)
	} else {
		body["browseId"] = browseID
	}
	return c.post(ctx, endpoint, body)
}

// post sends a JSON request and decodes the raw response tree.
func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	if err := c.limiter.Wait(ctx, source.NameBrowse); err != nil {
		return nil, &source.ErrUpstream{Source: source.NameBrowse, Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding browse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://music.youtube.com")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.VisitorData != "" {
		req.Header.Set("X-Goog-Visitor-Id", c.cfg.VisitorData)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &source.ErrUpstream{Source: source.NameBrowse, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &source.ErrUpstream{Source: source.NameBrowse, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8*1024*1024))
	if err != nil {
		return nil, &source.ErrUpstream{Source: source.NameBrowse, Cause: err}
	}

	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, &source.ErrMalformed{Source: source.NameBrowse, Cause: err}
	}
	return root, nil
}

// requestContext builds the client fingerprint block every request carries.
func (c *Client) requestContext() map[string]any {
	client := map[string]any{
		"clientName":    c.cfg.ClientName,
		"clientVersion": c.cfg.ClientVersion,
		"hl":            c.cfg.HL,
		"gl":            c.cfg.GL,
	}
	if c.cfg.VisitorData != "" {
		client["visitorData"] = c.cfg.VisitorData
	}
	if c.cfg.UserAgent != "" {
		client["userAgent"] = c.cfg.UserAgent
	}
	return map[string]any{"client": client}
}
