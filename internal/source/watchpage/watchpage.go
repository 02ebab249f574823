// Package watchpage scrapes the public playlist page as the last-resort
// source. It pulls the ytInitialData JSON blob embedded in the page and
// normalizes it; page <meta> tags cover the title when the blob omits it.
package watchpage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pthurmond/odeum/internal/source"
	"github.com/pthurmond/odeum/internal/tree"
)

const defaultBaseURL = "https://www.youtube.com"

// initialDataPattern matches the embedded response blob. The page embeds
// it as a statement, so the match runs to the closing `};`.
var initialDataPattern = regexp.MustCompile(`(?s)(?:var\s+ytInitialData|window\["ytInitialData"\])\s*=\s*(\{.*?\});`)

// Scraper implements source.PlaylistSource by scraping the public
// playlist page.
type Scraper struct {
	client    *http.Client
	limiter   *source.RateLimiterMap
	logger    *slog.Logger
	baseURL   string
	userAgent string
	timeout   time.Duration
}

// New creates a page scraper for the public site.
func New(timeout time.Duration, userAgent string, limiter *source.RateLimiterMap, logger *slog.Logger) *Scraper {
	return NewWithBaseURL(timeout, userAgent, limiter, logger, defaultBaseURL)
}

// NewWithBaseURL creates a page scraper with a custom base URL (for testing).
func NewWithBaseURL(timeout time.Duration, userAgent string, limiter *source.RateLimiterMap, logger *slog.Logger, baseURL string) *Scraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		limiter:   limiter,
		logger:    logger.With(slog.String("source", "watchpage")),
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Name returns the source identifier.
func (s *Scraper) Name() source.Name { return source.NameWatchPage }

// FetchPlaylist scrapes the playlist page for the raw id. The id is
// reformatted into the full public URL this source addresses by.
func (s *Scraper) FetchPlaylist(ctx context.Context, id string) (*source.Result, error) {
	if source.IsAutoGenerated(id) {
		return nil, &source.ErrUnsupportedInput{Input: id, Reason: "mix/radio ids have no public playlist page"}
	}

	return source.Guard(ctx, source.NameWatchPage, s.timeout, func(ctx context.Context) (*source.Result, error) {
		doc, err := s.fetchPage(ctx, "/playlist?list="+url.QueryEscape(id))
		if err != nil {
			return nil, err
		}
		return normalizePage(doc)
	})
}

// fetchPage GETs one page and parses it into a goquery document.
func (s *Scraper) fetchPage(ctx context.Context, path string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx, source.NameWatchPage); err != nil {
		return nil, &source.ErrUpstream{Source: source.NameWatchPage, Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &source.ErrUpstream{Source: source.NameWatchPage, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &source.ErrUpstream{Source: source.NameWatchPage, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return nil, &source.ErrMalformed{Source: source.NameWatchPage, Cause: err}
	}
	return doc, nil
}

var pageTitlePaths = []tree.Path{
	tree.P("metadata", "playlistMetadataRenderer", "title"),
	tree.P("header", "playlistHeaderRenderer", "title", "simpleText"),
	tree.P("microformat", "microformatDataRenderer", "title"),
}

var pageCountPaths = []tree.Path{
	tree.P("header", "playlistHeaderRenderer", "numVideosText", "runs", 0, "text"),
	tree.P("sidebar", "playlistSidebarRenderer", "items", 0, "playlistSidebarPrimaryInfoRenderer", "stats", 0, "runs", 0, "text"),
}

var pageItemsPaths = []tree.Path{
	tree.P("contents", "twoColumnBrowseResultsRenderer", "tabs", 0, "tabRenderer", "content", "sectionListRenderer", "contents", 0, "itemSectionRenderer", "contents", 0, "playlistVideoListRenderer", "contents"),
}

var digitsPattern = regexp.MustCompile(`[\d,]+`)

// normalizePage extracts the playlist from a parsed page.
func normalizePage(doc *goquery.Document) (*source.Result, error) {
	root, err := initialData(doc)
	if err != nil {
		return nil, err
	}

	title := tree.Text(root, "", pageTitlePaths...)
	if title == "" {
		// The blob's metadata block disappears in some variants; the
		// OpenGraph tag survives.
		title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
	}

	thumb, _ := doc.Find(`meta[property="og:image"]`).Attr("content")

	return &source.Result{
		Title:     title,
		Thumbnail: thumb,
		Total:     countFromText(tree.Text(root, "", pageCountPaths...)),
		Items:     normalizeEntries(tree.First(root, pageItemsPaths...)),
	}, nil
}

// initialData locates and decodes the embedded response blob.
func initialData(doc *goquery.Document) (map[string]any, error) {
	var blob string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !strings.Contains(text, "ytInitialData") {
			return true
		}
		if m := initialDataPattern.FindStringSubmatch(text); m != nil {
			blob = m[1]
			return false
		}
		return true
	})

	if blob == "" {
		return nil, &source.ErrMalformed{Source: source.NameWatchPage, Cause: fmt.Errorf("no embedded data blob in page")}
	}

	var root map[string]any
	if err := json.Unmarshal([]byte(blob), &root); err != nil {
		return nil, &source.ErrMalformed{Source: source.NameWatchPage, Cause: err}
	}
	return root, nil
}

var entryDurationSecondsPaths = []tree.Path{
	tree.P("lengthSeconds"),
}

var entryDurationMillisPaths = []tree.Path{
	tree.P("lengthMs"),
}

var entryDurationTextPaths = []tree.Path{
	tree.P("lengthText", "simpleText"),
}

// normalizeEntries converts the raw playlistVideoRenderer list. Entries
// without a video id are dropped.
func normalizeEntries(node any) []source.Item {
	raw, _ := node.([]any)
	items := make([]source.Item, 0, len(raw))
	for _, entry := range raw {
		renderer := tree.Get(entry, tree.P("playlistVideoRenderer"))
		if renderer == nil {
			continue
		}

		id := tree.Text(renderer, "", tree.P("videoId"))
		if id == "" {
			continue
		}

		item := source.Item{
			ID:              id,
			Title:           tree.Text(renderer, "", tree.P("title", "runs", 0, "text"), tree.P("title", "simpleText")),
			URL:             source.WatchURL(id),
			DurationSeconds: entryDuration(renderer),
			ChannelName:     tree.Text(renderer, "", tree.P("shortBylineText", "runs", 0, "text")),
		}

		if thumbs := tree.Slice(renderer, tree.P("thumbnail", "thumbnails")); len(thumbs) > 0 {
			item.Thumbnail = tree.Text(thumbs[len(thumbs)-1], "", tree.P("url"))
		}
		if base := tree.Text(renderer, "", tree.P("shortBylineText", "runs", 0, "navigationEndpoint", "browseEndpoint", "canonicalBaseUrl")); base != "" {
			item.ChannelURL = "https://www.youtube.com" + base
		}

		items = append(items, item)
	}
	return items
}

// entryDuration probes the three duration encodings seen on this page:
// seconds (stringified), milliseconds, then the clock-style display text.
func entryDuration(renderer any) int {
	if secs := tree.Int(renderer, entryDurationSecondsPaths...); secs > 0 {
		return secs
	}
	if ms := tree.Int(renderer, entryDurationMillisPaths...); ms > 0 {
		return source.DurationFromMillis(ms)
	}
	return source.ParseDurationText(tree.Text(renderer, "", entryDurationTextPaths...))
}

// countFromText pulls the integer out of text such as "123 videos",
// tolerating thousands separators.
func countFromText(s string) int {
	match := digitsPattern.FindString(s)
	if match == "" {
		return 0
	}
	n := 0
	for _, r := range match {
		if r == ',' {
			continue
		}
		n = n*10 + int(r-'0')
	}
	return n
}
