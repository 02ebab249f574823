// Package source resolves playlist, artist, and feed inputs against a
// prioritized chain of upstream data providers and normalizes their
// responses into one shared model.
package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Name uniquely identifies an upstream source.
type Name string

// Known source names, in fallback priority order: richest metadata first,
// scraping-only fallback last. The order changes which metadata fields
// are likely to be populated.
const (
	NameBrowse    Name = "browse"    // music browse endpoint (internal API)
	NamePiped     Name = "piped"     // Piped metadata API
	NameInvidious Name = "invidious" // Invidious API
	NameWatchPage Name = "watchpage" // public playlist page scraping
)

// AllNames returns all known source names in fallback priority order.
func AllNames() []Name {
	return []Name{NameBrowse, NamePiped, NameInvidious, NameWatchPage}
}

// DisplayName returns a human-readable name for the source.
func (n Name) DisplayName() string {
	switch n {
	case NameBrowse:
		return "Music Browse"
	case NamePiped:
		return "Piped"
	case NameInvidious:
		return "Invidious"
	case NameWatchPage:
		return "Watch Page"
	default:
		return string(n)
	}
}

// Placeholder values used when upstream omits a field entirely.
const (
	PlaceholderTitle        = "Unknown playlist"
	PlaceholderSectionTitle = "Unknown"
)

// Item is one playable unit. An Item always carries a non-empty ID; entries
// missing one are dropped during normalization, never passed through.
type Item struct {
	ID              string
	Title           string
	URL             string
	Thumbnail       string
	DurationSeconds int
	ChannelName     string
	ChannelURL      string
}

// Playlist is the fully-populated result of one resolution. Item order is
// upstream order and drives the playback queue; it is never reordered.
type Playlist struct {
	Title         string
	Thumbnail     string
	Items         []Item
	TotalCount    int // upstream-reported, 0 = unknown
	ReturnedCount int // always len(Items), never upstream-supplied
	Truncated     bool
	Source        Name
}

// Section is one named shelf of items from a feed-shaped response.
// Sections that normalize to zero items are dropped, never surfaced empty.
type Section struct {
	Title string
	Items []Item
}

// Result is a source's normalized fetch before the envelope is applied.
type Result struct {
	Title     string
	Thumbnail string
	Items     []Item
	Total     int // upstream-reported total, 0 = unknown
}

// PlaylistSource resolves a playlist id to a normalized result.
type PlaylistSource interface {
	Name() Name

	// FetchPlaylist fetches and normalizes the playlist with the given raw
	// id (no VL prefix, no URL). Each source reformats the id for its own
	// addressing scheme.
	FetchPlaylist(ctx context.Context, id string) (*Result, error)
}

// ArtistSource resolves an artist display name to their top tracks.
type ArtistSource interface {
	Name() Name
	FetchArtist(ctx context.Context, artist string) (*Result, error)
}

// FeedSource resolves a feed identifier to named sections.
type FeedSource interface {
	Name() Name
	FetchFeed(ctx context.Context, feedID string) ([]Section, error)
}

// WatchURL derives the canonical playback URL for a media id. Used whenever
// upstream provides no direct URL.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// DurationFromMillis converts an upstream millisecond duration to whole
// seconds by integer division.
func DurationFromMillis(ms int) int {
	return ms / 1000
}

// ParseDurationText converts a clock-style duration ("3:45", "1:02:03")
// to seconds. Returns 0 for anything it cannot parse.
func ParseDurationText(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// ErrInvalidInput indicates caller-supplied input that is empty or fails
// static validation. No source is attempted.
var ErrInvalidInput = errors.New("input is empty or malformed")

// ErrUnsupportedInput indicates input recognized as a category no source
// can serve (e.g. auto-generated mix/radio identifiers). Surfaced without
// attempting any network call.
type ErrUnsupportedInput struct {
	Input  string
	Reason string
}

func (e *ErrUnsupportedInput) Error() string {
	return fmt.Sprintf("unsupported input %q: %s", e.Input, e.Reason)
}

// ErrTimeout indicates one source's deadline elapsed. The underlying
// operation is abandoned best-effort, not canceled.
type ErrTimeout struct {
	Source  Name
	Elapsed time.Duration
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("source %s: timed out after %s", e.Source, e.Elapsed)
}

// ErrMalformed indicates a source returned a tree the normalizer could not
// extract any items from.
type ErrMalformed struct {
	Source Name
	Cause  error
}

func (e *ErrMalformed) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("source %s: response yielded no items", e.Source)
	}
	return fmt.Sprintf("source %s: malformed response: %v", e.Source, e.Cause)
}

func (e *ErrMalformed) Unwrap() error { return e.Cause }

// ErrUpstream indicates an HTTP-level failure talking to a source.
type ErrUpstream struct {
	Source Name
	Status int // 0 when the failure happened below HTTP (network, DNS)
	Cause  error
}

func (e *ErrUpstream) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("source %s: upstream status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("source %s: %v", e.Source, e.Cause)
}

func (e *ErrUpstream) Unwrap() error { return e.Cause }

// ErrExhausted indicates every configured source failed or timed out.
type ErrExhausted struct {
	Input    string
	Attempts AttemptLog
}

func (e *ErrExhausted) Error() string {
	return fmt.Sprintf("all %d sources exhausted for input %q", len(e.Attempts), e.Input)
}
