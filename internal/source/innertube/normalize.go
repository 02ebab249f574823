package innertube

import (
	"regexp"
	"strconv"

	"github.com/pthurmond/odeum/internal/source"
	"github.com/pthurmond/odeum/internal/tree"
)

// The browse endpoint places the same logical field at different nested
// locations depending on which response variant it serves. Each field gets
// an ordered candidate-path table; the first path yielding a defined,
// non-empty value wins.

var playlistTitlePaths = []tree.Path{
	tree.P("header", "musicDetailHeaderRenderer", "title", "runs", 0, "text"),
	tree.P("header", "musicEditablePlaylistDetailHeaderRenderer", "header", "musicDetailHeaderRenderer", "title", "runs", 0, "text"),
	tree.P("header", "musicResponsiveHeaderRenderer", "title", "runs", 0, "text"),
	tree.P("contents", "twoColumnBrowseResultsRenderer", "tabs", 0, "tabRenderer", "content", "sectionListRenderer", "contents", 0, "musicResponsiveHeaderRenderer", "title", "runs", 0, "text"),
}

var playlistThumbPaths = []tree.Path{
	tree.P("header", "musicDetailHeaderRenderer", "thumbnail", "croppedSquareThumbnailRenderer", "thumbnail", "thumbnails"),
	tree.P("header", "musicEditablePlaylistDetailHeaderRenderer", "header", "musicDetailHeaderRenderer", "thumbnail", "croppedSquareThumbnailRenderer", "thumbnail", "thumbnails"),
	tree.P("background", "musicThumbnailRenderer", "thumbnail", "thumbnails"),
}

// Subtitle text such as "56 songs" lives in a couple of header spots.
var playlistCountPaths = []tree.Path{
	tree.P("header", "musicDetailHeaderRenderer", "secondSubtitle", "runs", 0, "text"),
	tree.P("header", "musicEditablePlaylistDetailHeaderRenderer", "header", "musicDetailHeaderRenderer", "secondSubtitle", "runs", 0, "text"),
	tree.P("contents", "twoColumnBrowseResultsRenderer", "tabs", 0, "tabRenderer", "content", "sectionListRenderer", "contents", 0, "musicResponsiveHeaderRenderer", "secondSubtitle", "runs", 0, "text"),
}

var playlistItemsPaths = []tree.Path{
	tree.P("contents", "singleColumnBrowseResultsRenderer", "tabs", 0, "tabRenderer", "content", "sectionListRenderer", "contents", 0, "musicPlaylistShelfRenderer", "contents"),
	tree.P("contents", "twoColumnBrowseResultsRenderer", "secondaryContents", "sectionListRenderer", "contents", 0, "musicPlaylistShelfRenderer", "contents"),
	tree.P("continuationContents", "musicPlaylistShelfContinuation", "contents"),
}

var continuationTokenPaths = []tree.Path{
	tree.P("contents", "singleColumnBrowseResultsRenderer", "tabs", 0, "tabRenderer", "content", "sectionListRenderer", "contents", 0, "musicPlaylistShelfRenderer", "continuations", 0, "nextContinuationData", "continuation"),
	tree.P("contents", "twoColumnBrowseResultsRenderer", "secondaryContents", "sectionListRenderer", "contents", 0, "musicPlaylistShelfRenderer", "continuations", 0, "nextContinuationData", "continuation"),
	tree.P("continuationContents", "musicPlaylistShelfContinuation", "continuations", 0, "nextContinuationData", "continuation"),
}

// Per-item tables, probed against a musicResponsiveListItemRenderer.
var itemIDPaths = []tree.Path{
	tree.P("playlistItemData", "videoId"),
	tree.P("overlay", "musicItemThumbnailOverlayRenderer", "content", "musicPlayButtonRenderer", "playNavigationEndpoint", "watchEndpoint", "videoId"),
	tree.P("flexColumns", 0, "musicResponsiveListItemFlexColumnRenderer", "text", "runs", 0, "navigationEndpoint", "watchEndpoint", "videoId"),
}

var itemTitlePaths = []tree.Path{
	tree.P("flexColumns", 0, "musicResponsiveListItemFlexColumnRenderer", "text", "runs", 0, "text"),
	tree.P("title", "runs", 0, "text"),
}

var itemDurationTextPaths = []tree.Path{
	tree.P("fixedColumns", 0, "musicResponsiveListItemFixedColumnRenderer", "text", "runs", 0, "text"),
	tree.P("fixedColumns", 0, "musicResponsiveListItemFixedColumnRenderer", "text", "simpleText"),
}

var itemChannelPaths = []tree.Path{
	tree.P("flexColumns", 1, "musicResponsiveListItemFlexColumnRenderer", "text", "runs", 0, "text"),
}

var itemChannelIDPaths = []tree.Path{
	tree.P("flexColumns", 1, "musicResponsiveListItemFlexColumnRenderer", "text", "runs", 0, "navigationEndpoint", "browseEndpoint", "browseId"),
}

var itemThumbPaths = []tree.Path{
	tree.P("thumbnail", "musicThumbnailRenderer", "thumbnail", "thumbnails"),
	tree.P("thumbnailRenderer", "musicThumbnailRenderer", "thumbnail", "thumbnails"),
}

var searchItemsPaths = []tree.Path{
	tree.P("contents", "tabbedSearchResultsRenderer", "tabs", 0, "tabRenderer", "content", "sectionListRenderer", "contents", 0, "musicShelfRenderer", "contents"),
	tree.P("contents", "sectionListRenderer", "contents", 0, "musicShelfRenderer", "contents"),
}

var leadingDigits = regexp.MustCompile(`\d+`)

// normalizePlaylist converts one raw browse tree into a source result.
func normalizePlaylist(root map[string]any) *source.Result {
	return &source.Result{
		Title:     tree.Text(root, "", playlistTitlePaths...),
		Thumbnail: largestThumb(root, playlistThumbPaths),
		Total:     countFromText(tree.Text(root, "", playlistCountPaths...)),
		Items:     normalizeItems(tree.First(root, playlistItemsPaths...)),
	}
}

// normalizeItems converts a raw item list into normalized items. Entries
// without a media id are dropped, not errors; partial results are expected.
func normalizeItems(node any) []source.Item {
	raw, _ := node.([]any)
	items := make([]source.Item, 0, len(raw))
	for _, entry := range raw {
		renderer := tree.First(entry,
			tree.P("musicResponsiveListItemRenderer"),
			tree.P("playlistPanelVideoRenderer"),
		)
		if renderer == nil {
			continue
		}
		if item, ok := normalizeItem(renderer); ok {
			items = append(items, item)
		}
	}
	return items
}

// normalizeItem extracts one item from its renderer. Returns false when
// the mandatory media id is missing at every candidate path.
func normalizeItem(renderer any) (source.Item, bool) {
	id := tree.Text(renderer, "", itemIDPaths...)
	if id == "" {
		return source.Item{}, false
	}

	item := source.Item{
		ID:              id,
		Title:           tree.Text(renderer, "", itemTitlePaths...),
		URL:             source.WatchURL(id),
		Thumbnail:       largestThumb(renderer, itemThumbPaths),
		DurationSeconds: source.ParseDurationText(tree.Text(renderer, "", itemDurationTextPaths...)),
		ChannelName:     tree.Text(renderer, "", itemChannelPaths...),
	}
	if chID := tree.Text(renderer, "", itemChannelIDPaths...); chID != "" {
		item.ChannelURL = "https://music.youtube.com/channel/" + chID
	}
	return item, true
}

// normalizeSearchSongs extracts song items from a search response.
func normalizeSearchSongs(root map[string]any) []source.Item {
	return normalizeItems(tree.First(root, searchItemsPaths...))
}

// continuationToken finds the next-page token, if any.
func continuationToken(root map[string]any) string {
	return tree.Text(root, "", continuationTokenPaths...)
}

// continuationItems returns the raw item list of a continuation page.
func continuationItems(root map[string]any) any {
	return tree.Get(root, tree.P("continuationContents", "musicPlaylistShelfContinuation", "contents"))
}

// largestThumb probes thumbnail-array paths and returns the URL of the
// last (largest) entry. Thumbnail arrays are ordered small to large.
func largestThumb(node any, paths []tree.Path) string {
	for _, p := range paths {
		thumbs := tree.Slice(node, p)
		if len(thumbs) == 0 {
			continue
		}
		if url := tree.Text(thumbs[len(thumbs)-1], "", tree.P("url")); url != "" {
			return url
		}
	}
	return ""
}

// countFromText pulls the leading integer out of subtitle text such as
// "56 songs" or "56 tracks • 3 hours". Zero means unknown.
func countFromText(s string) int {
	match := leadingDigits.FindString(s)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}
