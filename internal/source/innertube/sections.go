package innertube

import (
	"log/slog"

	"github.com/pthurmond/odeum/internal/source"
	"github.com/pthurmond/odeum/internal/tree"
)

// Feed-shaped browse responses are a recursive tree of shelf containers.
// The container vocabulary is a small closed set, modeled as an explicit
// tagged variant so a newly-observed kind is a one-variant addition.
type containerKind int

const (
	kindUnknown containerKind = iota
	kindSectionList               // generic list, recurse into children
	kindShelf                     // named shelf with a flat item list
	kindCarousel                  // horizontally-scrolled shelf
	kindGrid                      // grid of item cards
)

// classifyContainer tags one tree node and returns its inner renderer.
func classifyContainer(node any) (containerKind, any) {
	m := tree.Map(node)
	if m == nil {
		return kindUnknown, nil
	}
	if inner, ok := m["sectionListRenderer"]; ok {
		return kindSectionList, inner
	}
	if inner, ok := m["musicShelfRenderer"]; ok {
		return kindShelf, inner
	}
	if inner, ok := m["musicCarouselShelfRenderer"]; ok {
		return kindCarousel, inner
	}
	if inner, ok := m["gridRenderer"]; ok {
		return kindGrid, inner
	}
	return kindUnknown, nil
}

var feedRootPaths = []tree.Path{
	tree.P("contents", "singleColumnBrowseResultsRenderer", "tabs", 0, "tabRenderer", "content"),
	tree.P("contents", "twoColumnBrowseResultsRenderer", "tabs", 0, "tabRenderer", "content"),
	tree.P("contents"),
}

var shelfTitlePaths = []tree.Path{
	tree.P("title", "runs", 0, "text"),
	tree.P("header", "musicCarouselShelfBasicHeaderRenderer", "title", "runs", 0, "text"),
	tree.P("header", "gridHeaderRenderer", "title", "runs", 0, "text"),
}

// extractSections flattens a feed-shaped browse tree into named sections.
// Unknown container kinds are logged and skipped. Sections normalizing to
// zero items are dropped; an empty shelf is never surfaced.
func extractSections(root map[string]any, logger *slog.Logger) []source.Section {
	node := tree.First(root, feedRootPaths...)
	if node == nil {
		return nil
	}

	var sections []source.Section
	walkContainers(node, logger, &sections)
	return sections
}

// walkContainers is the recursive descent over the container tree.
func walkContainers(node any, logger *slog.Logger, out *[]source.Section) {
	kind, inner := classifyContainer(node)

	switch kind {
	case kindSectionList:
		for _, child := range tree.Slice(inner, tree.P("contents")) {
			walkContainers(child, logger, out)
		}

	case kindShelf, kindCarousel:
		emitSection(inner, tree.Slice(inner, tree.P("contents")), out)

	case kindGrid:
		emitSection(inner, tree.Slice(inner, tree.P("items")), out)

	case kindUnknown:
		if m := tree.Map(node); m != nil {
			for key := range m {
				logger.Debug("skipping unknown feed container", slog.String("kind", key))
				break
			}
		}
	}
}

// emitSection normalizes one shelf's items and appends a Section when at
// least one item survived normalization.
func emitSection(renderer any, rawItems []any, out *[]source.Section) {
	items := make([]source.Item, 0, len(rawItems))
	for _, entry := range rawItems {
		card := tree.First(entry,
			tree.P("musicTwoRowItemRenderer"),
			tree.P("musicResponsiveListItemRenderer"),
		)
		if card == nil {
			continue
		}
		if item, ok := normalizeFeedCard(card); ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return
	}

	*out = append(*out, source.Section{
		Title: tree.Text(renderer, source.PlaceholderSectionTitle, shelfTitlePaths...),
		Items: items,
	})
}

var cardIDPaths = []tree.Path{
	tree.P("navigationEndpoint", "watchEndpoint", "videoId"),
	tree.P("playlistItemData", "videoId"),
	tree.P("overlay", "musicItemThumbnailOverlayRenderer", "content", "musicPlayButtonRenderer", "playNavigationEndpoint", "watchEndpoint", "videoId"),
}

var cardTitlePaths = []tree.Path{
	tree.P("title", "runs", 0, "text"),
	tree.P("flexColumns", 0, "musicResponsiveListItemFlexColumnRenderer", "text", "runs", 0, "text"),
}

var cardChannelPaths = []tree.Path{
	tree.P("subtitle", "runs", 0, "text"),
	tree.P("flexColumns", 1, "musicResponsiveListItemFlexColumnRenderer", "text", "runs", 0, "text"),
}

// normalizeFeedCard extracts one playable card. Cards without a media id
// (album and playlist covers) are dropped.
func normalizeFeedCard(card any) (source.Item, bool) {
	id := tree.Text(card, "", cardIDPaths...)
	if id == "" {
		return source.Item{}, false
	}
	return source.Item{
		ID:          id,
		Title:       tree.Text(card, "", cardTitlePaths...),
		URL:         source.WatchURL(id),
		Thumbnail:   largestThumb(card, itemThumbPaths),
		ChannelName: tree.Text(card, "", cardChannelPaths...),
	}, true
}
