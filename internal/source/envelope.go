package source

// DefaultMaxItems is the hard cap on items a single resolution returns.
const DefaultMaxItems = 65

// BuildPlaylist finalizes a source result into the Playlist that crosses
// the system boundary. The cap is applied first; Truncated reflects
// whichever of (cap applied) or (upstream total exceeds returned) is true.
// Pure function: no I/O, no mutation of res.
func BuildPlaylist(res *Result, maxItems int, src Name) *Playlist {
	if maxItems < 1 {
		maxItems = DefaultMaxItems
	}

	items := res.Items
	capped := false
	if len(items) > maxItems {
		items = items[:maxItems]
		capped = true
	}

	title := res.Title
	if title == "" {
		title = PlaceholderTitle
	}

	returned := len(items)
	truncated := capped
	if res.Total > returned {
		truncated = true
	}

	return &Playlist{
		Title:         title,
		Thumbnail:     res.Thumbnail,
		Items:         items,
		TotalCount:    res.Total,
		ReturnedCount: returned,
		Truncated:     truncated,
		Source:        src,
	}
}
