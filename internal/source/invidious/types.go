package invidious

// playlistResponse is the JSON response from the Invidious playlists
// endpoint. Counts arrive at the top level; items under "videos".
type playlistResponse struct {
	Title      string          `json:"title"`
	VideoCount int             `json:"videoCount"`
	Videos     []videoItem     `json:"videos"`
	Thumbnail  []thumbnailItem `json:"authorThumbnails"`
}

// videoItem is one playlist entry. lengthSeconds is already in seconds.
type videoItem struct {
	VideoID         string          `json:"videoId"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	AuthorURL       string          `json:"authorUrl"`
	LengthSeconds   int             `json:"lengthSeconds"`
	VideoThumbnails []thumbnailItem `json:"videoThumbnails"`
}

type thumbnailItem struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
