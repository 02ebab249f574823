package piped

// playlistResponse is the JSON response from the Piped playlists endpoint.
type playlistResponse struct {
	Name           string       `json:"name"`
	ThumbnailURL   string       `json:"thumbnailUrl"`
	Uploader       string       `json:"uploader"`
	Videos         int          `json:"videos"`
	RelatedStreams []streamItem `json:"relatedStreams"`
}

// streamItem is one entry in a playlist, search, or trending response.
// URL is relative ("/watch?v=..."); Duration is reported in seconds,
// -1 for livestreams.
type streamItem struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	UploaderName string `json:"uploaderName"`
	UploaderURL  string `json:"uploaderUrl"`
	Duration     int    `json:"duration"`
}

// searchResponse is the JSON response from the Piped search endpoint.
type searchResponse struct {
	Items []streamItem `json:"items"`
}
