// Package playlist persists user-created playlists in the relational store.
package playlist

import "time"

// Playlist is a user-owned, persisted playlist.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one saved entry in a playlist. Position preserves playback
// order within the playlist.
type Item struct {
	ID              string    `json:"id"`
	PlaylistID      string    `json:"playlist_id"`
	MediaID         string    `json:"media_id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Thumbnail       string    `json:"thumbnail,omitempty"`
	DurationSeconds int       `json:"duration_seconds"`
	ChannelName     string    `json:"channel_name,omitempty"`
	Position        int       `json:"position"`
	AddedAt         time.Time `json:"added_at"`
}
