package api

import (
	"encoding/json"
	"net/http"

	"github.com/pthurmond/odeum/internal/playlist"
)

func (r *Router) handleListPlaylists(w http.ResponseWriter, req *http.Request) {
	playlists, err := r.playlists.List(req.Context())
	if err != nil {
		r.writePlaylistError(w, err)
		return
	}
	if playlists == nil {
		playlists = []playlist.Playlist{}
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (r *Router) handleCreatePlaylist(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if body.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	created, err := r.playlists.Create(req.Context(), body.Name)
	if err != nil {
		r.writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (r *Router) handleGetPlaylist(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")

	p, err := r.playlists.Get(req.Context(), id)
	if err != nil {
		r.writePlaylistError(w, err)
		return
	}
	items, err := r.playlists.Items(req.Context(), id)
	if err != nil {
		r.writePlaylistError(w, err)
		return
	}
	if items == nil {
		items = []playlist.Item{}
	}

	writeJSON(w, http.StatusOK, struct {
		playlist.Playlist
		Items []playlist.Item `json:"items"`
	}{*p, items})
}

func (r *Router) handleRenamePlaylist(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if body.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	if err := r.playlists.Rename(req.Context(), req.PathValue("id"), body.Name); err != nil {
		r.writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) handleDeletePlaylist(w http.ResponseWriter, req *http.Request) {
	if err := r.playlists.Delete(req.Context(), req.PathValue("id")); err != nil {
		r.writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (r *Router) handleAddPlaylistItem(w http.ResponseWriter, req *http.Request) {
	var body struct {
		MediaID         string `json:"mediaId"`
		Title           string `json:"title"`
		URL             string `json:"url"`
		Thumbnail       string `json:"thumbnail"`
		DurationSeconds int    `json:"duration"`
		ChannelName     string `json:"channelName"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if body.MediaID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mediaId is required"})
		return
	}

	added, err := r.playlists.AddItem(req.Context(), req.PathValue("id"), playlist.Item{
		MediaID:         body.MediaID,
		Title:           body.Title,
		URL:             body.URL,
		Thumbnail:       body.Thumbnail,
		DurationSeconds: body.DurationSeconds,
		ChannelName:     body.ChannelName,
	})
	if err != nil {
		r.writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (r *Router) handleRemovePlaylistItem(w http.ResponseWriter, req *http.Request) {
	if err := r.playlists.RemoveItem(req.Context(), req.PathValue("id"), req.PathValue("itemId")); err != nil {
		r.writePlaylistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
