package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pthurmond/odeum/internal/playlist"
	"github.com/pthurmond/odeum/internal/source"
	"github.com/pthurmond/odeum/internal/version"
)

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
		"commit":  version.Commit,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// writeResolveError maps resolution errors onto HTTP statuses: bad input is
// the caller's fault, unsupported input is recognized but not serveable, and
// an exhausted chain is an upstream failure surfaced as ours.
func (r *Router) writeResolveError(w http.ResponseWriter, err error) {
	var unsupported *source.ErrUnsupportedInput
	var exhausted *source.ErrExhausted

	switch {
	case errors.Is(err, source.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &unsupported):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.As(err, &exhausted):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		r.logger.Error("unexpected resolve error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (r *Router) writePlaylistError(w http.ResponseWriter, err error) {
	if errors.Is(err, playlist.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "playlist not found"})
		return
	}
	r.logger.Error("playlist operation failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}
