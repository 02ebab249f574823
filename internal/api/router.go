// Package api wires the HTTP surface: resolution, feeds, saved playlists,
// health, and metrics.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pthurmond/odeum/internal/api/middleware"
	"github.com/pthurmond/odeum/internal/metrics"
	"github.com/pthurmond/odeum/internal/playlist"
	"github.com/pthurmond/odeum/internal/source"
)

// RouterDeps bundles all dependencies needed by the HTTP router.
type RouterDeps struct {
	Orchestrator *source.Orchestrator
	Playlists    *playlist.Service
	Metrics      *metrics.Recorder
	Logger       *slog.Logger
	BasePath     string
}

// Router sets up all HTTP routes for the application.
type Router struct {
	orchestrator *source.Orchestrator
	playlists    *playlist.Service
	metrics      *metrics.Recorder
	logger       *slog.Logger
	basePath     string
}

// NewRouter creates a new Router with all routes configured.
func NewRouter(deps RouterDeps) *Router {
	return &Router{
		orchestrator: deps.Orchestrator,
		playlists:    deps.Playlists,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		basePath:     deps.BasePath,
	}
}

// Handler returns the fully configured HTTP handler with middleware applied.
func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	bp := r.basePath

	// Resolution endpoints fan out to upstreams, so they carry their own
	// per-IP limit on top of the per-source limiters.
	resolveMw := middleware.NewResolveRateLimiter(2*time.Second, 10).Middleware
	wrapResolve := func(fn http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			resolveMw(fn).ServeHTTP(w, req)
		}
	}

	mux.HandleFunc("GET "+bp+"/api/v1/health", r.handleHealth)
	mux.HandleFunc("GET "+bp+"/api/v1/resolve", wrapResolve(r.handleResolve))
	mux.HandleFunc("GET "+bp+"/api/v1/feed/home", wrapResolve(r.handleFeedHome))
	mux.HandleFunc("GET "+bp+"/api/v1/feed/{id}", wrapResolve(r.handleFeed))

	mux.HandleFunc("GET "+bp+"/api/v1/playlists", r.handleListPlaylists)
	mux.HandleFunc("POST "+bp+"/api/v1/playlists", r.handleCreatePlaylist)
	mux.HandleFunc("GET "+bp+"/api/v1/playlists/{id}", r.handleGetPlaylist)
	mux.HandleFunc("PUT "+bp+"/api/v1/playlists/{id}", r.handleRenamePlaylist)
	mux.HandleFunc("DELETE "+bp+"/api/v1/playlists/{id}", r.handleDeletePlaylist)
	mux.HandleFunc("POST "+bp+"/api/v1/playlists/{id}/items", r.handleAddPlaylistItem)
	mux.HandleFunc("DELETE "+bp+"/api/v1/playlists/{id}/items/{itemId}", r.handleRemovePlaylistItem)

	if r.metrics != nil {
		mux.Handle("GET "+bp+"/metrics", r.metrics.Handler())
	}

	var recorder middleware.RequestRecorder
	if r.metrics != nil {
		recorder = r.metrics
	}
	return middleware.Logging(r.logger, recorder)(middleware.SecurityHeaders(mux))
}
