package source

import "sync"

// Registry holds registered sources keyed by name. Iteration order always
// follows AllNames, so registration order never changes fallback priority.
type Registry struct {
	mu        sync.RWMutex
	playlists map[Name]PlaylistSource
	artists   map[Name]ArtistSource
	feeds     map[Name]FeedSource
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		playlists: make(map[Name]PlaylistSource),
		artists:   make(map[Name]ArtistSource),
		feeds:     make(map[Name]FeedSource),
	}
}

// Register adds a source to the registry for every capability it
// implements.
func (r *Registry) Register(s PlaylistSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playlists[s.Name()] = s
	if a, ok := s.(ArtistSource); ok {
		r.artists[s.Name()] = a
	}
	if f, ok := s.(FeedSource); ok {
		r.feeds[s.Name()] = f
	}
}

// Playlists returns all playlist-capable sources in priority order.
func (r *Registry) Playlists() []PlaylistSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []PlaylistSource
	for _, name := range AllNames() {
		if s, ok := r.playlists[name]; ok {
			result = append(result, s)
		}
	}
	return result
}

// Artists returns all artist-capable sources in priority order.
func (r *Registry) Artists() []ArtistSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []ArtistSource
	for _, name := range AllNames() {
		if s, ok := r.artists[name]; ok {
			result = append(result, s)
		}
	}
	return result
}

// Feeds returns all feed-capable sources in priority order.
func (r *Registry) Feeds() []FeedSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []FeedSource
	for _, name := range AllNames() {
		if s, ok := r.feeds[name]; ok {
			result = append(result, s)
		}
	}
	return result
}
