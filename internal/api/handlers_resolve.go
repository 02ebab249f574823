package api

import (
	"net/http"

	"github.com/pthurmond/odeum/internal/source"
)

// videoDTO is the boundary shape of one playable item.
type videoDTO struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Thumbnail string     `json:"thumbnail"`
	Duration  int        `json:"duration"`
	Channel   channelDTO `json:"channel"`
}

type channelDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// playlistDTO is the boundary shape of a resolved playlist.
type playlistDTO struct {
	Title          string     `json:"title"`
	Thumbnail      string     `json:"thumbnail"`
	Videos         []videoDTO `json:"videos"`
	TotalVideos    int        `json:"totalVideos"`
	ReturnedVideos int        `json:"returnedVideos"`
	Limited        bool       `json:"limited"`
	Source         string     `json:"source"`
}

func (r *Router) handleResolve(w http.ResponseWriter, req *http.Request) {
	input := req.URL.Query().Get("input")

	resolved, attempts, err := r.orchestrator.Resolve(req.Context(), input)
	if err != nil {
		r.writeResolveError(w, err)
		return
	}

	r.logger.Debug("resolution complete",
		"source", resolved.Source,
		"attempts", attempts.String(),
	)
	writeJSON(w, http.StatusOK, toPlaylistDTO(resolved))
}

func toPlaylistDTO(p *source.Playlist) playlistDTO {
	return playlistDTO{
		Title:          p.Title,
		Thumbnail:      p.Thumbnail,
		Videos:         toVideoDTOs(p.Items),
		TotalVideos:    p.TotalCount,
		ReturnedVideos: p.ReturnedCount,
		Limited:        p.Truncated,
		Source:         string(p.Source),
	}
}

func toVideoDTOs(items []source.Item) []videoDTO {
	videos := make([]videoDTO, 0, len(items))
	for _, it := range items {
		videos = append(videos, videoDTO{
			ID:        it.ID,
			Title:     it.Title,
			URL:       it.URL,
			Thumbnail: it.Thumbnail,
			Duration:  it.DurationSeconds,
			Channel: channelDTO{
				Name: it.ChannelName,
				URL:  it.ChannelURL,
			},
		})
	}
	return videos
}
