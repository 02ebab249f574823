package api

import (
	"net/http"
	"strings"

	"github.com/pthurmond/odeum/internal/source"
)

// feedAliases map friendly path segments onto browse feed identifiers.
var feedAliases = map[string]string{
	"home":    "FEmusic_home",
	"explore": "FEmusic_explore",
	"charts":  "FEmusic_charts",
	"moods":   "FEmusic_moods_and_genres",
}

type feedDTO struct {
	MusicItems []sectionDTO `json:"musicItems"`
}

type sectionDTO struct {
	Title    string     `json:"title"`
	Contents []videoDTO `json:"contents"`
}

func (r *Router) handleFeedHome(w http.ResponseWriter, req *http.Request) {
	r.serveFeed(w, req, "FEmusic_home")
}

func (r *Router) handleFeed(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")

	feedID, ok := feedAliases[id]
	if !ok {
		if !strings.HasPrefix(id, "FEmusic_") {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown feed"})
			return
		}
		feedID = id
	}
	r.serveFeed(w, req, feedID)
}

func (r *Router) serveFeed(w http.ResponseWriter, req *http.Request, feedID string) {
	sections, attempts, err := r.orchestrator.ResolveFeed(req.Context(), feedID)
	if err != nil {
		r.writeResolveError(w, err)
		return
	}

	r.logger.Debug("feed resolution complete",
		"feed", feedID,
		"sections", len(sections),
		"attempts", attempts.String(),
	)
	writeJSON(w, http.StatusOK, toFeedDTO(sections))
}

func toFeedDTO(sections []source.Section) feedDTO {
	dto := feedDTO{MusicItems: make([]sectionDTO, 0, len(sections))}
	for _, s := range sections {
		dto.MusicItems = append(dto.MusicItems, sectionDTO{
			Title:    s.Title,
			Contents: toVideoDTOs(s.Items),
		})
	}
	return dto
}
