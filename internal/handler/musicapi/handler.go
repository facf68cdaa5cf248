package musicapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/soullift/soul-hug/backend/internal/service/music"
	"github.com/soullift/soul-hug/backend/pkg/utils"
)

// Handler serves the background music catalog and synthetic track audio.
type Handler struct{}

// New creates the music handler.
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts the music routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/music", h.handleCatalog)
	r.Get("/music/{trackID}", h.handleTrack)
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"tracks": music.Catalog()})
}

// handleTrack streams the deterministic stand-in audio for a track.
// Unknown ids render at the default frequency rather than erroring.
func (h *Handler) handleTrack(w http.ResponseWriter, r *http.Request) {
	trackID := chi.URLParam(r, "trackID")
	audio := music.RenderTrack(trackID)

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Header().Set("Accept-Ranges", "bytes")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
