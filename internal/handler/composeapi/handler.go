package composeapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soullift/soul-hug/backend/internal/service/compose"
	"github.com/soullift/soul-hug/backend/pkg/utils"
)

// DegradedHeader marks responses whose content came from a deterministic
// fallback rather than the model.
const DegradedHeader = "X-Compose-Degraded"

// Handler exposes the prompt generation and weave/stitch endpoints.
type Handler struct {
	composer *compose.Service
}

// New creates the compose handler.
func New(composer *compose.Service) *Handler {
	return &Handler{composer: composer}
}

// RegisterRoutes mounts the compose routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate-prompts", h.handleGeneratePrompts)
	r.Post("/ai-weave", h.handleWeave)
	r.Post("/ai-stitch", h.handleStitch)
}

func (h *Handler) handleGeneratePrompts(w http.ResponseWriter, r *http.Request) {
	var req compose.PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.composer.GeneratePrompts(r.Context(), req)
	if errors.Is(err, compose.ErrAnchorRequired) {
		utils.RespondError(w, http.StatusBadRequest, "missing required field: anchor is required")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate prompts")
		return
	}

	markDegraded(w, result.Degraded)
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"prompts": result.Prompts})
}

func (h *Handler) handleWeave(w http.ResponseWriter, r *http.Request) {
	var req compose.WeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.composer.Weave(r.Context(), req)
	if errors.Is(err, compose.ErrAnchorRequired) || errors.Is(err, compose.ErrNoIngredients) {
		utils.RespondError(w, http.StatusBadRequest, "missing required fields: anchor and ingredients array are required")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate message")
		return
	}

	markDegraded(w, result.Degraded)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": result.Message})
}

func (h *Handler) handleStitch(w http.ResponseWriter, r *http.Request) {
	var req compose.StitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.composer.Stitch(r.Context(), req)
	if errors.Is(err, compose.ErrAnchorRequired) || errors.Is(err, compose.ErrMessageRequired) {
		utils.RespondError(w, http.StatusBadRequest, "missing required fields: currentMessage and anchor are required")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to improve message")
		return
	}

	markDegraded(w, result.Degraded)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": result.Message})
}

func markDegraded(w http.ResponseWriter, degraded bool) {
	if degraded {
		w.Header().Set(DegradedHeader, "true")
	}
}
