package session

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soullift/soul-hug/backend/internal/model/hug"
	"github.com/soullift/soul-hug/backend/internal/service/hugsession"
	"github.com/soullift/soul-hug/backend/pkg/utils"
)

// Stub values for auto-vivified sessions. GET self-heals on a miss so a
// reloaded client never dead-ends; PATCH deliberately does not.
const (
	stubRecipient = "Unknown"
	stubAnchor    = "GRATEFUL"
)

// Handler serves the session mutation API.
type Handler struct {
	sessions *hugsession.Service
}

// New creates the session handler.
func New(sessions *hugsession.Service) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes mounts the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreate)
	r.Get("/sessions", h.handleList)
	r.Get("/sessions/{sessionID}", h.handleGet)
	r.Patch("/sessions/{sessionID}", h.handlePatch)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var seed hug.Session
	if err := json.NewDecoder(r.Body).Decode(&seed); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessions.Create(r.Context(), seed)
	switch {
	case errors.Is(err, hugsession.ErrSessionExists):
		utils.RespondError(w, http.StatusConflict, "session already exists")
		return
	case errors.Is(err, hugsession.ErrValidation):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleList returns every live session, for debugging.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessions.List(r.Context())
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.sessions.Get(r.Context(), sessionID)
	if errors.Is(err, hugsession.ErrSessionNotFound) {
		log.Printf("[session] %s not found, vivifying stub", sessionID)
		session, err = h.sessions.Create(r.Context(), hug.Session{
			SessionID:     sessionID,
			RecipientName: stubRecipient,
			Anchor:        stubAnchor,
		})
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to get session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var patch hug.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessions.Patch(r.Context(), sessionID, patch)
	switch {
	case errors.Is(err, hugsession.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	case errors.Is(err, hugsession.ErrValidation):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "failed to update session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, session)
}
