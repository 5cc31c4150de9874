package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/estudiante-elite/backend/internal/auth"
	"github.com/estudiante-elite/backend/internal/service/session"
	"github.com/estudiante-elite/backend/internal/store"
	"github.com/estudiante-elite/backend/pkg/utils"
)

// Handler exposes the conversation API consumed by the browser client.
type Handler struct {
	sessions *session.Service
	store    store.Store
}

// New creates the chat handler.
func New(sessions *session.Service, st store.Store) *Handler {
	return &Handler{sessions: sessions, store: st}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/conversations", h.handleListConversations)
	r.Get("/conversations/{conversationID}/messages", h.handleListMessages)
	r.Get("/chat/session", h.handleSession)
	r.Post("/chat/send", h.handleSend)
	r.Post("/chat/switch", h.handleSwitch)
}

func (h *Handler) handleListConversations(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conversations, err := h.store.ListConversations(r.Context(), user)
	if err != nil {
		log.Printf("[chat] failed to list conversations for user=%s: %v", user.ID, err)
		utils.RespondError(w, http.StatusBadGateway, auth.TranslateError(err))
		return
	}

	utils.RespondJSON(w, http.StatusOK, conversations)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conversationID := chi.URLParam(r, "conversationID")
	messages, err := h.store.ListMessages(r.Context(), user, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			utils.RespondError(w, http.StatusNotFound, "conversation not found")
			return
		}
		log.Printf("[chat] failed to list messages for conversation=%s: %v", conversationID, err)
		utils.RespondError(w, http.StatusBadGateway, auth.TranslateError(err))
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.sessions.Snapshot(user))
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := h.sessions.Send(r.Context(), user, payload.Message)
	switch {
	case err == nil:
		utils.RespondJSON(w, http.StatusOK, turn)
	case errors.Is(err, session.ErrEmptyMessage):
		utils.RespondError(w, http.StatusBadRequest, "message is required")
	case errors.Is(err, session.ErrTurnInFlight):
		utils.RespondError(w, http.StatusConflict, "a response is already pending")
	default:
		// Only the conversation-create step can fail the whole send;
		// everything after it degrades inside the session log itself.
		log.Printf("[chat] send failed for user=%s: %v", user.ID, err)
		utils.RespondError(w, http.StatusBadGateway, auth.TranslateError(err))
	}
}

func (h *Handler) handleSwitch(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sessions.Switch(r.Context(), user, payload.ConversationID); err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			utils.RespondError(w, http.StatusNotFound, "conversation not found")
			return
		}
		log.Printf("[chat] switch failed for user=%s: %v", user.ID, err)
		utils.RespondError(w, http.StatusBadGateway, auth.TranslateError(err))
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.sessions.Snapshot(user))
}
