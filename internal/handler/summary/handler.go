package summary

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/estudiante-elite/backend/internal/service/export"
	"github.com/estudiante-elite/backend/pkg/utils"
)

// Generator produces a markdown study summary for a conversation.
type Generator interface {
	Generate(ctx context.Context, conversationID string) (string, error)
}

// Handler serves study-summary generation and its copy-to-document form.
type Handler struct {
	generator Generator
}

// New creates the summary handler. A nil generator means the feature is not
// configured and requests are answered with 503.
func New(generator Generator) *Handler {
	return &Handler{generator: generator}
}

// RegisterRoutes mounts the summary routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/summary", h.handleGenerate)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "summary generation unavailable")
		return
	}

	var payload struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ConversationID == "" {
		utils.RespondError(w, http.StatusBadRequest, "conversationId is required")
		return
	}

	markdown, err := h.generator.Generate(r.Context(), payload.ConversationID)
	if err != nil {
		log.Printf("[summary] generation failed for conversation=%s: %v", payload.ConversationID, err)
		utils.RespondError(w, http.StatusBadGateway, "no se pudo generar el esquema de estudio")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"summary":   markdown,
		"plainText": export.PlainText(markdown),
	})
}
