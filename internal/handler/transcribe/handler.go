package transcribe

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/estudiante-elite/backend/internal/service/transcribe"
	"github.com/estudiante-elite/backend/pkg/utils"
)

// Transcriber converts a recorded audio clip into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (transcribe.Result, error)
}

// Handler accepts voice-input uploads from the browser client.
type Handler struct {
	transcriber Transcriber
}

// New creates the transcription handler. A nil transcriber answers 503.
func New(transcriber Transcriber) *Handler {
	return &Handler{transcriber: transcriber}
}

// RegisterRoutes mounts the transcription route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/transcribe", h.handleTranscribe)
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if h.transcriber == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "transcription unavailable")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to parse multipart form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	result, err := h.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		log.Printf("[transcribe] transcription failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}
