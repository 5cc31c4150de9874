package events

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/estudiante-elite/backend/internal/auth"
	"github.com/estudiante-elite/backend/internal/events"
	"github.com/estudiante-elite/backend/pkg/utils"
)

const pingInterval = 30 * time.Second

// Handler pushes turn-lifecycle events (thinking started, message appended,
// thinking finished) to connected clients, over WebSocket or SSE.
type Handler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
}

// New creates the events handler.
func New(hub *events.Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the event channels.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events/ws", h.handleWebSocket)
	r.Get("/events/stream", h.handleStream)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[events] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch, cancel := h.hub.Subscribe(user.ID)
	defer cancel()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	// Drain client frames so close and pong handling keep working.
	go func() {
		defer stop()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[events] websocket read error for user=%s: %v", user.ID, err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case event, open := <-ch:
			if !open {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("[events] websocket write failed for user=%s: %v", user.ID, err)
				return
			}
		}
	}
}

// handleStream is the SSE fallback for clients without WebSocket support.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	ch, cancel := h.hub.Subscribe(user.ID)
	defer cancel()

	ctx := r.Context()
	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "status",
		"message": "stream established",
	})

	heartbeat := time.NewTicker(8 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-heartbeat.C:
			utils.SendSSEChunk(w, flusher, map[string]any{
				"event": "heartbeat",
				"time":  t.UTC().Format(time.RFC3339),
			})
		case event, open := <-ch:
			if !open {
				return
			}
			utils.SendSSEEvent(w, flusher, event.Type, event)
		}
	}
}
