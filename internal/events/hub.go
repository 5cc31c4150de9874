package events

import (
	"sync"

	"github.com/estudiante-elite/backend/internal/model/chat"
)

// Event types pushed to connected clients over the turn lifecycle.
const (
	TypeThinkingStarted  = "thinking_started"
	TypeMessageAppended  = "message_appended"
	TypeThinkingFinished = "thinking_finished"
	TypeConversation     = "conversation_switched"
)

// Event is one turn-lifecycle notification for a user's active session.
type Event struct {
	Type           string        `json:"type"`
	ConversationID string        `json:"conversationId,omitempty"`
	Message        *chat.Message `json:"message,omitempty"`
}

// Hub fans events out to per-user subscribers. Slow subscribers drop events
// rather than block the sender; the UI resyncs from the session endpoint.
type Hub struct {
	mu   sync.RWMutex
	subs map[string][]chan Event
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string][]chan Event)}
}

// Subscribe registers a listener for the user's events. The returned cancel
// func must be called when the connection closes.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	h.subs[userID] = append(h.subs[userID], ch)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subs[userID]
		for i, sub := range subs {
			if sub == ch {
				h.subs[userID] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
	}
	return ch, cancel
}

// Publish delivers an event to all of the user's subscribers.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[userID] {
		select {
		case ch <- event:
		default:
		}
	}
}
