package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/estudiante-elite/backend/internal/auth"
	"github.com/estudiante-elite/backend/internal/events"
	"github.com/estudiante-elite/backend/internal/model/chat"
	"github.com/estudiante-elite/backend/internal/service/tutor"
	"github.com/estudiante-elite/backend/internal/store"
)

var (
	ErrNotAuthenticated = errors.New("user identity is required")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrTurnInFlight     = errors.New("a tutor response is already pending")
)

// WelcomeText opens every fresh or empty conversation.
const WelcomeText = "¡Hola! Soy tu tutor de Derecho personalizado. ¿En qué puedo ayudarte hoy? " +
	"Puedo explicarte conceptos, resolver dudas, o generar esquemas y resúmenes para facilitar tu estudio."

// apologyText replaces the assistant turn when response generation fails.
// It is shown in the log but never persisted.
const apologyText = "Lo siento, ha ocurrido un problema al procesar tu consulta. " +
	"Por favor, inténtalo de nuevo en unos momentos."

// Service owns each user's active session: the current conversation, the
// in-memory message log and the awaiting flag. The log mirrors the durable
// store, plus optimistic entries not yet confirmed; it only ever grows during
// a turn, and entries are never reordered.
type Service struct {
	store     store.Store
	responder tutor.Responder
	hub       *events.Hub
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*state
}

// state is one user's ephemeral session. epoch increments on every
// conversation switch so a load (or turn) completing against a superseded
// conversation is discarded instead of applied.
type state struct {
	mu             sync.Mutex
	conversationID string
	log            []chat.Message
	awaiting       bool
	epoch          uint64
}

// Snapshot is the session view served to the client.
type Snapshot struct {
	ConversationID string         `json:"conversationId,omitempty"`
	Messages       []chat.Message `json:"messages"`
	Awaiting       bool           `json:"awaiting"`
}

// Turn is the outcome of one Send call.
type Turn struct {
	UserMessage      chat.Message `json:"userMessage"`
	AssistantMessage chat.Message `json:"assistantMessage"`
}

// NewService wires the sync controller to its collaborators.
func NewService(st store.Store, responder tutor.Responder, hub *events.Hub) *Service {
	return &Service{
		store:     st,
		responder: responder,
		hub:       hub,
		now:       time.Now,
		sessions:  make(map[string]*state),
	}
}

func (s *Service) state(userID string) *state {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[userID]
	if !ok {
		st = &state{log: []chat.Message{s.welcomeMessage()}}
		s.sessions[userID] = st
	}
	return st
}

func (s *Service) welcomeMessage() chat.Message {
	return chat.Message{
		ID:        uuid.NewString(),
		Role:      chat.RoleAssistant,
		Content:   WelcomeText,
		CreatedAt: s.now().UTC(),
	}
}

// Send runs one full turn: create the conversation if this is the first
// message, append the user's text optimistically, persist it, ask the tutor,
// persist and append the reply. A failure after the optimistic append never
// rolls the user's entry back; the reply slot is filled with a fixed apology
// instead.
func (s *Service) Send(ctx context.Context, user auth.User, text string) (Turn, error) {
	if user.ID == "" {
		return Turn{}, ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}

	st := s.state(user.ID)

	st.mu.Lock()
	if st.awaiting {
		st.mu.Unlock()
		return Turn{}, ErrTurnInFlight
	}

	// The conversation must exist before anything is durably recorded.
	// The create happens under the session lock so a concurrent switch
	// cannot interleave; it is a single short round trip.
	conversationID := st.conversationID
	if conversationID == "" {
		conv, err := s.store.CreateConversation(ctx, user, DeriveTitle(text))
		if err != nil {
			st.mu.Unlock()
			return Turn{}, fmt.Errorf("create conversation: %w", err)
		}
		conversationID = conv.ID
		st.conversationID = conversationID
	}

	userMessage := chat.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           chat.RoleUser,
		Content:        text,
		CreatedAt:      s.now().UTC(),
	}
	st.log = append(st.log, userMessage)
	st.awaiting = true
	epoch := st.epoch
	st.mu.Unlock()

	s.publish(user.ID, events.Event{Type: events.TypeThinkingStarted, ConversationID: conversationID, Message: &userMessage})

	// Persist the user's turn. On failure the turn still proceeds to the
	// tutor call: the visible log keeps the optimistic entry either way,
	// and losing one durable user turn is preferable to losing the reply.
	if durable, err := s.store.AppendMessage(ctx, user, conversationID, chat.RoleUser, text); err != nil {
		log.Printf("[session] failed to persist user message for user=%s: %v", user.ID, err)
	} else {
		st.mu.Lock()
		if st.epoch == epoch {
			replaceByID(st.log, userMessage.ID, durable)
		}
		st.mu.Unlock()
		userMessage = durable
	}

	reply := s.resolveReply(ctx, user, conversationID, text)

	st.mu.Lock()
	if st.epoch == epoch {
		st.log = append(st.log, reply)
	}
	st.awaiting = false
	st.mu.Unlock()

	s.publish(user.ID, events.Event{Type: events.TypeMessageAppended, ConversationID: conversationID, Message: &reply})
	s.publish(user.ID, events.Event{Type: events.TypeThinkingFinished, ConversationID: conversationID})

	return Turn{UserMessage: userMessage, AssistantMessage: reply}, nil
}

// resolveReply asks the tutor and persists the reply, degrading to the local
// apology message when either step fails.
func (s *Service) resolveReply(ctx context.Context, user auth.User, conversationID, text string) chat.Message {
	answer, err := s.responder.Respond(ctx, tutor.TurnRequest{
		Message:  text,
		UserID:   user.ID,
		UserName: user.Name,
	})
	if err != nil {
		log.Printf("[session] tutor call failed for user=%s: %v", user.ID, err)
		return s.apologyMessage(conversationID)
	}

	stored, err := s.store.AppendMessage(ctx, user, conversationID, chat.RoleAssistant, answer)
	if err != nil {
		log.Printf("[session] failed to persist assistant message for user=%s: %v", user.ID, err)
		return s.apologyMessage(conversationID)
	}
	return stored
}

func (s *Service) apologyMessage(conversationID string) chat.Message {
	return chat.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           chat.RoleAssistant,
		Content:        apologyText,
		CreatedAt:      s.now().UTC(),
	}
}

// Switch changes the active conversation. An empty id starts a fresh session
// with only the welcome message; otherwise the durable history replaces the
// log wholesale once loaded. A switch issued while an earlier load is still
// in flight supersedes it: the stale result is discarded, never applied.
func (s *Service) Switch(ctx context.Context, user auth.User, conversationID string) error {
	if user.ID == "" {
		return ErrNotAuthenticated
	}

	st := s.state(user.ID)

	st.mu.Lock()
	st.epoch++
	epoch := st.epoch
	st.conversationID = conversationID
	if conversationID == "" {
		st.log = []chat.Message{s.welcomeMessage()}
		st.mu.Unlock()
		s.publish(user.ID, events.Event{Type: events.TypeConversation})
		return nil
	}
	st.mu.Unlock()

	messages, err := s.loadHistory(ctx, user, conversationID)
	if err != nil {
		// The currently displayed log stays untouched.
		log.Printf("[session] failed to load history for conversation=%s: %v", conversationID, err)
		return err
	}

	st.mu.Lock()
	if st.epoch == epoch {
		st.log = messages
	}
	st.mu.Unlock()

	s.publish(user.ID, events.Event{Type: events.TypeConversation, ConversationID: conversationID})
	return nil
}

// loadHistory fetches the durable log, substituting the welcome message for
// an empty conversation so a brand-new session never renders blank.
func (s *Service) loadHistory(ctx context.Context, user auth.User, conversationID string) ([]chat.Message, error) {
	messages, err := s.store.ListMessages(ctx, user, conversationID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return []chat.Message{s.welcomeMessage()}, nil
	}
	return messages, nil
}

// Snapshot returns a copy of the user's current session view.
func (s *Service) Snapshot(user auth.User) Snapshot {
	st := s.state(user.ID)

	st.mu.Lock()
	defer st.mu.Unlock()

	messages := make([]chat.Message, len(st.log))
	copy(messages, st.log)
	return Snapshot{
		ConversationID: st.conversationID,
		Messages:       messages,
		Awaiting:       st.awaiting,
	}
}

func (s *Service) publish(userID string, event events.Event) {
	if s.hub != nil {
		s.hub.Publish(userID, event)
	}
}

// replaceByID swaps the optimistic entry for its durable counterpart in
// place, keeping the log order intact.
func replaceByID(log []chat.Message, localID string, durable chat.Message) {
	for i := range log {
		if log[i].ID == localID {
			log[i] = durable
			return
		}
	}
}
