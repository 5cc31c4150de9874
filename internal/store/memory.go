package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/estudiante-elite/backend/internal/auth"
	"github.com/estudiante-elite/backend/internal/model/chat"
)

// MemoryStore implements Store with mutex-guarded maps. It backs local
// development without hosted credentials and the unit tests.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]chat.Conversation
	messages      map[string][]chat.Message
	now           func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]chat.Conversation),
		messages:      make(map[string][]chat.Message),
		now:           time.Now,
	}
}

func (s *MemoryStore) CreateConversation(_ context.Context, user auth.User, title string) (chat.Conversation, error) {
	now := s.now().UTC()
	conv := chat.Conversation{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.messages[conv.ID] = make([]chat.Message, 0, 16)
	s.mu.Unlock()

	return conv, nil
}

func (s *MemoryStore) ListConversations(_ context.Context, user auth.User) ([]chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]chat.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		if conv.UserID == user.ID {
			list = append(list, conv)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

func (s *MemoryStore) ListMessages(_ context.Context, user auth.User, conversationID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[conversationID]
	if !ok || conv.UserID != user.ID {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}

	messages := s.messages[conversationID]
	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, user auth.User, conversationID, role, content string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok || conv.UserID != user.ID {
		return chat.Message{}, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}

	message := chat.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      s.now().UTC(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], message)

	conv.UpdatedAt = message.CreatedAt
	s.conversations[conversationID] = conv

	return message, nil
}
