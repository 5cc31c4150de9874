package store

import (
	"context"
	"errors"

	"github.com/estudiante-elite/backend/internal/auth"
	"github.com/estudiante-elite/backend/internal/model/chat"
)

var (
	// ErrStore wraps connectivity or authorization failures against the
	// durable store. Callers treat all of them uniformly.
	ErrStore = errors.New("conversation store error")

	ErrConversationNotFound = errors.New("conversation not found")
)

// Store is the durable, append-only record of conversations and messages.
// Messages are immutable once written; appending a message refreshes the
// owning conversation's updated_at as a side effect. IDs are always assigned
// by the store, never by callers.
type Store interface {
	// CreateConversation provisions a conversation owned by the user.
	CreateConversation(ctx context.Context, user auth.User, title string) (chat.Conversation, error)

	// ListConversations returns the user's conversations, most recently
	// updated first.
	ListConversations(ctx context.Context, user auth.User) ([]chat.Conversation, error)

	// ListMessages returns a conversation's messages ordered ascending by
	// creation time.
	ListMessages(ctx context.Context, user auth.User, conversationID string) ([]chat.Message, error)

	// AppendMessage durably appends one message and returns it with its
	// store-assigned identity and timestamp.
	AppendMessage(ctx context.Context, user auth.User, conversationID, role, content string) (chat.Message, error)
}
