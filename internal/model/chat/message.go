package chat

import "time"

// Message roles. Every message belongs to exactly one of these.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn inside a conversation. IDs are assigned by the
// durable store; entries appended optimistically before the store confirms
// carry a locally generated ID until reconciled.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
