package chat

import "time"

// Conversation is a titled, timestamped container for an ordered message log,
// owned by a single user. Conversations are never deleted, only archived.
type Conversation struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Topic      string    `json:"topic,omitempty"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
