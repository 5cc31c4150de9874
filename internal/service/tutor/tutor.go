package tutor

import "context"

// TurnRequest carries one user turn to the response service.
type TurnRequest struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// Responder generates the assistant reply for a user turn. Implementations
// are stateless between calls; conversation memory lives upstream.
type Responder interface {
	Respond(ctx context.Context, req TurnRequest) (string, error)
}
