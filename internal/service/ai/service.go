package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/estudiante-elite/backend/internal/config"
	"github.com/estudiante-elite/backend/internal/service/tutor"
)

const systemPrompt = `Eres un tutor de Derecho personalizado para estudiantes universitarios.
Explicas conceptos jurídicos con rigor pero en un lenguaje claro, resuelves dudas
paso a paso y, cuando ayuda al estudio, propones esquemas y resúmenes en Markdown.
El estudiante se llama {userName}. Responde siempre en español.`

// Service answers tutor turns directly against the configured chat model.
// It is used when no workflow webhook is configured and satisfies the same
// tutor.Responder contract as the webhook client.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the model-backed responder.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chatModel: chatModel, chain: runnable}, nil
}

// Respond generates a tutor reply for one turn.
func (s *Service) Respond(ctx context.Context, req tutor.TurnRequest) (string, error) {
	input := map[string]any{
		"userName": req.UserName,
		"query":    req.Message,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	log.Printf("[ai] generated response for user=%s, length=%d", req.UserID, len(response.Content))
	return response.Content, nil
}
