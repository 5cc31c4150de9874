package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/estudiante-elite/backend/internal/auth"
	"github.com/estudiante-elite/backend/internal/model/chat"
)

// SupabaseStore talks to the hosted PostgREST API that backs the production
// deployment. Row-level security scopes reads to the requesting user, so the
// bearer token from the request is forwarded on every call; the anon key is
// used when the request carried no token.
type SupabaseStore struct {
	baseURL string
	anonKey string
	client  *http.Client
}

// NewSupabaseStore builds a store client for the given project URL and anon key.
func NewSupabaseStore(baseURL, anonKey string) *SupabaseStore {
	return &SupabaseStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *SupabaseStore) CreateConversation(ctx context.Context, user auth.User, title string) (chat.Conversation, error) {
	payload := []map[string]any{{
		"user_id": user.ID,
		"title":   title,
	}}

	var rows []chat.Conversation
	if err := s.do(ctx, user, http.MethodPost, "/rest/v1/conversations", nil, payload, &rows); err != nil {
		return chat.Conversation{}, err
	}
	if len(rows) == 0 {
		return chat.Conversation{}, fmt.Errorf("%w: create conversation returned no row", ErrStore)
	}
	return rows[0], nil
}

func (s *SupabaseStore) ListConversations(ctx context.Context, user auth.User) ([]chat.Conversation, error) {
	query := url.Values{
		"select":  {"*"},
		"user_id": {"eq." + user.ID},
		"order":   {"updated_at.desc"},
	}

	var rows []chat.Conversation
	if err := s.do(ctx, user, http.MethodGet, "/rest/v1/conversations", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *SupabaseStore) ListMessages(ctx context.Context, user auth.User, conversationID string) ([]chat.Message, error) {
	query := url.Values{
		"select":          {"*"},
		"conversation_id": {"eq." + conversationID},
		"order":           {"created_at.asc"},
	}

	var rows []chat.Message
	if err := s.do(ctx, user, http.MethodGet, "/rest/v1/messages", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *SupabaseStore) AppendMessage(ctx context.Context, user auth.User, conversationID, role, content string) (chat.Message, error) {
	payload := []map[string]any{{
		"conversation_id": conversationID,
		"role":            role,
		"content":         content,
	}}

	var rows []chat.Message
	if err := s.do(ctx, user, http.MethodPost, "/rest/v1/messages", nil, payload, &rows); err != nil {
		return chat.Message{}, err
	}
	if len(rows) == 0 {
		return chat.Message{}, fmt.Errorf("%w: append message returned no row", ErrStore)
	}

	// Refresh the conversation's updated_at so the sidebar sorts it first.
	touch := map[string]any{"updated_at": time.Now().UTC().Format(time.RFC3339)}
	query := url.Values{"id": {"eq." + conversationID}}
	if err := s.do(ctx, user, http.MethodPatch, "/rest/v1/conversations", query, touch, nil); err != nil {
		return chat.Message{}, err
	}

	return rows[0], nil
}

// do performs one PostgREST round trip and decodes the response into out
// when out is non-nil.
func (s *SupabaseStore) do(ctx context.Context, user auth.User, method, path string, query url.Values, payload, out any) error {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", ErrStore, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	token := user.Token
	if token == "" {
		token = s.anonKey
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if out != nil {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrStore, method, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrStore, err)
	}
	return nil
}
