package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/estudiante-elite/backend/internal/auth"
)

type generatorFunc func(ctx context.Context, conversationID string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, conversationID string) (string, error) {
	return f(ctx, conversationID)
}

func setupRouter(g Generator) *chi.Mux {
	r := chi.NewRouter()
	r.Use(auth.Middleware)
	New(g).RegisterRoutes(r)
	return r
}

func post(r http.Handler, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/summary", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestGenerateSummary(t *testing.T) {
	r := setupRouter(generatorFunc(func(_ context.Context, conversationID string) (string, error) {
		if conversationID != "conv-1" {
			t.Errorf("unexpected conversation id: %q", conversationID)
		}
		return "# Esquema\n\n**Contratos** y más", nil
	}))

	resp := post(r, map[string]string{"conversationId": "conv-1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]string
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["summary"] != "# Esquema\n\n**Contratos** y más" {
		t.Fatalf("unexpected summary: %q", body["summary"])
	}
	if body["plainText"] != "Esquema\n\nContratos y más" {
		t.Fatalf("unexpected plain text: %q", body["plainText"])
	}
}

func TestGenerateSummaryMissingID(t *testing.T) {
	r := setupRouter(generatorFunc(func(context.Context, string) (string, error) {
		return "", nil
	}))

	resp := post(r, map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGenerateSummaryFailure(t *testing.T) {
	r := setupRouter(generatorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("workflow unavailable")
	}))

	resp := post(r, map[string]string{"conversationId": "conv-1"})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestGenerateSummaryUnconfigured(t *testing.T) {
	r := setupRouter(nil)

	resp := post(r, map[string]string{"conversationId": "conv-1"})
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
