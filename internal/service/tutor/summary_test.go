package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSummaryGenerate(t *testing.T) {
	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]string{"summary": "# Esquema\n\n- Contratos"})
	}))
	defer server.Close()

	client := NewSummaryClient(server.URL, time.Second)
	got, err := client.Generate(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if got != "# Esquema\n\n- Contratos" {
		t.Fatalf("unexpected summary: %q", got)
	}
	if payload["conversationId"] != "conv-1" {
		t.Fatalf("unexpected request payload: %+v", payload)
	}
}

func TestSummaryFieldFallbackOrder(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"summary":"a","output":"b","text":"c"}`, "a"},
		{`{"output":"b","text":"c"}`, "b"},
		{`{"text":"c"}`, "c"},
		{`{"other":"d"}`, `{"other":"d"}`},
	}

	for _, tc := range cases {
		if got := ExtractReply([]byte(tc.body), "summary", "output", "text"); got != tc.want {
			t.Fatalf("ExtractReply(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestSummaryGenerateFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewSummaryClient(server.URL, time.Second)
	if _, err := client.Generate(context.Background(), "conv-1"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
