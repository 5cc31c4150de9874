package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/estudiante-elite/backend/internal/model/chat"
	"github.com/estudiante-elite/backend/internal/store"
)

func TestSupabaseCreateConversation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/conversations" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Errorf("missing apikey header")
		}
		if r.Header.Get("Authorization") != "Bearer user-token" {
			t.Errorf("bearer token not forwarded: %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("missing Prefer header")
		}

		var rows []map[string]any
		json.NewDecoder(r.Body).Decode(&rows)
		if len(rows) != 1 || rows[0]["title"] != "Contratos..." {
			t.Errorf("unexpected payload: %+v", rows)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]chat.Conversation{{ID: "conv-1", UserID: "user-1", Title: "Contratos..."}})
	}))
	defer server.Close()

	st := store.NewSupabaseStore(server.URL, "anon-key")
	user := owner
	user.Token = "user-token"

	conv, err := st.CreateConversation(context.Background(), user, "Contratos...")
	if err != nil {
		t.Fatalf("CreateConversation err: %v", err)
	}
	if conv.ID != "conv-1" {
		t.Fatalf("unexpected conversation: %+v", conv)
	}
}

func TestSupabaseListMessagesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("conversation_id") != "eq.conv-1" {
			t.Errorf("unexpected filter: %q", query.Get("conversation_id"))
		}
		if query.Get("order") != "created_at.asc" {
			t.Errorf("unexpected order: %q", query.Get("order"))
		}
		json.NewEncoder(w).Encode([]chat.Message{
			{ID: "m1", ConversationID: "conv-1", Role: chat.RoleUser, Content: "hola"},
		})
	}))
	defer server.Close()

	st := store.NewSupabaseStore(server.URL, "anon-key")
	messages, err := st.ListMessages(context.Background(), owner, "conv-1")
	if err != nil {
		t.Fatalf("ListMessages err: %v", err)
	}
	if len(messages) != 1 || messages[0].ID != "m1" {
		t.Fatalf("unexpected messages: %+v", messages)
	}
}

func TestSupabaseAppendMessageTouchesConversation(t *testing.T) {
	var patched bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/messages":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode([]chat.Message{{ID: "m1", ConversationID: "conv-1", Role: chat.RoleUser, Content: "hola"}})
		case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/conversations":
			if r.URL.Query().Get("id") != "eq.conv-1" {
				t.Errorf("patch filter wrong: %q", r.URL.Query().Get("id"))
			}
			patched = true
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	st := store.NewSupabaseStore(server.URL, "anon-key")
	msg, err := st.AppendMessage(context.Background(), owner, "conv-1", chat.RoleUser, "hola")
	if err != nil {
		t.Fatalf("AppendMessage err: %v", err)
	}
	if msg.ID != "m1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if !patched {
		t.Fatal("conversation updated_at was not refreshed")
	}
}

func TestSupabaseErrorWrapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	st := store.NewSupabaseStore(server.URL, "anon-key")
	if _, err := st.ListConversations(context.Background(), owner); err == nil {
		t.Fatal("expected error for 401 response")
	}
}
