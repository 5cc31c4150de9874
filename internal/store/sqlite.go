package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/estudiante-elite/backend/internal/auth"
	"github.com/estudiante-elite/backend/internal/model/chat"
)

// SQLiteStore is the self-hosted durable store. It mirrors the hosted
// schema: conversations plus an append-only messages table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed initializes) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL keeps readers from blocking the single writer.
	dsn := dbPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		topic TEXT NOT NULL DEFAULT '',
		is_archived INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_id, updated_at);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations(id),
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateConversation(ctx context.Context, user auth.User, title string) (chat.Conversation, error) {
	now := time.Now().UTC()
	conv := chat.Conversation{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, title, topic, is_archived, created_at, updated_at)
		 VALUES (?, ?, ?, '', 0, ?, ?)`,
		conv.ID, conv.UserID, conv.Title, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("%w: insert conversation: %v", ErrStore, err)
	}
	return conv, nil
}

func (s *SQLiteStore) ListConversations(ctx context.Context, user auth.User) ([]chat.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, topic, is_archived, created_at, updated_at
		 FROM conversations WHERE user_id = ? ORDER BY updated_at DESC`,
		user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list conversations: %v", ErrStore, err)
	}
	defer rows.Close()

	var list []chat.Conversation
	for rows.Next() {
		var conv chat.Conversation
		var archived int
		var created, updated string
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.Topic, &archived, &created, &updated); err != nil {
			return nil, fmt.Errorf("%w: scan conversation: %v", ErrStore, err)
		}
		conv.IsArchived = archived != 0
		conv.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		conv.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		list = append(list, conv)
	}
	return list, rows.Err()
}

func (s *SQLiteStore) ListMessages(ctx context.Context, user auth.User, conversationID string) ([]chat.Message, error) {
	if err := s.checkOwner(ctx, user, conversationID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY created_at ASC`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %v", ErrStore, err)
	}
	defer rows.Close()

	var list []chat.Message
	for rows.Next() {
		var msg chat.Message
		var created string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &created); err != nil {
			return nil, fmt.Errorf("%w: scan message: %v", ErrStore, err)
		}
		msg.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		list = append(list, msg)
	}
	return list, rows.Err()
}

func (s *SQLiteStore) AppendMessage(ctx context.Context, user auth.User, conversationID, role, content string) (chat.Message, error) {
	if err := s.checkOwner(ctx, user, conversationID); err != nil {
		return chat.Message{}, err
	}

	message := chat.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return chat.Message{}, fmt.Errorf("%w: begin append: %v", ErrStore, err)
	}
	defer tx.Rollback()

	ts := message.CreatedAt.Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		message.ID, message.ConversationID, message.Role, message.Content, ts); err != nil {
		return chat.Message{}, fmt.Errorf("%w: insert message: %v", ErrStore, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`, ts, conversationID); err != nil {
		return chat.Message{}, fmt.Errorf("%w: touch conversation: %v", ErrStore, err)
	}
	if err := tx.Commit(); err != nil {
		return chat.Message{}, fmt.Errorf("%w: commit append: %v", ErrStore, err)
	}

	return message, nil
}

func (s *SQLiteStore) checkOwner(ctx context.Context, user auth.User, conversationID string) error {
	var owner string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id FROM conversations WHERE id = ?`, conversationID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != user.ID) {
		return fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}
	if err != nil {
		return fmt.Errorf("%w: lookup conversation: %v", ErrStore, err)
	}
	return nil
}
