// Package sessions persists chat sessions and their message history in
// Postgres. A session may start anonymous and be linked to a user later;
// closing a session flips is_active instead of deleting rows.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID         string    `json:"session_id"`
	UserID     string    `json:"user_id,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

type StoredMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	Route     string    `json:"route,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the session tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			session_id UUID PRIMARY KEY,
			user_id TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_active TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id BIGSERIAL PRIMARY KEY,
			session_id UUID NOT NULL REFERENCES chat_sessions(session_id),
			user_id TEXT,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			intent TEXT,
			route TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS chat_messages_session_idx
			ON chat_messages (session_id, created_at)`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure session schema: %w", err)
		}
	}
	return nil
}

// CreateSession inserts a new active session, optionally bound to a user.
func (s *Store) CreateSession(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (session_id, user_id) VALUES ($1, $2)`,
		sessionID, nullable(userID))
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sessionID, nil
}

// GetSession returns an active session or ErrSessionNotFound.
func (s *Store) GetSession(ctx context.Context, sessionID string) (Session, error) {
	var sess Session
	var userID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, is_active, created_at, last_active
		 FROM chat_sessions
		 WHERE session_id = $1 AND is_active = TRUE`,
		sessionID,
	).Scan(&sess.ID, &userID, &sess.IsActive, &sess.CreatedAt, &sess.LastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	sess.UserID = userID.String
	return sess, nil
}

// LinkUser attaches a user to a previously anonymous session.
func (s *Store) LinkUser(ctx context.Context, sessionID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET user_id = $1, last_active = NOW() WHERE session_id = $2`,
		userID, sessionID)
	if err != nil {
		return fmt.Errorf("link session to user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// CloseSession marks a session inactive; its history stays readable.
func (s *Store) CloseSession(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET is_active = FALSE WHERE session_id = $1`,
		sessionID)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// AppendMessage records one conversation turn and refreshes the session's
// last_active timestamp.
func (s *Store) AppendMessage(ctx context.Context, sessionID, userID, role, content, intent, route string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, user_id, role, content, intent, route)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sessionID, nullable(userID), role, content, nullable(intent), nullable(route))
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET last_active = NOW() WHERE session_id = $1`,
		sessionID); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// History returns the last `limit` messages of a session in chronological
// order.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]StoredMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, COALESCE(intent, ''), COALESCE(route, ''), created_at
		 FROM chat_messages
		 WHERE session_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	var messages []StoredMessage
	for rows.Next() {
		var m StoredMessage
		if err := rows.Scan(&m.Role, &m.Content, &m.Intent, &m.Route, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	// Newest-first from the query, oldest-first for callers.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
