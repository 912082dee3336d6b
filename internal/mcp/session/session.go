// Package session keeps per-agent working copies of documents in
// Valkey. An agent edits its copy across tool calls and commits it
// with save_document; until then nothing touches the workspace file.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	sessionKeyPrefix  = "sqlgrid:mcp:session:"
	defaultSessionTTL = 30 * time.Minute
)

// Session is one agent's working copy of one document. BaseHash is the
// content hash the copy was seeded from; the save is compare-and-swap
// against it, so a concurrent writer surfaces as a conflict.
type Session struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Text      string    `json:"text"`
	BaseHash  string    `json:"base_hash"`
	EditCount int       `json:"edit_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Started reports whether the session holds a working copy yet.
func (s *Session) Started() bool { return s.Path != "" }

// Seed installs a fresh working copy, replacing any previous one.
func (s *Session) Seed(path, text, hash string) {
	s.Path = path
	s.Text = text
	s.BaseHash = hash
	s.EditCount = 0
}

// RecordEdit replaces the working text after a successful edit.
func (s *Session) RecordEdit(text string) {
	s.Text = text
	s.EditCount++
}

// Manager handles loading and saving sessions to Valkey.
type Manager struct {
	client valkey.Client
	ttl    time.Duration
}

// NewManager creates a session manager backed by the given Valkey
// client. A non-positive ttl falls back to the 30-minute default.
func NewManager(client valkey.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Manager{client: client, ttl: ttl}
}

// Load retrieves a session from Valkey. An empty or unknown session ID
// yields a new empty session.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	key := sessionKeyPrefix + sessionID
	resp := m.client.Do(ctx, m.client.B().Get().Key(key).Build())
	data, err := resp.AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return newSession(sessionID), nil
		}
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return newSession(sessionID), nil
	}
	return &s, nil
}

// Save persists a session to Valkey, refreshing its TTL.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now()
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := sessionKeyPrefix + s.ID
	resp := m.client.Do(ctx, m.client.B().Set().Key(key).Value(string(data)).Ex(m.ttl).Build())
	if err := resp.Error(); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// Delete discards a session, typically after its working copy was
// committed.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	key := sessionKeyPrefix + sessionID
	resp := m.client.Do(ctx, m.client.B().Del().Key(key).Build())
	if err := resp.Error(); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

func newSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
