package session

import (
	"testing"
	"time"
)

// --- session state ---

func TestSession_SeedAndEdit(t *testing.T) {
	s := newSession("abc")
	if s.Started() {
		t.Fatal("new session should not be started")
	}

	s.Seed("users.sql", "SELECT 1;\n", "hash-1")
	if !s.Started() {
		t.Fatal("seeded session should be started")
	}
	if s.Path != "users.sql" || s.BaseHash != "hash-1" {
		t.Errorf("unexpected seed state: %+v", s)
	}
	if s.EditCount != 0 {
		t.Errorf("seed should reset edit count, got %d", s.EditCount)
	}

	s.RecordEdit("SELECT 2;\n")
	s.RecordEdit("SELECT 3;\n")
	if s.Text != "SELECT 3;\n" {
		t.Errorf("expected latest text, got %q", s.Text)
	}
	if s.EditCount != 2 {
		t.Errorf("expected 2 edits, got %d", s.EditCount)
	}

	// Re-seeding discards the previous working copy.
	s.Seed("other.sql", "SELECT 9;\n", "hash-2")
	if s.EditCount != 0 || s.BaseHash != "hash-2" {
		t.Errorf("re-seed should reset: %+v", s)
	}
}

func TestNewSession_Timestamps(t *testing.T) {
	before := time.Now()
	s := newSession("id-1")
	if s.ID != "id-1" {
		t.Errorf("expected id-1, got %s", s.ID)
	}
	if s.CreatedAt.Before(before) || s.UpdatedAt.Before(before) {
		t.Error("expected timestamps to be set")
	}
}

func TestNewManager_DefaultTTL(t *testing.T) {
	m := NewManager(nil, 0)
	if m.ttl != defaultSessionTTL {
		t.Errorf("expected default TTL, got %v", m.ttl)
	}
	m = NewManager(nil, 5*time.Minute)
	if m.ttl != 5*time.Minute {
		t.Errorf("expected 5m TTL, got %v", m.ttl)
	}
}
