package models

import (
	"time"

	"github.com/google/uuid"
)

// Revision is one recorded save of a document.
type Revision struct {
	ID        uuid.UUID `json:"id"`
	Path      string    `json:"path"`
	Version   int64     `json:"version"`
	Hash      string    `json:"hash"`
	Author    string    `json:"author,omitempty"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
