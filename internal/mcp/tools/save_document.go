package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// SaveDocumentParams are the parameters for the save_document tool.
type SaveDocumentParams struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id"`
	Force     bool   `json:"force,omitempty"`
}

// SaveDocumentHandler implements the save_document MCP tool.
type SaveDocumentHandler struct {
	workspaceTool
}

// NewSaveDocumentHandler creates a new handler.
func NewSaveDocumentHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *SaveDocumentHandler {
	return &SaveDocumentHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle commits a session's working copy to the workspace file. The
// write is compare-and-swap against the content the session started
// from; if someone else changed the file, the save fails unless force
// is set. The session is discarded after a successful commit.
func (h *SaveDocumentHandler) Handle(ctx context.Context, params SaveDocumentParams) (string, error) {
	if params.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	if h.sessions == nil {
		return "Edits write through to the workspace immediately; there is nothing to commit.", nil
	}
	if params.SessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}

	sess, err := h.sessions.Load(ctx, params.SessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !sess.Started() || sess.Path != params.Path {
		return "", fmt.Errorf("session %s has no working copy of %s", params.SessionID, params.Path)
	}
	if sess.EditCount == 0 {
		return fmt.Sprintf("Session `%s` has no uncommitted edits for `%s`.", sess.ID, sess.Path), nil
	}

	expected := sess.BaseHash
	if params.Force {
		expected = ""
	}
	next, err := h.service.SaveText(ctx, sess.Path, sess.Text, expected)
	if err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}

	if err := h.sessions.Delete(ctx, sess.ID); err != nil {
		h.logger.Warn("session cleanup failed", slog.String("session_id", sess.ID), slog.String("error", err.Error()))
	}

	return fmt.Sprintf("Saved `%s` (version %d, hash `%s`): %d edit(s) committed.",
		next.Path, next.Version, next.Hash, sess.EditCount), nil
}
