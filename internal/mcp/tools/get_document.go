package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// GetDocumentParams are the parameters for the get_document tool.
type GetDocumentParams struct {
	Path              string `json:"path"`
	SessionID         string `json:"session_id,omitempty"`
	MaxResponseTokens int    `json:"max_response_tokens,omitempty"`
}

// GetDocumentHandler implements the get_document MCP tool.
type GetDocumentHandler struct {
	workspaceTool
}

// NewGetDocumentHandler creates a new handler.
func NewGetDocumentHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *GetDocumentHandler {
	return &GetDocumentHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle renders a document's statements as editable grid tables. With
// a session_id the agent's uncommitted working copy is shown instead of
// the file on disk.
func (h *GetDocumentHandler) Handle(ctx context.Context, params GetDocumentParams) (string, error) {
	if params.Path == "" {
		return "", fmt.Errorf("path is required")
	}

	sess, text, err := h.currentText(ctx, params.SessionID, params.Path)
	if err != nil {
		return "", err
	}

	doc := h.service.ParseText(ctx, text)
	out := mcp.FormatDocument(params.Path, doc, params.MaxResponseTokens)
	if sess != nil && sess.Path == params.Path && sess.EditCount > 0 {
		out += fmt.Sprintf("\nSession `%s`: showing working copy with %d uncommitted edit(s).\n", sess.ID, sess.EditCount)
	}
	return out, nil
}
