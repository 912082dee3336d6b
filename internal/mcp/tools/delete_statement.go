package tools

import (
	"context"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// DeleteStatementParams are the parameters for the delete_statement tool.
type DeleteStatementParams struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id,omitempty"`
	Stmt      int    `json:"stmt"`
}

// DeleteStatementHandler implements the delete_statement MCP tool.
type DeleteStatementHandler struct {
	workspaceTool
}

// NewDeleteStatementHandler creates a new handler.
func NewDeleteStatementHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *DeleteStatementHandler {
	return &DeleteStatementHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle removes a whole statement from the document.
func (h *DeleteStatementHandler) Handle(ctx context.Context, params DeleteStatementParams) (string, error) {
	return h.applyEdit(ctx, params.SessionID, params.Path, editor.Operation{
		Op:   editor.OpDeleteStatement,
		Stmt: params.Stmt,
	})
}
