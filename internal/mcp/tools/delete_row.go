package tools

import (
	"context"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// DeleteRowParams are the parameters for the delete_row tool.
type DeleteRowParams struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id,omitempty"`
	Stmt      int    `json:"stmt"`
	Row       int    `json:"row"`
}

// DeleteRowHandler implements the delete_row MCP tool.
type DeleteRowHandler struct {
	workspaceTool
}

// NewDeleteRowHandler creates a new handler.
func NewDeleteRowHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *DeleteRowHandler {
	return &DeleteRowHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle removes one row from an insert statement.
func (h *DeleteRowHandler) Handle(ctx context.Context, params DeleteRowParams) (string, error) {
	return h.applyEdit(ctx, params.SessionID, params.Path, editor.Operation{
		Op:   editor.OpDeleteRow,
		Stmt: params.Stmt,
		Row:  params.Row,
	})
}
