package tools

import (
	"context"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// DeleteColumnParams are the parameters for the delete_column tool.
type DeleteColumnParams struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id,omitempty"`
	Stmt      int    `json:"stmt"`
	Col       int    `json:"col"`
}

// DeleteColumnHandler implements the delete_column MCP tool.
type DeleteColumnHandler struct {
	workspaceTool
}

// NewDeleteColumnHandler creates a new handler.
func NewDeleteColumnHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *DeleteColumnHandler {
	return &DeleteColumnHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle removes a column and the matching cell from every row.
func (h *DeleteColumnHandler) Handle(ctx context.Context, params DeleteColumnParams) (string, error) {
	return h.applyEdit(ctx, params.SessionID, params.Path, editor.Operation{
		Op:   editor.OpDeleteColumn,
		Stmt: params.Stmt,
		Col:  params.Col,
	})
}
