package tools

import (
	"context"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// RenameColumnParams are the parameters for the rename_column tool.
type RenameColumnParams struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id,omitempty"`
	Stmt      int    `json:"stmt"`
	Col       int    `json:"col"`
	Name      string `json:"name"`
}

// RenameColumnHandler implements the rename_column MCP tool.
type RenameColumnHandler struct {
	workspaceTool
}

// NewRenameColumnHandler creates a new handler.
func NewRenameColumnHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *RenameColumnHandler {
	return &RenameColumnHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle renames one column of an insert statement. Duplicate and
// empty names are rejected.
func (h *RenameColumnHandler) Handle(ctx context.Context, params RenameColumnParams) (string, error) {
	return h.applyEdit(ctx, params.SessionID, params.Path, editor.Operation{
		Op:   editor.OpEditColumnName,
		Stmt: params.Stmt,
		Col:  params.Col,
		Name: params.Name,
	})
}
