package tools

import (
	"context"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// AddRowParams are the parameters for the add_row tool.
type AddRowParams struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id,omitempty"`
	Stmt      int    `json:"stmt"`
}

// AddRowHandler implements the add_row MCP tool.
type AddRowHandler struct {
	workspaceTool
}

// NewAddRowHandler creates a new handler.
func NewAddRowHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *AddRowHandler {
	return &AddRowHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle appends a row of empty values to an insert statement.
func (h *AddRowHandler) Handle(ctx context.Context, params AddRowParams) (string, error) {
	return h.applyEdit(ctx, params.SessionID, params.Path, editor.Operation{
		Op:   editor.OpAddRow,
		Stmt: params.Stmt,
	})
}
