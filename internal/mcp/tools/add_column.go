package tools

import (
	"context"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// AddColumnParams are the parameters for the add_column tool.
type AddColumnParams struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id,omitempty"`
	Stmt      int    `json:"stmt"`
	Name      string `json:"name,omitempty"`
}

// AddColumnHandler implements the add_column MCP tool.
type AddColumnHandler struct {
	workspaceTool
}

// NewAddColumnHandler creates a new handler.
func NewAddColumnHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *AddColumnHandler {
	return &AddColumnHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle appends a column to an insert statement, widening every row
// with an empty value. An empty name gets a synthesized columnN name.
func (h *AddColumnHandler) Handle(ctx context.Context, params AddColumnParams) (string, error) {
	return h.applyEdit(ctx, params.SessionID, params.Path, editor.Operation{
		Op:   editor.OpAddColumn,
		Stmt: params.Stmt,
		Name: params.Name,
	})
}
