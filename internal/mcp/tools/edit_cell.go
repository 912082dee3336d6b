package tools

import (
	"context"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// EditCellParams are the parameters for the edit_cell tool.
type EditCellParams struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id,omitempty"`
	Stmt      int    `json:"stmt"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Value     string `json:"value"`
}

// EditCellHandler implements the edit_cell MCP tool.
type EditCellHandler struct {
	workspaceTool
}

// NewEditCellHandler creates a new handler.
func NewEditCellHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *EditCellHandler {
	return &EditCellHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle overwrites one cell. The value is reclassified: empty means
// NULL, true/false booleans, digits numbers, anything else a string.
func (h *EditCellHandler) Handle(ctx context.Context, params EditCellParams) (string, error) {
	return h.applyEdit(ctx, params.SessionID, params.Path, editor.Operation{
		Op:    editor.OpCellEdit,
		Stmt:  params.Stmt,
		Row:   params.Row,
		Col:   params.Col,
		Value: params.Value,
	})
}
