package tools

import (
	"context"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// SetWhereParams are the parameters for the set_where tool.
type SetWhereParams struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id,omitempty"`
	Stmt      int    `json:"stmt"`
	Where     string `json:"where"`
}

// SetWhereHandler implements the set_where MCP tool.
type SetWhereHandler struct {
	workspaceTool
}

// NewSetWhereHandler creates a new handler.
func NewSetWhereHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *SetWhereHandler {
	return &SetWhereHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle replaces the WHERE condition of an update or delete. The
// candidate statement must reparse; a condition that does not produce
// valid SQL is rejected and the document is left untouched.
func (h *SetWhereHandler) Handle(ctx context.Context, params SetWhereParams) (string, error) {
	return h.applyEdit(ctx, params.SessionID, params.Path, editor.Operation{
		Op:    editor.OpEditWhere,
		Stmt:  params.Stmt,
		Where: params.Where,
	})
}
