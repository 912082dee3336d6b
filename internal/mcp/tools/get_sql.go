package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maraichr/sqlgrid/internal/deparse"
	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// GetSQLParams are the parameters for the get_sql tool.
type GetSQLParams struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id,omitempty"`
}

// GetSQLHandler implements the get_sql MCP tool.
type GetSQLHandler struct {
	workspaceTool
}

// NewGetSQLHandler creates a new handler.
func NewGetSQLHandler(service *editor.Service, sessions *session.Manager, logger *slog.Logger) *GetSQLHandler {
	return &GetSQLHandler{workspaceTool{service: service, sessions: sessions, logger: logger}}
}

// Handle returns the regenerated SQL text, preserving untouched
// statements verbatim.
func (h *GetSQLHandler) Handle(ctx context.Context, params GetSQLParams) (string, error) {
	if params.Path == "" {
		return "", fmt.Errorf("path is required")
	}

	sess, text, err := h.currentText(ctx, params.SessionID, params.Path)
	if err != nil {
		return "", err
	}

	doc := h.service.ParseText(ctx, text)
	sql := deparse.Document(doc.Statements)

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n```sql\n%s```\n", params.Path, sql)
	if sess != nil && sess.Path == params.Path && sess.EditCount > 0 {
		fmt.Fprintf(&b, "\nSession `%s`: showing working copy with %d uncommitted edit(s).\n", sess.ID, sess.EditCount)
	}
	return b.String(), nil
}
