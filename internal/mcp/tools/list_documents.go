package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp"
)

// ListDocumentsParams are the parameters for the list_documents tool.
type ListDocumentsParams struct {
	Limit int `json:"limit,omitempty"`
}

// ListDocumentsHandler implements the list_documents MCP tool.
type ListDocumentsHandler struct {
	service *editor.Service
	logger  *slog.Logger
}

// NewListDocumentsHandler creates a new handler.
func NewListDocumentsHandler(service *editor.Service, logger *slog.Logger) *ListDocumentsHandler {
	return &ListDocumentsHandler{service: service, logger: logger}
}

// Handle lists the SQL documents in the workspace.
func (h *ListDocumentsHandler) Handle(ctx context.Context, params ListDocumentsParams) (string, error) {
	if params.Limit <= 0 {
		params.Limit = 100
	}

	infos, err := h.service.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list documents: %w", err)
	}
	if len(infos) == 0 {
		return "No SQL documents in the workspace.", nil
	}

	rb := mcp.NewResponseBuilder(0)
	rb.AddHeader(fmt.Sprintf("**Documents** (%d found)", len(infos)))

	shown := 0
	for _, info := range infos {
		if shown >= params.Limit {
			break
		}
		if !rb.AddLine(fmt.Sprintf("- `%s` (%d bytes, modified %s)",
			info.Path, info.SizeBytes, info.ModifiedAt.Format("2006-01-02 15:04:05"))) {
			break
		}
		shown++
	}

	return rb.Finalize(len(infos), shown), nil
}
