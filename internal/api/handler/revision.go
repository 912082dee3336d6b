package handler

import (
	"log/slog"
	"net/http"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/pkg/apierr"
)

// RevisionHandler serves document save history.
type RevisionHandler struct {
	logger  *slog.Logger
	service *editor.Service
}

func NewRevisionHandler(logger *slog.Logger, service *editor.Service) *RevisionHandler {
	return &RevisionHandler{logger: logger, service: service}
}

// List handles GET /api/v1/documents/revisions?path=...&limit=N.
func (h *RevisionHandler) List(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if e := validatePath(path); e != nil {
		writeAPIError(w, h.logger, e)
		return
	}
	revs, err := h.service.Revisions(r.Context(), path, parseLimit(r, 50))
	if err != nil {
		writeAPIError(w, h.logger, apierr.From(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"path":      path,
		"revisions": revs,
		"total":     len(revs),
		"enabled":   h.service.HasRevisions(),
	})
}
