package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/maraichr/sqlgrid/internal/deparse"
	"github.com/maraichr/sqlgrid/internal/document"
	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/pkg/apierr"
	"github.com/maraichr/sqlgrid/pkg/models"
)

// DocumentHandler exposes the workspace documents over HTTP: listing,
// the parsed grid model, the regenerated SQL, edit operations, and raw
// saves with If-Match concurrency control.
type DocumentHandler struct {
	logger  *slog.Logger
	service *editor.Service
}

func NewDocumentHandler(logger *slog.Logger, service *editor.Service) *DocumentHandler {
	return &DocumentHandler{logger: logger, service: service}
}

// documentEnvelope is the common response shape for endpoints that
// return document state; Hash doubles as the If-Match value for the
// next save.
type documentEnvelope struct {
	Path     string          `json:"path"`
	Hash     string          `json:"hash"`
	Version  int64           `json:"version"`
	Document models.Document `json:"document"`
	SQL      string          `json:"sql"`
}

func envelope(h document.Handle, doc models.Document) documentEnvelope {
	return documentEnvelope{
		Path:     h.Path,
		Hash:     h.Hash,
		Version:  h.Version,
		Document: doc,
		SQL:      h.Text,
	}
}

// List handles GET /api/v1/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.service.List(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.From(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": infos,
		"total":     len(infos),
	})
}

// Get handles GET /api/v1/documents/content?path=...
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if e := validatePath(path); e != nil {
		writeAPIError(w, h.logger, e)
		return
	}
	handle, err := h.service.Load(r.Context(), path)
	if err != nil {
		writeAPIError(w, h.logger, apierr.From(err))
		return
	}
	doc := h.service.Parse(r.Context(), handle)
	writeJSON(w, http.StatusOK, envelope(handle, doc))
}

// GetSQL handles GET /api/v1/documents/sql?path=... It returns the
// regenerated text, which preserves untouched statements verbatim and
// normalizes only statement joining.
func (h *DocumentHandler) GetSQL(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if e := validatePath(path); e != nil {
		writeAPIError(w, h.logger, e)
		return
	}
	handle, err := h.service.Load(r.Context(), path)
	if err != nil {
		writeAPIError(w, h.logger, apierr.From(err))
		return
	}
	doc := h.service.Parse(r.Context(), handle)
	w.Header().Set("Content-Type", "application/sql")
	w.Header().Set("ETag", `"`+handle.Hash+`"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, deparse.Document(doc.Statements))
}

type editRequest struct {
	Path string `json:"path"`
	Hash string `json:"hash,omitempty"`
	editor.Operation
}

// Edit handles POST /api/v1/documents/edit. The optional hash makes
// the request conditional on the content the client last saw.
func (h *DocumentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}
	if e := validatePath(req.Path); e != nil {
		writeAPIError(w, h.logger, e)
		return
	}

	handle, err := h.service.Load(r.Context(), req.Path)
	if err != nil {
		writeAPIError(w, h.logger, apierr.From(err))
		return
	}
	if req.Hash != "" && req.Hash != handle.Hash {
		writeAPIError(w, h.logger, apierr.VersionConflict(req.Path))
		return
	}

	next, doc, err := h.service.ApplyEditToHandle(r.Context(), handle, req.Operation)
	if err != nil {
		writeAPIError(w, h.logger, apierr.From(err))
		return
	}
	writeJSON(w, http.StatusOK, envelope(next, doc))
}

type saveRequest struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// Put handles PUT /api/v1/documents/content. With an If-Match header
// the save is compare-and-swap; without one it force-writes, creating
// the file when missing.
func (h *DocumentHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}
	if e := validatePath(req.Path); e != nil {
		writeAPIError(w, h.logger, e)
		return
	}

	next, err := h.service.SaveText(r.Context(), req.Path, req.Text, ifMatchHash(r))
	if err != nil {
		writeAPIError(w, h.logger, apierr.From(err))
		return
	}
	doc := h.service.Parse(r.Context(), next)
	writeJSON(w, http.StatusOK, envelope(next, doc))
}

// ifMatchHash extracts the expected content hash from If-Match,
// tolerating the quoted ETag form.
func ifMatchHash(r *http.Request) string {
	v := r.Header.Get("If-Match")
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}
	return v
}

// parseLimit reads a limit query parameter with a fallback default.
func parseLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
