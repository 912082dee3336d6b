package handler

import (
	"net/http"
	"os"

	"github.com/maraichr/sqlgrid/pkg/apierr"
)

type HealthHandler struct {
	workspaceRoot string
}

func NewHealthHandler(workspaceRoot string) *HealthHandler {
	return &HealthHandler{workspaceRoot: workspaceRoot}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if fi, err := os.Stat(h.workspaceRoot); err != nil || !fi.IsDir() {
		writeAPIError(w, nil, apierr.WorkspaceNotReady())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
