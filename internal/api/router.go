package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apihandler "github.com/maraichr/sqlgrid/internal/api/handler"
	apimw "github.com/maraichr/sqlgrid/internal/api/middleware"
	"github.com/maraichr/sqlgrid/internal/auth"
	"github.com/maraichr/sqlgrid/internal/editor"
)

// RouterDeps holds optional dependencies for the router.
type RouterDeps struct {
	Verifier    *auth.Verifier
	AuthEnabled bool
}

func NewRouter(logger *slog.Logger, service *editor.Service, workspaceRoot string, deps *RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.Logger(logger))
	r.Use(apimw.CORS)
	r.Use(chimw.Recoverer)

	// Health checks
	health := apihandler.NewHealthHandler(workspaceRoot)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	if deps == nil {
		deps = &RouterDeps{}
	}

	authn := auth.DevModeMiddleware(logger)
	if deps.AuthEnabled && deps.Verifier != nil {
		authn = auth.RequireAuth(deps.Verifier, logger)
	}

	documents := apihandler.NewDocumentHandler(logger, service)
	revisions := apihandler.NewRevisionHandler(logger, service)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authn)

		r.Route("/documents", func(r chi.Router) {
			r.With(auth.RequireScope("documents:read")).Get("/", documents.List)
			r.With(auth.RequireScope("documents:read")).Get("/content", documents.Get)
			r.With(auth.RequireScope("documents:read")).Get("/sql", documents.GetSQL)
			r.With(auth.RequireScope("documents:read")).Get("/revisions", revisions.List)
			r.With(auth.RequireScope("documents:write")).Post("/edit", documents.Edit)
			r.With(auth.RequireScope("documents:write")).Put("/content", documents.Put)
		})
	})

	// Render bridge. Browsers cannot set Authorization headers on
	// websocket upgrades, so the bridge sits outside the scope checks.
	ws := apihandler.NewWSHandler(logger, service)
	r.Get("/ws", ws.Serve)

	return r
}
