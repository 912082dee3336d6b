package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/maraichr/sqlgrid/pkg/apierr"
)

func writeAuthError(w http.ResponseWriter, e *apierr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status())
	json.NewEncoder(w).Encode(e.Response())
}

// RequireAuth validates the JWT and injects the Principal into the context.
func RequireAuth(verifier *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := verifier.VerifyRequest(r)
			if err != nil {
				logger.Warn("auth failed", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
				writeAuthError(w, apierr.Unauthorized("Authentication required"))
				return
			}
			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScope checks that the Principal has at least one of the
// required scopes. Admins bypass scope checks.
func RequireScope(scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				writeAuthError(w, apierr.Unauthorized("Authentication required"))
				return
			}

			if p.IsAdmin() || p.HasAnyScope(scopes...) {
				next.ServeHTTP(w, r)
				return
			}

			writeAuthError(w, apierr.Forbidden("Insufficient scope"))
		})
	}
}
