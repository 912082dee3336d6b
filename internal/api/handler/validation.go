package handler

import (
	"strings"

	"github.com/maraichr/sqlgrid/pkg/apierr"
)

// validatePath checks a document path query/body value before it
// reaches the store: relative, .sql, no traversal. The store enforces
// the same rules; this just produces the right 400 at the edge.
func validatePath(path string) *apierr.Error {
	if path == "" {
		return apierr.InvalidPath(path)
	}
	if strings.HasPrefix(path, "/") || strings.Contains(path, "\\") {
		return apierr.InvalidPath(path)
	}
	if !strings.HasSuffix(path, ".sql") {
		return apierr.InvalidPath(path)
	}
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return apierr.InvalidPath(path)
		}
	}
	return nil
}
