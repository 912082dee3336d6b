package editor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/maraichr/sqlgrid/internal/auth"
	"github.com/maraichr/sqlgrid/internal/cache"
	"github.com/maraichr/sqlgrid/internal/document"
	"github.com/maraichr/sqlgrid/internal/extract"
	"github.com/maraichr/sqlgrid/internal/revision"
	"github.com/maraichr/sqlgrid/internal/workspace"
	"github.com/maraichr/sqlgrid/pkg/apierr"
	"github.com/maraichr/sqlgrid/pkg/models"
)

// ServiceDeps holds the optional subsystems a Service can use. Only
// Docs is required; everything else degrades to a no-op when nil.
type ServiceDeps struct {
	Cache     *cache.Cache
	Revisions *revision.Store
	Backups   *workspace.Backups
	Remote    *workspace.S3Sync
}

// Service is the document-editing facade shared by the HTTP API, the
// WebSocket bridge, and the MCP tools: load, parse (cached), edit with
// compare-and-swap saves, and the save-side bookkeeping (revisions,
// backups, remote push).
type Service struct {
	logger *slog.Logger
	docs   *document.Store
	deps   ServiceDeps
}

func NewService(logger *slog.Logger, docs *document.Store, deps ServiceDeps) *Service {
	return &Service{logger: logger, docs: docs, deps: deps}
}

// List returns the workspace's documents.
func (s *Service) List(ctx context.Context) ([]models.DocumentInfo, error) {
	infos, err := s.docs.List(ctx)
	if err != nil {
		return nil, apierr.DocumentListFailed(err)
	}
	return infos, nil
}

// Load returns a document's current handle.
func (s *Service) Load(ctx context.Context, path string) (document.Handle, error) {
	h, err := s.docs.Load(ctx, path)
	if err != nil {
		return document.Handle{}, wrapDocError(path, err)
	}
	return h, nil
}

// Parse returns the grid model for a handle's text, consulting the
// parse cache by content hash first.
func (s *Service) Parse(ctx context.Context, h document.Handle) models.Document {
	return s.ParseText(ctx, h.Text)
}

// ParseText parses raw document text through the cache.
func (s *Service) ParseText(ctx context.Context, text string) models.Document {
	if s.deps.Cache == nil {
		return extract.Document(text)
	}
	hash := document.HashText(text)
	if doc, ok := s.deps.Cache.Get(ctx, hash); ok {
		return doc
	}
	doc := extract.Document(text)
	s.deps.Cache.Put(ctx, hash, doc)
	return doc
}

// ApplyEdit loads a document, applies one operation, and saves the
// result with compare-and-swap against the loaded content. The returned
// handle and model reflect the saved state.
func (s *Service) ApplyEdit(ctx context.Context, path string, op Operation) (document.Handle, models.Document, error) {
	h, err := s.Load(ctx, path)
	if err != nil {
		return document.Handle{}, models.Document{}, err
	}
	return s.ApplyEditToHandle(ctx, h, op)
}

// ApplyEditToHandle applies one operation against an already-loaded
// handle, making a stale handle an explicit version conflict.
func (s *Service) ApplyEditToHandle(ctx context.Context, h document.Handle, op Operation) (document.Handle, models.Document, error) {
	newText, err := Apply(h.Text, op)
	if err != nil {
		return h, s.Parse(ctx, h), err
	}
	next, err := s.Save(ctx, h, newText, editAuthor(ctx))
	if err != nil {
		return h, s.Parse(ctx, h), err
	}
	return next, s.Parse(ctx, next), nil
}

// Save writes newText over the content h was loaded from, then runs the
// save-side bookkeeping: pre-save backup of the old content, a revision
// record, and a remote push. Bookkeeping failures degrade with a
// warning; only the write itself can fail the save.
func (s *Service) Save(ctx context.Context, h document.Handle, newText, author string) (document.Handle, error) {
	if s.deps.Backups != nil {
		if err := s.deps.Backups.Put(ctx, h.Path, h.Hash, []byte(h.Text)); err != nil {
			s.logger.Warn("pre-save backup failed", slog.String("path", h.Path), slog.String("error", err.Error()))
		}
	}

	next, err := s.docs.Save(ctx, h, newText)
	if err != nil {
		return document.Handle{}, wrapDocError(h.Path, err)
	}

	s.afterSave(ctx, next, author)
	return next, nil
}

// SaveText is the raw-save entry point of the HTTP API. With an
// expected hash the write is compare-and-swap; without one it is an
// explicit force save that also creates missing files.
func (s *Service) SaveText(ctx context.Context, path, text, expectedHash string) (document.Handle, error) {
	if expectedHash == "" {
		next, err := s.docs.SaveForce(ctx, path, text)
		if err != nil {
			return document.Handle{}, wrapDocError(path, err)
		}
		s.afterSave(ctx, next, editAuthor(ctx))
		return next, nil
	}

	h, err := s.Load(ctx, path)
	if err != nil {
		return document.Handle{}, err
	}
	if h.Hash != expectedHash {
		return document.Handle{}, apierr.VersionConflict(path)
	}
	return s.Save(ctx, h, text, editAuthor(ctx))
}

// afterSave runs the best-effort bookkeeping of a completed write.
func (s *Service) afterSave(ctx context.Context, next document.Handle, author string) {
	if s.deps.Revisions != nil {
		if _, err := s.deps.Revisions.Record(ctx, next.Path, next.Version, next.Hash, author, int64(len(next.Text))); err != nil {
			s.logger.Warn("revision record failed", slog.String("path", next.Path), slog.String("error", err.Error()))
		}
	}
	if s.deps.Remote != nil {
		if err := s.deps.Remote.PushObject(ctx, next.Path, []byte(next.Text)); err != nil {
			s.logger.Warn("remote push failed", slog.String("path", next.Path), slog.String("error", err.Error()))
		}
	}
}

// Revisions lists a document's save history, newest first. Returns an
// empty list when no revision store is configured.
func (s *Service) Revisions(ctx context.Context, path string, limit int) ([]models.Revision, error) {
	if s.deps.Revisions == nil {
		return []models.Revision{}, nil
	}
	revs, err := s.deps.Revisions.ListByPath(ctx, path, limit)
	if err != nil {
		return nil, apierr.RevisionListFailed(err)
	}
	if revs == nil {
		revs = []models.Revision{}
	}
	return revs, nil
}

// HasRevisions reports whether revision history is configured.
func (s *Service) HasRevisions() bool { return s.deps.Revisions != nil }

func wrapDocError(path string, err error) error {
	switch {
	case errors.Is(err, document.ErrNotFound):
		return apierr.DocumentNotFound(path)
	case errors.Is(err, document.ErrInvalidPath):
		return apierr.InvalidPath(path)
	case errors.Is(err, document.ErrConflict):
		return apierr.VersionConflict(path)
	default:
		return apierr.DocumentReadFailed(err)
	}
}

// editAuthor derives the revision author from the request principal
// when auth is enabled.
func editAuthor(ctx context.Context) string {
	if p, ok := auth.PrincipalFrom(ctx); ok {
		return p.Sub
	}
	return ""
}
