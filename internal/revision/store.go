// Package revision is the optional Postgres-backed history of document
// saves. Each successful save records who wrote what, when, and the
// content hash, newest first on the way out.
package revision

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maraichr/sqlgrid/pkg/models"
)

type Store struct {
	pool *pgxpool.Pool
}

// NewPool creates a pgx pool from a DSN and verifies connectivity.
func NewPool(ctx context.Context, dsn string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// EnsureSchema creates the revisions table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS document_revisions (
		    id         uuid PRIMARY KEY,
		    path       text NOT NULL,
		    version    bigint NOT NULL,
		    hash       text NOT NULL,
		    author     text NOT NULL DEFAULT '',
		    size_bytes bigint NOT NULL,
		    created_at timestamptz NOT NULL DEFAULT now()
		 );
		 CREATE INDEX IF NOT EXISTS document_revisions_path_idx
		    ON document_revisions (path, created_at DESC)`)
	if err != nil {
		return fmt.Errorf("ensure revisions schema: %w", err)
	}
	return nil
}

// Record inserts one revision row and returns it with its generated ID.
func (s *Store) Record(ctx context.Context, path string, version int64, hash, author string, sizeBytes int64) (models.Revision, error) {
	rev := models.Revision{
		ID:        uuid.New(),
		Path:      path,
		Version:   version,
		Hash:      hash,
		Author:    author,
		SizeBytes: sizeBytes,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO document_revisions (id, path, version, hash, author, size_bytes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		rev.ID, rev.Path, rev.Version, rev.Hash, rev.Author, rev.SizeBytes,
	).Scan(&rev.CreatedAt)
	if err != nil {
		return models.Revision{}, fmt.Errorf("record revision: %w", err)
	}
	return rev, nil
}

// ListByPath returns a document's revisions, newest first.
func (s *Store) ListByPath(ctx context.Context, path string, limit int) ([]models.Revision, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, path, version, hash, author, size_bytes, created_at
		 FROM document_revisions
		 WHERE path = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		path, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Revision
	for rows.Next() {
		var r models.Revision
		if err := rows.Scan(&r.ID, &r.Path, &r.Version, &r.Hash, &r.Author, &r.SizeBytes, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
