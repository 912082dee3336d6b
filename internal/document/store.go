package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/maraichr/sqlgrid/pkg/models"
)

// ErrConflict is returned by Save when the document on disk no longer
// matches the handle the caller loaded.
var ErrConflict = errors.New("document changed since it was loaded")

// ErrNotFound is returned when a path does not resolve to a workspace file.
var ErrNotFound = errors.New("document not found")

// ErrInvalidPath is returned for paths that escape the workspace root
// or do not carry a served extension.
var ErrInvalidPath = errors.New("invalid document path")

const servedExtension = ".sql"

// Store serves documents under one workspace root directory. Versions
// are a per-path monotonic counter held in memory; the content hash is
// what Save actually checks, so a restart never causes false conflicts.
type Store struct {
	root string

	mu       sync.Mutex
	versions map[string]int64
}

func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &Store{root: abs, versions: make(map[string]int64)}, nil
}

// Root returns the absolute workspace root directory.
func (s *Store) Root() string { return s.root }

// List returns the workspace's served files as relative paths, sorted.
func (s *Store) List(ctx context.Context) ([]models.DocumentInfo, error) {
	var infos []models.DocumentInfo
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), servedExtension) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		infos = append(infos, models.DocumentInfo{
			Path:       filepath.ToSlash(rel),
			SizeBytes:  fi.Size(),
			ModifiedAt: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk workspace: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos, nil
}

// Load reads one document and returns its handle.
func (s *Store) Load(ctx context.Context, relpath string) (Handle, error) {
	abs, err := s.resolve(relpath)
	if err != nil {
		return Handle{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Handle{}, fmt.Errorf("%w: %s", ErrNotFound, relpath)
		}
		return Handle{}, fmt.Errorf("read document: %w", err)
	}
	text := string(data)
	return Handle{
		Path:    relpath,
		Text:    text,
		Hash:    HashText(text),
		Version: s.version(relpath),
	}, nil
}

// Save writes newText in place of the content h was loaded from. The
// write is refused with ErrConflict when the on-disk content no longer
// hashes to h.Hash; it is atomic (temp file + rename) and returns the
// successor handle.
func (s *Store) Save(ctx context.Context, h Handle, newText string) (Handle, error) {
	abs, err := s.resolve(h.Path)
	if err != nil {
		return Handle{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Handle{}, fmt.Errorf("%w: %s", ErrNotFound, h.Path)
		}
		return Handle{}, fmt.Errorf("read document: %w", err)
	}
	if HashText(string(data)) != h.Hash {
		return Handle{}, fmt.Errorf("%w: %s", ErrConflict, h.Path)
	}
	return s.write(h.Path, abs, newText)
}

// SaveForce writes text unconditionally, creating the file if needed.
// This is the explicit last-writer-wins escape hatch; Save is the
// normal path.
func (s *Store) SaveForce(ctx context.Context, relpath, text string) (Handle, error) {
	abs, err := s.resolve(relpath)
	if err != nil {
		return Handle{}, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return Handle{}, fmt.Errorf("create document directory: %w", err)
	}
	return s.write(relpath, abs, text)
}

func (s *Store) write(relpath, abs, text string) (Handle, error) {
	tmp, err := os.CreateTemp(filepath.Dir(abs), ".sqlgrid-*")
	if err != nil {
		return Handle{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return Handle{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Handle{}, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return Handle{}, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		os.Remove(tmpName)
		return Handle{}, fmt.Errorf("replace document: %w", err)
	}
	return Handle{
		Path:    relpath,
		Text:    text,
		Hash:    HashText(text),
		Version: s.bumpVersion(relpath),
	}, nil
}

// resolve maps a relative document path to an absolute workspace path,
// rejecting traversal and non-served extensions.
func (s *Store) resolve(relpath string) (string, error) {
	if relpath == "" || filepath.IsAbs(relpath) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, relpath)
	}
	if !strings.HasSuffix(relpath, servedExtension) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, relpath)
	}
	clean := filepath.Clean(filepath.FromSlash(relpath))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, relpath)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *Store) version(relpath string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[relpath]
}

func (s *Store) bumpVersion(relpath string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[relpath]++
	return s.versions[relpath]
}
