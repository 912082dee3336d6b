package tools

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/maraichr/sqlgrid/internal/document"
	"github.com/maraichr/sqlgrid/internal/editor"
)

func newTestService(t *testing.T, files map[string]string) (*editor.Service, string) {
	t.Helper()
	root := t.TempDir()
	for path, text := range files {
		abs := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(abs, []byte(text), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	docs, err := document.NewStore(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return editor.NewService(logger, docs, editor.ServiceDeps{}), root
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- list_documents ---

func TestListDocuments(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"a.sql":        "SELECT 1;\n",
		"nested/b.sql": "SELECT 2;\n",
	})
	h := NewListDocumentsHandler(svc, testLogger())

	out, err := h.Handle(context.Background(), ListDocumentsParams{})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out, "(2 found)") {
		t.Errorf("missing count: %q", out)
	}
	if !strings.Contains(out, "`a.sql`") || !strings.Contains(out, "`nested/b.sql`") {
		t.Errorf("missing entries: %q", out)
	}
}

func TestListDocuments_Empty(t *testing.T) {
	svc, _ := newTestService(t, nil)
	h := NewListDocumentsHandler(svc, testLogger())

	out, err := h.Handle(context.Background(), ListDocumentsParams{})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out, "No SQL documents") {
		t.Errorf("unexpected output: %q", out)
	}
}

// --- get_document ---

func TestGetDocument(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"users.sql": "INSERT INTO users (name, age) VALUES ('Al', 31);\n",
	})
	h := NewGetDocumentHandler(svc, nil, testLogger())

	out, err := h.Handle(context.Background(), GetDocumentParams{Path: "users.sql"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out, "INSERT INTO users") {
		t.Errorf("missing statement card: %q", out)
	}
	if !strings.Contains(out, "| 'Al' | 31 |") {
		t.Errorf("missing row: %q", out)
	}
}

func TestGetDocument_MissingPath(t *testing.T) {
	svc, _ := newTestService(t, nil)
	h := NewGetDocumentHandler(svc, nil, testLogger())

	if _, err := h.Handle(context.Background(), GetDocumentParams{}); err == nil {
		t.Fatal("expected error for missing path")
	}
}

// --- get_sql ---

func TestGetSQL_PreservesText(t *testing.T) {
	text := "insert into users (name) values ('Al');\n"
	svc, _ := newTestService(t, map[string]string{"users.sql": text})
	h := NewGetSQLHandler(svc, nil, testLogger())

	out, err := h.Handle(context.Background(), GetSQLParams{Path: "users.sql"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out, text) {
		t.Errorf("regenerated SQL changed untouched text: %q", out)
	}
}

// --- edit tools in write-through mode ---

func TestEditCell_WriteThrough(t *testing.T) {
	svc, root := newTestService(t, map[string]string{
		"users.sql": "INSERT INTO users (name, age) VALUES ('Al', 31);\n",
	})
	h := NewEditCellHandler(svc, nil, testLogger())

	out, err := h.Handle(context.Background(), EditCellParams{
		Path: "users.sql", Stmt: 0, Row: 0, Col: 1, Value: "32",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out, "| 'Al' | 32 |") {
		t.Errorf("missing edited row: %q", out)
	}
	if !strings.Contains(out, "Saved users.sql") {
		t.Errorf("missing save confirmation: %q", out)
	}

	onDisk, _ := os.ReadFile(filepath.Join(root, "users.sql"))
	want := "INSERT INTO users (name, age) VALUES ('Al', 32);\n"
	if string(onDisk) != want {
		t.Errorf("on-disk content:\n got %q\nwant %q", onDisk, want)
	}
}

func TestEditCell_OutOfRange(t *testing.T) {
	svc, root := newTestService(t, map[string]string{
		"users.sql": "INSERT INTO users (name) VALUES ('Al');\n",
	})
	h := NewEditCellHandler(svc, nil, testLogger())

	if _, err := h.Handle(context.Background(), EditCellParams{
		Path: "users.sql", Stmt: 5, Value: "x",
	}); err == nil {
		t.Fatal("expected out-of-range error")
	}

	// A rejected edit leaves the file untouched.
	onDisk, _ := os.ReadFile(filepath.Join(root, "users.sql"))
	if string(onDisk) != "INSERT INTO users (name) VALUES ('Al');\n" {
		t.Errorf("rejected edit modified the file: %q", onDisk)
	}
}

func TestSetWhere_Rejected(t *testing.T) {
	text := "UPDATE users SET age = 1 WHERE id = 7;\n"
	svc, root := newTestService(t, map[string]string{"users.sql": text})
	h := NewSetWhereHandler(svc, nil, testLogger())

	if _, err := h.Handle(context.Background(), SetWhereParams{
		Path: "users.sql", Stmt: 0, Where: "id = = 7",
	}); err == nil {
		t.Fatal("expected rejection of invalid condition")
	}
	onDisk, _ := os.ReadFile(filepath.Join(root, "users.sql"))
	if string(onDisk) != text {
		t.Errorf("rejected condition modified the file: %q", onDisk)
	}
}

func TestAddColumn_SynthesizesName(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{
		"t.sql": "INSERT INTO t (column1, extra) VALUES (1, 2);\n",
	})
	h := NewAddColumnHandler(svc, nil, testLogger())

	out, err := h.Handle(context.Background(), AddColumnParams{Path: "t.sql", Stmt: 0})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out, "column2") {
		t.Errorf("expected synthesized column2: %q", out)
	}
}

// --- save_document ---

func TestSaveDocument_NoSessions(t *testing.T) {
	svc, _ := newTestService(t, map[string]string{"a.sql": "SELECT 1;\n"})
	h := NewSaveDocumentHandler(svc, nil, testLogger())

	out, err := h.Handle(context.Background(), SaveDocumentParams{Path: "a.sql", SessionID: "s"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out, "write through") {
		t.Errorf("unexpected output: %q", out)
	}
}

// --- WrapHandler ---

type staticHandler struct {
	result string
	err    error
}

func (h staticHandler) Handle(ctx context.Context, params struct{}) (string, error) {
	return h.result, h.err
}

func TestWrapHandler(t *testing.T) {
	wrapped := WrapHandler[struct{}](staticHandler{result: "ok"})
	res, _, err := wrapped(context.Background(), &sdkmcp.CallToolRequest{}, nil)
	if err != nil {
		t.Fatalf("wrapped handler: %v", err)
	}
	if res.IsError {
		t.Fatal("unexpected error result")
	}
	text := res.Content[0].(*sdkmcp.TextContent).Text
	if text != "ok" {
		t.Errorf("expected ok, got %q", text)
	}
}

func TestWrapHandler_Error(t *testing.T) {
	wrapped := WrapHandler[struct{}](staticHandler{err: os.ErrPermission})
	res, _, err := wrapped(context.Background(), &sdkmcp.CallToolRequest{}, nil)
	if err != nil {
		t.Fatalf("wrapped handler: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
}
