package tools

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
)

// ToolHandler is the interface that all tool handlers implement.
type ToolHandler[P any] interface {
	Handle(ctx context.Context, params P) (string, error)
}

// WrapHandler adapts a ToolHandler into the SDK's AddTool callback.
// It handles nil params by using a zero value and maps errors to CallToolResult.
func WrapHandler[P any](h ToolHandler[P]) func(context.Context, *sdkmcp.CallToolRequest, *P) (*sdkmcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, params *P) (*sdkmcp.CallToolResult, any, error) {
		if params == nil {
			params = new(P)
		}
		result, err := h.Handle(ctx, *params)
		if err != nil {
			return &sdkmcp.CallToolResult{
				IsError: true,
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: err.Error()}},
			}, nil, nil
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: result}},
		}, nil, nil
	}
}

// workspaceTool bundles the dependencies shared by every document tool
// plus the working-copy mechanics. With a session manager, edits
// accumulate in the agent's Valkey working copy until save_document;
// without one they write through to the workspace file immediately.
type workspaceTool struct {
	service  *editor.Service
	sessions *session.Manager
	logger   *slog.Logger
}

// currentText resolves the text a read tool should show: the session
// working copy when one covers the path, else the workspace file. The
// returned session is nil in write-through mode.
func (t workspaceTool) currentText(ctx context.Context, sessionID, path string) (*session.Session, string, error) {
	if t.sessions == nil || sessionID == "" {
		h, err := t.service.Load(ctx, path)
		if err != nil {
			return nil, "", err
		}
		return nil, h.Text, nil
	}
	sess, err := t.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, "", fmt.Errorf("load session: %w", err)
	}
	if sess.Started() && sess.Path == path {
		return sess, sess.Text, nil
	}
	h, err := t.service.Load(ctx, path)
	if err != nil {
		return nil, "", err
	}
	return sess, h.Text, nil
}

// applyEdit runs one operation for a mutating tool and renders the
// resulting document state.
func (t workspaceTool) applyEdit(ctx context.Context, sessionID, path string, op editor.Operation) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required")
	}

	if t.sessions == nil {
		h, doc, err := t.service.ApplyEdit(ctx, path, op)
		if err != nil {
			return "", err
		}
		out := mcp.FormatDocument(path, doc, 0)
		return out + fmt.Sprintf("\nSaved %s (version %d, hash `%s`).\n", h.Path, h.Version, h.Hash), nil
	}

	sess, err := t.sessions.Load(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !sess.Started() || sess.Path != path {
		h, err := t.service.Load(ctx, path)
		if err != nil {
			return "", err
		}
		sess.Seed(path, h.Text, h.Hash)
	}

	newText, err := editor.Apply(sess.Text, op)
	if err != nil {
		return "", err
	}
	sess.RecordEdit(newText)
	if err := t.sessions.Save(ctx, sess); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	doc := t.service.ParseText(ctx, newText)
	out := mcp.FormatDocument(path, doc, 0)
	return out + fmt.Sprintf(
		"\nSession `%s`: %d uncommitted edit(s). Call save_document with this session_id to write the file.\n",
		sess.ID, sess.EditCount), nil
}
