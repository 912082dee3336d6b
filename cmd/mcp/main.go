package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/oauthex"

	"github.com/maraichr/sqlgrid/internal/auth"
	"github.com/maraichr/sqlgrid/internal/cache"
	"github.com/maraichr/sqlgrid/internal/config"
	"github.com/maraichr/sqlgrid/internal/document"
	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/mcp/session"
	"github.com/maraichr/sqlgrid/internal/mcp/tools"
	"github.com/maraichr/sqlgrid/internal/revision"
	"github.com/maraichr/sqlgrid/internal/workspace"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Workspace store (required)
	docs, err := document.NewStore(cfg.Workspace.Root)
	if err != nil {
		logger.Error("failed to open workspace", slog.String("root", cfg.Workspace.Root), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("workspace ready", slog.String("root", docs.Root()))

	svcDeps := editor.ServiceDeps{}

	// Valkey (optional — enables parse cache and agent sessions)
	var sessions *session.Manager
	vkClient, err := cache.NewClient(cfg.Valkey)
	if err != nil {
		logger.Warn("valkey unavailable, sessions disabled; edits write through", slog.String("error", err.Error()))
	} else {
		defer vkClient.Close()
		svcDeps.Cache = cache.New(vkClient, cfg.Valkey.CacheTTL, logger)
		sessions = session.NewManager(vkClient, cfg.MCP.SessionTTL)
		logger.Info("connected to valkey")
	}

	// Postgres (optional — enables revision history on save)
	if cfg.Database.Enabled {
		pool, err := revision.NewPool(ctx, cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			logger.Warn("postgres connection failed, revision history disabled", slog.String("error", err.Error()))
		} else {
			revs := revision.New(pool)
			if err := revs.EnsureSchema(ctx); err != nil {
				logger.Warn("revision schema setup failed, revision history disabled", slog.String("error", err.Error()))
			} else {
				svcDeps.Revisions = revs
				defer pool.Close()
				logger.Info("connected to postgres")
			}
		}
	}

	// MinIO (optional — enables pre-save backups)
	if cfg.MinIO.Enabled() {
		backups, err := workspace.NewBackups(cfg.MinIO)
		if err != nil {
			logger.Warn("minio connection failed, backups disabled", slog.String("error", err.Error()))
		} else if err := backups.EnsureBucket(ctx); err != nil {
			logger.Warn("minio bucket setup failed, backups disabled", slog.String("error", err.Error()))
		} else {
			svcDeps.Backups = backups
		}
	}

	service := editor.NewService(logger, docs, svcDeps)

	// Wire tool handlers
	listDocuments := tools.NewListDocumentsHandler(service, logger)
	getDocument := tools.NewGetDocumentHandler(service, sessions, logger)
	getSQL := tools.NewGetSQLHandler(service, sessions, logger)
	editCell := tools.NewEditCellHandler(service, sessions, logger)
	addRow := tools.NewAddRowHandler(service, sessions, logger)
	deleteRow := tools.NewDeleteRowHandler(service, sessions, logger)
	addColumn := tools.NewAddColumnHandler(service, sessions, logger)
	deleteColumn := tools.NewDeleteColumnHandler(service, sessions, logger)
	renameColumn := tools.NewRenameColumnHandler(service, sessions, logger)
	setWhere := tools.NewSetWhereHandler(service, sessions, logger)
	deleteStatement := tools.NewDeleteStatementHandler(service, sessions, logger)
	saveDocument := tools.NewSaveDocumentHandler(service, sessions, logger)

	// SDK MCP server
	sdkServer := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "sqlgrid", Version: "1.0.0"}, nil)

	// Register all tools using WrapHandler
	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "list_documents",
		Description: "List the SQL documents in the workspace with size and modification time.",
	}, tools.WrapHandler[tools.ListDocumentsParams](listDocuments))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "get_document",
		Description: "Show a SQL document as editable grid tables: one table per INSERT/UPDATE statement, with statement, row, and column indexes for the edit tools.",
	}, tools.WrapHandler[tools.GetDocumentParams](getDocument))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "get_sql",
		Description: "Return the regenerated SQL text of a document. Untouched statements are preserved byte-for-byte.",
	}, tools.WrapHandler[tools.GetSQLParams](getSQL))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "edit_cell",
		Description: "Overwrite one cell of a statement grid. Empty value means NULL, true/false become booleans, digits become numbers, anything else a quoted string.",
	}, tools.WrapHandler[tools.EditCellParams](editCell))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "add_row",
		Description: "Append a row of empty values to an INSERT statement.",
	}, tools.WrapHandler[tools.AddRowParams](addRow))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "delete_row",
		Description: "Remove one row from an INSERT statement.",
	}, tools.WrapHandler[tools.DeleteRowParams](deleteRow))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "add_column",
		Description: "Append a column to an INSERT statement, widening every row with an empty value. Omit the name to get a synthesized columnN name.",
	}, tools.WrapHandler[tools.AddColumnParams](addColumn))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "delete_column",
		Description: "Remove a column and its cell from every row of an INSERT statement.",
	}, tools.WrapHandler[tools.DeleteColumnParams](deleteColumn))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "rename_column",
		Description: "Rename one column of an INSERT statement. Duplicate and empty names are rejected.",
	}, tools.WrapHandler[tools.RenameColumnParams](renameColumn))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "set_where",
		Description: "Replace the WHERE condition of an UPDATE or DELETE statement. The new condition must produce valid SQL or the edit is rejected.",
	}, tools.WrapHandler[tools.SetWhereParams](setWhere))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "delete_statement",
		Description: "Remove a whole statement from a document.",
	}, tools.WrapHandler[tools.DeleteStatementParams](deleteStatement))

	sdkmcp.AddTool(sdkServer, &sdkmcp.Tool{
		Name:        "save_document",
		Description: "Commit a session's uncommitted edits to the workspace file. Fails on concurrent modification unless force is set.",
	}, tools.WrapHandler[tools.SaveDocumentParams](saveDocument))

	// Use Stateless mode so that stale session IDs from server restarts
	// are ignored rather than returning 404. Working copies live in
	// Valkey via the session_id tool param.
	sdkHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return sdkServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	mux := http.NewServeMux()

	// Wrap MCP handler with auth middleware
	var mcpHandler http.Handler = sdkHandler
	if cfg.Auth.Enabled {
		if cfg.Auth.IssuerURL == "" {
			logger.Error("AUTH_ENABLED=true but AUTH_ISSUER_URL is empty")
			os.Exit(1)
		}
		verifier, err := auth.NewVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.PublicIssuer, cfg.Auth.Audience)
		if err != nil {
			logger.Error("failed to init OIDC verifier for MCP", slog.String("error", err.Error()))
			os.Exit(1)
		}

		// SDK auth middleware with RFC 9728 support
		resourceMetadataURL := ""
		if cfg.MCP.BaseURL != "" {
			resourceMetadataURL = cfg.MCP.BaseURL + "/.well-known/oauth-protected-resource"

			authServerURL := cfg.Auth.PublicIssuer
			if authServerURL == "" {
				authServerURL = cfg.Auth.IssuerURL
			}

			prm := &oauthex.ProtectedResourceMetadata{
				Resource:               cfg.MCP.BaseURL,
				AuthorizationServers:   []string{authServerURL},
				ScopesSupported:        []string{"openid", "documents:read", "documents:write"},
				BearerMethodsSupported: []string{"header"},
				ResourceName:           "sqlgrid MCP Server",
			}
			mux.Handle("/.well-known/oauth-protected-resource", sdkauth.ProtectedResourceMetadataHandler(prm))
			logger.Info("RFC 9728 metadata endpoint enabled", slog.String("url", resourceMetadataURL))
		}

		mcpVerifier := auth.NewMCPTokenVerifier(verifier)
		mcpHandler = sdkauth.RequireBearerToken(mcpVerifier, &sdkauth.RequireBearerTokenOptions{
			ResourceMetadataURL: resourceMetadataURL,
		})(sdkHandler)
		logger.Info("MCP OIDC auth enabled", slog.String("issuer", cfg.Auth.IssuerURL))
	} else {
		mcpHandler = auth.DevModeMiddleware(logger)(sdkHandler)
	}

	mux.Handle("/mcp", mcpHandler)
	// Also serve on root for backwards compat
	mux.Handle("/", mcpHandler)

	httpServer := &http.Server{Addr: cfg.MCP.Addr, Handler: mux}

	go func() {
		logger.Info("MCP server listening", slog.String("addr", cfg.MCP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP HTTP server error", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()
	logger.Info("MCP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("MCP HTTP shutdown", slog.String("error", err.Error()))
	}
	logger.Info("MCP server stopped")
}
