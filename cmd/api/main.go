package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/maraichr/sqlgrid/internal/api"
	"github.com/maraichr/sqlgrid/internal/auth"
	"github.com/maraichr/sqlgrid/internal/cache"
	"github.com/maraichr/sqlgrid/internal/config"
	"github.com/maraichr/sqlgrid/internal/document"
	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/internal/revision"
	"github.com/maraichr/sqlgrid/internal/workspace"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	ctx := context.Background()

	// Workspace store (required)
	docs, err := document.NewStore(cfg.Workspace.Root)
	if err != nil {
		logger.Error("failed to open workspace", slog.String("root", cfg.Workspace.Root), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("workspace ready", slog.String("root", docs.Root()))

	svcDeps := editor.ServiceDeps{}

	// Valkey (optional — enables the parse cache)
	vkClient, err := cache.NewClient(cfg.Valkey)
	if err != nil {
		logger.Warn("valkey connection failed, parse cache disabled", slog.String("error", err.Error()))
	} else {
		svcDeps.Cache = cache.New(vkClient, cfg.Valkey.CacheTTL, logger)
		defer vkClient.Close()
		logger.Info("connected to valkey")
	}

	// Postgres (optional — enables revision history)
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
			logger.Info("connected to minio", slog.String("bucket", backups.Bucket()))
		}
	}

	// S3 (optional — seeds the workspace and mirrors saves)
	if cfg.S3.Enabled() {
		remote, err := workspace.NewS3Sync(cfg.S3)
		if err != nil {
			logger.Warn("s3 init failed, remote sync disabled", slog.String("error", err.Error()))
		} else {
			if err := remote.SyncDown(ctx, docs.Root()); err != nil {
				logger.Warn("s3 sync-down failed", slog.String("error", err.Error()))
			}
			svcDeps.Remote = remote
			logger.Info("s3 sync enabled", slog.String("bucket", cfg.S3.Bucket))
		}
	}

	service := editor.NewService(logger, docs, svcDeps)

	deps := &api.RouterDeps{}

	// Auth (optional — requires AUTH_ENABLED=true + valid issuer URL)
	deps.AuthEnabled = cfg.Auth.Enabled
	if cfg.Auth.Enabled {
		if cfg.Auth.IssuerURL == "" {
			logger.Error("AUTH_ENABLED=true but AUTH_ISSUER_URL is empty")
			os.Exit(1)
		}
		verifier, err := auth.NewVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.PublicIssuer, cfg.Auth.Audience)
		if err != nil {
			logger.Error("failed to init OIDC verifier", slog.String("error", err.Error()))
			os.Exit(1)
		}
		deps.Verifier = verifier
		logger.Info("OIDC auth enabled", slog.String("issuer", cfg.Auth.IssuerURL))
	}

	router := api.NewRouter(logger, service, docs.Root(), deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
