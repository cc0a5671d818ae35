// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yekta/folio/internal/admin"
	"github.com/yekta/folio/internal/auth"
	"github.com/yekta/folio/internal/cache"
	"github.com/yekta/folio/internal/config"
	"github.com/yekta/folio/internal/handler"
	"github.com/yekta/folio/internal/i18n"
	"github.com/yekta/folio/internal/logging"
	"github.com/yekta/folio/internal/middleware"
	"github.com/yekta/folio/internal/service"
	"github.com/yekta/folio/internal/session"
	"github.com/yekta/folio/internal/store"
	"github.com/yekta/folio/internal/version"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx)
		},
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// WARN and ERROR records also go to the event log in the data directory.
	logger, eventLog, err := logging.WithEventLog(os.Stdout, cfg.LogLevel, cfg.DataPath(logging.EventsFile))
	if err != nil {
		return err
	}
	defer func() { _ = eventLog.Close() }()
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn", "path", cfg.DataPath(logging.EventsFile))

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}

	locales, err := i18n.NewRouter(cfg.Locales, cfg.DefaultLocale, i18n.DefaultBypass)
	if err != nil {
		return fmt.Errorf("configuring locales: %w", err)
	}

	contentCache := cache.New(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheDuration(),
	}, logger)
	defer func() { _ = contentCache.Close() }()
	slog.Info("content cache ready", "backend", cache.BackendName(contentCache), "ttl", cfg.CacheDuration())

	content := service.NewContentService(store.Open(cfg.DataDir, logger), contentCache, cfg.CacheDuration(), logger)

	slog.Info("opening session database", "path", cfg.DataPath(session.DBFile))
	db, err := session.OpenDB(cfg.DataPath(session.DBFile))
	if err != nil {
		return fmt.Errorf("initializing session database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing session database", "error", err)
		}
	}()
	sm := session.New(db, cfg.IsDevelopment())

	login := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer login.Close()

	if cfg.Watch {
		go func() {
			if err := content.Watch(ctx, nil); err != nil {
				slog.Error("content watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr: cfg.ServerAddr(),
		Handler: handler.NewRouter(handler.Deps{
			Content:  content,
			Sessions: sm,
			Verifier: verifier,
			Locales:  locales,
			Login:    login,
			CSRFKey:  []byte(cfg.SessionSecret),
			IsDev:    cfg.IsDevelopment(),
			Addr:     cfg.ServerAddr(),
			DataDir:  cfg.DataDir,
			Logger:   logger,

			TrustProxy: cfg.TrustProxy,
		}),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newVerifier picks the admin credential check. A configured hash wins over
// the plain password.
func newVerifier(cfg *config.Config) (admin.Verifier, error) {
	if cfg.AdminPasswordHash != "" {
		v, err := auth.NewHashVerifier(cfg.AdminPasswordHash)
		if err != nil {
			return nil, fmt.Errorf("FOLIO_ADMIN_PASSWORD_HASH: %w", err)
		}
		return v, nil
	}

	if cfg.UsesDefaultPassword() {
		slog.Warn("admin password is the built-in default, set FOLIO_ADMIN_PASSWORD_HASH before exposing the site")
	}
	return auth.NewSecretVerifier(cfg.AdminPassword), nil
}
