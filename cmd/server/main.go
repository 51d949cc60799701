package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/haulstack/logistics-api/internal/config"
	"github.com/haulstack/logistics-api/internal/core"
	"github.com/haulstack/logistics-api/internal/logging"
	"github.com/haulstack/logistics-api/internal/table"
	"github.com/haulstack/logistics-api/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_dir", cfg.Data.Dir,
		"exposed_tables", len(cfg.Data.ExposedTables),
		"auth_enabled", cfg.Security.AuthEnabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	if !cfg.Security.AuthEnabled() {
		slog.Warn("API key left at placeholder value, authentication is disabled")
	}

	store := table.NewStore(cfg.Data.Dir)
	service := core.NewService(store, cfg)

	// The data directory may legitimately be empty at startup; tables load
	// lazily on first request. Log what is visible now for operators.
	if tables, err := store.ListTables(); err == nil {
		slog.Info("data directory scanned", "tables_on_disk", len(tables))
	} else {
		slog.Warn("could not scan data directory", "error", err)
	}

	server := web.NewServer(service, cfg)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
