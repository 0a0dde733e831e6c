package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/LovedOnes/internal/application"
	"github.com/JonMunkholm/LovedOnes/internal/config"
	"github.com/JonMunkholm/LovedOnes/internal/logging"
	"github.com/JonMunkholm/LovedOnes/internal/web"
	"github.com/joho/godotenv"
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
	slog.Debug("configuration loaded", "config", cfg.String())

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"backend", cfg.Store.Backend,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
	)

	app, err := application.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open record store", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := web.NewServer(app.Service, app.Images, cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
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

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		app.Close()
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
