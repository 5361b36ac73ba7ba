// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/thirdspaces/gallery/cliparse"
	"github.com/thirdspaces/gallery/db"
	"github.com/thirdspaces/gallery/logging"
	"github.com/thirdspaces/gallery/metrics"
	"github.com/thirdspaces/gallery/middleware"
	"github.com/thirdspaces/gallery/moderation"
	"github.com/thirdspaces/gallery/realtime"
	"github.com/thirdspaces/gallery/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	flush, err := logging.Setup(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		slog.Error("logging setup failed", "error", err)
		os.Exit(1)
	}
	defer flush()

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	notifier, err := moderation.New(cfg.GitHubPAT, cfg.GitHubRepo)
	if err != nil {
		slog.Error("moderation notifier setup failed", "error", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector("gallery")
	hub := realtime.NewHub(collector)

	// Create router
	mux := router.NewRouter(dbConn, cfg, notifier, hub, collector)

	// Create server
	server := &http.Server{
		Handler:           middleware.CORS(middleware.Recover(mux)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Hijacked websocket connections are not tracked by Shutdown
	server.RegisterOnShutdown(hub.Close)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		slog.Error("listen failed", "addr", server.Addr, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	if err := serve(ctx, server, ln); err != nil {
		slog.Error("Server closed", "error", err)
		return
	}
	slog.Info("Server closed")
}

// serve runs server on ln until ctx is done, then shuts it down. It returns
// only after in-flight requests have finished or shutdownTimeout has passed,
// so the caller may close the database afterwards.
func serve(ctx context.Context, server *http.Server, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() { errc <- server.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("graceful shutdown failed", "error", err)
		server.Close()
	}

	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
