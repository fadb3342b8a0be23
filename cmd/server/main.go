package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/scaffold/internal/api"
	"github.com/dgallion1/scaffold/internal/config"
	"github.com/dgallion1/scaffold/internal/pipeline"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		drain(httpServer, orch, 10*time.Second, log)
	}()

	log.Info("starting scaffold server", "port", cfg.Port, "workspace", cfg.WorkspaceDir, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
	log.Info("stopped")
}

// drain stops accepting requests, waits up to timeout for in-flight ones and
// then stops the pipeline.
func drain(httpServer *http.Server, orch *pipeline.Orchestrator, timeout time.Duration, log *slog.Logger) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}

	orch.Stop()
}
