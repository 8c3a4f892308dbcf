package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/domrows/internal/api"
	"github.com/dgallion1/domrows/internal/config"
	"github.com/dgallion1/domrows/internal/convert"
	"github.com/dgallion1/domrows/internal/pipeline"
	"github.com/dgallion1/domrows/internal/rowstore"
	"github.com/dgallion1/domrows/internal/source"
	"github.com/dgallion1/domrows/internal/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("load configuration", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := rowstore.Open(cfg.RowstorePath)
	if err != nil {
		log.Error("open row store", "path", cfg.RowstorePath, "error", err)
		os.Exit(1)
	}

	conv := &convert.Converter{
		Stats:  stats.NewSet(cfg.StatsWindow),
		Source: source.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, conv, store, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, store, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		if err := store.Close(); err != nil {
			log.Error("close row store", "error", err)
		}
	}()

	log.Info("starting domrows", "port", cfg.Port, "workers", cfg.WorkerCount, "rowstore", cfg.RowstorePath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
