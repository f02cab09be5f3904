package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tunegrab/tunegrab/internal/config"
	"github.com/tunegrab/tunegrab/internal/fetch"
	"github.com/tunegrab/tunegrab/internal/httpserver"
	"github.com/tunegrab/tunegrab/internal/logger"
	"github.com/tunegrab/tunegrab/internal/pipeline"
	"github.com/tunegrab/tunegrab/internal/tempfiles"
	"github.com/tunegrab/tunegrab/internal/ytdlp"
)

func main() {
	cfg := config.Load()

	// Initialize the centralized logger
	logger.Init("tunegrab", cfg.LogLevel)
	ctx := context.Background()

	logger.Info(ctx, "starting tunegrab", logger.Fields{
		"port":     cfg.Port,
		"temp_dir": cfg.TempDir,
		"tool":     cfg.YtdlpPath,
	})

	temps, err := tempfiles.NewManager(cfg.TempDir)
	if err != nil {
		// Degraded mode: the server still comes up, downloads will fail
		// until the directory can be created.
		logger.Error(ctx, "failed to prepare temp directory", err, logger.Fields{
			"dir": cfg.TempDir,
		})
	}

	sweeper := cron.New()
	if err := temps.Schedule(sweeper, cfg.SweepSchedule, cfg.SweepMaxAge); err != nil {
		logger.Error(ctx, "failed to schedule temp sweeper", err, logger.Fields{
			"schedule": cfg.SweepSchedule,
		})
	} else {
		sweeper.Start()
		defer sweeper.Stop()
	}

	runner := ytdlp.NewTool(cfg.YtdlpPath)
	fetcher := fetch.NewFetcher(cfg.FetchTimeout)
	orch := pipeline.NewOrchestrator(runner, fetcher, temps)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpserver.NewHandler(cfg, runner, orch),
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info(ctx, "received shutdown signal", logger.Fields{"signal": sig.String()})
		shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	logger.Info(ctx, "server starting", logger.Fields{"address": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error(ctx, "server error", err)
		log.Fatalf("server error: %v", err)
	}

	logger.Info(ctx, "server shutdown complete")
}
