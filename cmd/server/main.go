package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iconidentify/vidfetch/internal/api"
	"github.com/iconidentify/vidfetch/internal/api/handler"
	"github.com/iconidentify/vidfetch/internal/config"
	"github.com/iconidentify/vidfetch/internal/extractor"
	"github.com/iconidentify/vidfetch/internal/service"
	"github.com/iconidentify/vidfetch/internal/tempfs"
	"github.com/iconidentify/vidfetch/internal/toolchain"
	"github.com/iconidentify/vidfetch/internal/worker"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vidfetch %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Server.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		slog.SetDefault(logger)
	}

	logger.Info("starting vidfetch",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.Server.Env,
	)

	// Prepare temp storage and clear scopes left by a previous run
	temp, err := tempfs.NewManager(cfg.Storage.TempPath, logger)
	if err != nil {
		logger.Error("failed to create temp directory", "error", err)
		os.Exit(1)
	}
	if _, err := temp.Sweep(cfg.Storage.SweepAge); err != nil {
		logger.Warn("temp sweep incomplete", "error", err)
	}

	var janitor *worker.Janitor
	if cfg.Storage.SweepInterval > 0 {
		janitor = worker.NewJanitor(worker.Config{
			Interval: cfg.Storage.SweepInterval,
			MaxAge:   cfg.Storage.SweepAge,
		}, temp, logger)
		janitor.Start()
	}

	if path, err := toolchain.FindDownloader(cfg.Extractor.BinaryPath); err != nil {
		logger.Warn("yt-dlp not found, extraction will fail until it is installed", "error", err)
	} else {
		logger.Info("using downloader", "path", path)
	}

	// Initialize services
	probe := toolchain.Probe{
		DownloaderPath: cfg.Extractor.BinaryPath,
		TempRoot:       cfg.Storage.TempPath,
	}
	adapter := extractor.New(cfg.Extractor, nil, logger)
	mediaSvc := service.NewMediaService(adapter, temp, probe, cfg.Storage, logger)

	// Initialize handlers
	mediaHandler := handler.NewMediaHandler(mediaSvc, logger)
	healthHandler := handler.NewHealthHandler(mediaSvc, Version)
	indexHandler := handler.NewIndexHandler(Version)

	// Setup router
	router := api.NewRouter(mediaHandler, healthHandler, indexHandler, *cfg, logger)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if janitor != nil {
		if err := janitor.Stop(5 * time.Second); err != nil {
			logger.Error("janitor shutdown error", "error", err)
		}
	}

	logger.Info("shutdown complete", "active_scopes", temp.Active())
}
