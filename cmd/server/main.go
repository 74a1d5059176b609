package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/variant-editor/config"
	"github.com/ikkim/variant-editor/internal/app/controller"
	"github.com/ikkim/variant-editor/internal/app/repository"
	"github.com/ikkim/variant-editor/internal/app/service"
	"github.com/ikkim/variant-editor/internal/app/variant"
	"github.com/ikkim/variant-editor/internal/router"
	"github.com/ikkim/variant-editor/internal/scheduler"
	"github.com/ikkim/variant-editor/internal/storage"
	ws "github.com/ikkim/variant-editor/internal/websocket"
	"github.com/ikkim/variant-editor/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting variant editor server", map[string]interface{}{
		"environment":      cfg.Server.Environment,
		"port":             cfg.Server.Port,
		"log_level":        cfg.Log.Level,
		"max_combinations": cfg.Variant.MaxCombinations,
		"preserve_edits":   cfg.Variant.PreserveEdits,
	})

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Sessions
	sessionRepo := repository.NewSessionRepository()
	sessionService := service.NewSessionService(
		sessionRepo,
		variant.Config{
			MaxVariants:   cfg.Variant.MaxCombinations,
			PreserveEdits: cfg.Variant.PreserveEdits,
		},
		hub,
	)

	// Exports
	var exportService service.ExportService
	if cfg.S3.Enabled() {
		s3Storage := storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey)
		exportService = service.NewExportService(cfg.S3.URLExpiry, s3Storage)
		logger.Info("S3 export storage enabled", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
			"region": cfg.S3.Region,
		})
	} else {
		exportService = service.NewExportService(cfg.S3.URLExpiry)
		logger.Warn("AWS_S3_BUCKET not set, S3 export disabled", nil)
	}

	sweeper := scheduler.NewSessionSweeper(sessionService, cfg.Session.SweepSpec, cfg.Session.TTL)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start session sweeper", err)
	}

	// Controllers
	sessionController := controller.NewSessionController(sessionService)
	editorController := controller.NewEditorController(sessionService)
	exportController := controller.NewExportController(sessionService, exportService)
	streamController := controller.NewStreamController(sessionService, hub, cfg.CORS.AllowedOrigins)

	r := router.NewRouter(
		sessionController,
		editorController,
		exportController,
		streamController,
		cfg,
	)
	engine := r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	sweeper.Stop()
	hub.Stop()

	logger.Info("Server stopped successfully", map[string]interface{}{
		"sessions_dropped": sessionService.ActiveSessions(),
	})
}
