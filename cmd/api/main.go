package main

import (
	"context"
	"errors"
	"fmt"
	"lesson-media/internal/adapters/handlers/http/chi"
	lesson2 "lesson-media/internal/adapters/handlers/http/chi/v1/lesson"
	"lesson-media/internal/adapters/handlers/http/chi/v1/video"
	"lesson-media/internal/adapters/repository/postgres"
	"lesson-media/internal/adapters/storage/minio"
	"lesson-media/internal/adapters/transcoder/ffmpeg"
	"lesson-media/internal/config"
	"lesson-media/internal/core/service/lesson"
	"lesson-media/internal/core/service/remediation"
	"lesson-media/internal/core/service/upload"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Env.Level()}))

	// Initialize database
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	minioAdapter, err := minio.NewAdapter(ctx, cfg.Minio, logger)
	if err != nil {
		logger.Error("failed to init minio", "error", err)
		os.Exit(1)
	}
	logger.Info("minio adapter initialized")

	transcoder := ffmpeg.New(cfg.Transcoder, logger)

	// Initialize services
	lessonService := lesson.NewLessonService(postgres.NewUnitOfWork(db), logger)
	uploadService := upload.NewUploadService(minioAdapter, transcoder, cfg.Upload, logger)
	remediationService := remediation.NewRemediationService(minioAdapter, transcoder, lessonService, cfg.Remediation, logger)

	// Initialize http handlers
	lessonHandler := lesson2.NewLessonHandlerV1(uploadService, lessonService, cfg.Server.MultipartMemory, logger)
	videoHandler := video.NewVideoHandlerV1(remediationService, cfg.Minio.VideoBucket, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           chi.NewRouter(logger, lessonHandler, videoHandler, cfg.Server, cfg.Env.Env),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("api listening", "addr", server.Addr, "env", cfg.Env.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", "error", err)
			stop()
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down api")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown api server", "error", err)
	}

	// conversions still running after the grace period are killed
	if running := transcoder.Running(); running > 0 {
		logger.Warn("killing running conversions", "count", running)
	}
	transcoder.Cleanup()

	wg.Wait()
	logger.Info("api shutdown complete")
}
