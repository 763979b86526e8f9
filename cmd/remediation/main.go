package main

import (
	"context"
	"lesson-media/internal/adapters/eventbroker/nats"
	"lesson-media/internal/adapters/repository/postgres"
	"lesson-media/internal/adapters/storage/minio"
	"lesson-media/internal/adapters/transcoder/ffmpeg"
	"lesson-media/internal/config"
	"lesson-media/internal/core/service/lesson"
	"lesson-media/internal/core/service/remediation"
	"lesson-media/internal/metrics"
	"log/slog"
	"os"
	"os/signal"
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
	remediationService := remediation.NewRemediationService(minioAdapter, transcoder, lessonService, cfg.Remediation, logger)
	messageHandler := remediation.NewMessageHandler(remediationService, cfg.Remediation.VideoBucket, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	metricsServer := metrics.NewServer(cfg.Server, logger)
	metricsServer.Start(stop)

	// Subscribe to NATS
	if err := natsConsumer.Subscribe(ctx, messageHandler); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		_ = natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active")

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down remediation worker")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// a cancelled conversion is naked and redelivered to another worker
	transcoder.Cleanup()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		if err := natsConsumer.Close(); err != nil {
			logger.Error("failed to close NATS consumer during shutdown", "error", err)
		}
	}()

	select {
	case <-closed:
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded")
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown metrics server", "error", err)
	}

	logger.Info("remediation worker shutdown complete")
}
