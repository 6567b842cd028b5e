package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/port"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/config"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/dispatch"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/ffmpeg"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/httpapi"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/metrics"
	minioarchive "github.com/anand176/Sentinel-AI-backend/internal/infra/minio"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/rabbitmq"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/tracing"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/vision"
	"github.com/anand176/Sentinel-AI-backend/internal/status"
	"github.com/anand176/Sentinel-AI-backend/internal/usecase"
	"github.com/anand176/Sentinel-AI-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadDetector()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting sentinel detection service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (non-fatal if the collector is unavailable)
	tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint, "sentinel-detection-service")
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	for _, dir := range []string{cfg.UploadDir, cfg.ProcessedFramesDir, cfg.ClipsDir} {
		fatalOnErr(os.MkdirAll(dir, 0755), "create directory "+dir)
	}

	scorer, err := vision.NewAutoencoderScorer(cfg.ModelPath)
	fatalOnErr(err, "load autoencoder model")
	defer scorer.Close()

	// Optional clip archival to object storage
	var archiver port.ClipArchiver
	if cfg.MinIOEnabled {
		a, err := minioarchive.NewArchiver(minioarchive.ArchiverConfig{
			Endpoint:   cfg.MinIOEndpoint,
			AccessKey:  cfg.MinIOAccessKey,
			SecretKey:  cfg.MinIOSecretKey,
			UseSSL:     cfg.MinIOUseSSL,
			ClipBucket: cfg.MinIOClipBucket,
		})
		fatalOnErr(err, "create minio archiver")
		fatalOnErr(a.EnsureBucket(ctx), "ensure clip bucket")
		archiver = a
	}

	// Optional run-outcome events
	var events port.EventPublisher
	if cfg.RabbitMQEnabled {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		fatalOnErr(err, "connect to rabbitmq")
		defer conn.Close()

		pub, err := rabbitmq.NewPublisher(conn, cfg.RabbitMQExchange)
		fatalOnErr(err, "create rabbitmq publisher")
		events = rabbitmq.NewEventPublisher(pub, cfg.RabbitMQEventKey)
	}

	progress := status.NewStore()

	detect := usecase.NewDetectAnomalyUseCase(
		vision.NewOpener(),
		vision.NewPreprocessor(),
		scorer,
		ffmpeg.NewExtractor("libx264", log),
		dispatch.NewClipDispatcher(cfg.DispatchURL),
		archiver,
		events,
		progress,
		log,
		usecase.DetectionConfig{
			WarmupFrames:     cfg.WarmupFrames,
			AnomalyThreshold: cfg.AnomalyThreshold,
			ClipPreFrames:    cfg.ClipPreFrames,
			ClipPostFrames:   cfg.ClipPostFrames,
		},
	)

	handler := httpapi.NewDetectorHandler(cfg.UploadDir, cfg.ClipsDir, detect, progress, log)
	mux := http.NewServeMux()
	handler.Register(mux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: mux,
	}

	metricsSrv := metrics.StartMetricsServer(ctx, cfg.MetricsPort, log)

	go func() {
		log.Info("http server starting", zap.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", zap.Error(err))
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	metricsSrv.Shutdown(shutdownCtx)

	// Let in-flight detection runs finish before releasing the scorer.
	handler.Wait()
	log.Info("sentinel detection service stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
