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
	openainarrator "github.com/anand176/Sentinel-AI-backend/internal/infra/openai"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/tracing"
	"github.com/anand176/Sentinel-AI-backend/internal/status"
	"github.com/anand176/Sentinel-AI-backend/internal/usecase"
	"github.com/anand176/Sentinel-AI-backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadNarrator()
	fatalOnErr(err, "load config")

	log, err := logger.New(cfg.LogLevel)
	fatalOnErr(err, "init logger")
	defer log.Sync()

	log.Info("starting sentinel narration service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint, "sentinel-narration-service")
	if err != nil {
		log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
	} else {
		defer tp.Shutdown(ctx)
	}

	fatalOnErr(os.MkdirAll(cfg.ClipsDir, 0755), "create clips directory")

	generator := openainarrator.NewNarrator(openainarrator.NarratorConfig{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Model:        cfg.NarrationModel,
		SampleFrames: cfg.SampleFrames,
	}, ffmpeg.NewSampler(), log)

	// Optional re-publication to a peer narration endpoint
	var forwarder port.NarrationForwarder
	if cfg.PeerNarrationURL != "" {
		forwarder = dispatch.NewNarrationForwarder(cfg.PeerNarrationURL)
	}

	store := status.NewNarrationStore()

	narrate := usecase.NewNarrateClipUseCase(
		generator,
		forwarder,
		store,
		log,
		time.Duration(cfg.GenerationTimeoutSecs)*time.Second,
	)

	handler := httpapi.NewNarratorHandler(cfg.ClipsDir, narrate, store, log)
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

	log.Info("sentinel narration service stopped")
}

func fatalOnErr(err error, msg string) {
	if err != nil {
		panic(msg + ": " + err.Error())
	}
}
