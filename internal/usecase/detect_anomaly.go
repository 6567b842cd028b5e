package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
	"github.com/anand176/Sentinel-AI-backend/internal/domain/port"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/metrics"
	"github.com/anand176/Sentinel-AI-backend/internal/status"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DetectAnomalyUseCase drives one detection run: read frames in order, skip
// scoring during warm-up, stop at the first frame whose reconstruction error
// exceeds the threshold, then extract and dispatch the surrounding clip.
type DetectAnomalyUseCase struct {
	opener     port.FrameOpener
	pre        port.FramePreprocessor
	scorer     port.AnomalyScorer
	extractor  port.ClipExtractor
	dispatcher port.ClipDispatcher
	archiver   port.ClipArchiver   // optional
	events     port.EventPublisher // optional
	progress   *status.Store
	logger     *zap.Logger
	cfg        DetectionConfig
}

type DetectionConfig struct {
	WarmupFrames     int
	AnomalyThreshold float64
	ClipPreFrames    int
	ClipPostFrames   int
}

func NewDetectAnomalyUseCase(
	opener port.FrameOpener,
	pre port.FramePreprocessor,
	scorer port.AnomalyScorer,
	extractor port.ClipExtractor,
	dispatcher port.ClipDispatcher,
	archiver port.ClipArchiver,
	events port.EventPublisher,
	progress *status.Store,
	logger *zap.Logger,
	cfg DetectionConfig,
) *DetectAnomalyUseCase {
	return &DetectAnomalyUseCase{
		opener:     opener,
		pre:        pre,
		scorer:     scorer,
		extractor:  extractor,
		dispatcher: dispatcher,
		archiver:   archiver,
		events:     events,
		progress:   progress,
		logger:     logger,
		cfg:        cfg,
	}
}

// Execute runs detection over the video at videoPath, writing progress as a
// side effect and placing any extracted clip under clipDir. Pipeline errors
// are terminal for the run, not propagated: the returned run records the
// outcome and the progress store reflects it.
func (uc *DetectAnomalyUseCase) Execute(ctx context.Context, videoPath, clipDir string) *entity.Run {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "DetectAnomalyUseCase.Execute")
	defer span.End()

	totalTimer := time.Now()
	run := entity.NewRun(videoPath)

	span.SetAttributes(
		attribute.String("run.id", run.ID.String()),
		attribute.String("run.video_path", videoPath),
	)

	log := uc.logger.With(zap.String("run_id", run.ID.String()), zap.String("video_path", videoPath))

	metrics.ActiveRuns.Inc()
	defer metrics.ActiveRuns.Dec()
	defer func() {
		metrics.RunsTotal.WithLabelValues(string(run.State)).Inc()
		metrics.RunStageDuration.WithLabelValues("total").Observe(time.Since(totalTimer).Seconds())
	}()

	uc.progress.Set(entity.ProcessingStatus{Progress: 0, Status: entity.StatusStarting})

	reader, err := uc.opener.Open(videoPath)
	if err != nil {
		uc.fail(ctx, run, log, fmt.Errorf("open video: %w", err))
		return run
	}
	defer reader.Close()

	info := reader.Info()
	run.TotalFrames = info.TotalFrames
	run.FPS = info.FPS

	if info.TotalFrames <= 0 {
		log.Warn("video reports no frames, nothing to scan")
		run.MarkExhausted()
		uc.progress.Set(entity.ProcessingStatus{Progress: 100, Status: entity.StatusNoAnomaly})
		uc.publishEvent(ctx, run, log)
		return run
	}

	scanStart := time.Now()
	scanCtx, scanSpan := tracer.Start(ctx, "scan_frames")
	anomalyFrame, err := uc.scan(scanCtx, reader, run, log)
	scanSpan.End()
	metrics.RunStageDuration.WithLabelValues("scan").Observe(time.Since(scanStart).Seconds())
	if err != nil {
		uc.fail(ctx, run, log, err)
		return run
	}

	if anomalyFrame < 0 {
		run.MarkExhausted()
		uc.progress.Set(entity.ProcessingStatus{Progress: 100, Status: entity.StatusNoAnomaly})
		log.Info("stream exhausted, no anomaly detected", zap.Int("total_frames", info.TotalFrames))
		uc.publishEvent(ctx, run, log)
		return run
	}

	if err := uc.handleAnomaly(ctx, run, anomalyFrame, clipDir, log); err != nil {
		uc.fail(ctx, run, log, err)
		return run
	}

	uc.progress.Set(entity.ProcessingStatus{Progress: 100, Status: entity.StatusCompleted})
	uc.publishEvent(ctx, run, log)
	return run
}

// scan consumes frames in source order and returns the index of the first
// anomalous frame, or -1 if the stream ends without one. Frames up to and
// including the warm-up count are never scored.
func (uc *DetectAnomalyUseCase) scan(ctx context.Context, reader port.FrameReader, run *entity.Run, log *zap.Logger) (int, error) {
	for {
		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return -1, nil
		}
		if err != nil {
			return -1, fmt.Errorf("decode frame: %w", err)
		}

		metrics.FramesScannedTotal.Inc()

		if frame.Index <= uc.cfg.WarmupFrames {
			uc.progress.Set(entity.ScanningStatus(frame.Index, run.TotalFrames))
			continue
		}

		if run.State == entity.RunStateWarmup {
			run.MarkActive()
			log.Info("warm-up complete, scoring frames", zap.Int("warmup_frames", uc.cfg.WarmupFrames))
		}

		tensor, err := uc.pre.Preprocess(frame)
		if err != nil {
			return -1, fmt.Errorf("preprocess frame %d: %w", frame.Index, err)
		}

		score, err := uc.scorer.Score(ctx, tensor)
		if err != nil {
			return -1, fmt.Errorf("score frame %d: %w", frame.Index, err)
		}

		if score > uc.cfg.AnomalyThreshold {
			log.Info("anomaly detected",
				zap.Int("frame", frame.Index),
				zap.Float64("reconstruction_error", score),
				zap.Float64("threshold", uc.cfg.AnomalyThreshold),
			)
			return frame.Index, nil
		}
	}
}

// handleAnomaly extracts the clip window around the anomalous frame and hands
// it downstream. Extraction failure fails the run; delivery and archival
// failures do not.
func (uc *DetectAnomalyUseCase) handleAnomaly(ctx context.Context, run *entity.Run, anomalyFrame int, clipDir string, log *zap.Logger) error {
	tracer := otel.Tracer("usecase")

	window := entity.NewClipWindow(anomalyFrame, run.TotalFrames, uc.cfg.ClipPreFrames, uc.cfg.ClipPostFrames)
	clipName := fmt.Sprintf("anomalous_clip_%s.mp4", run.ID.String())
	clipPath := filepath.Join(clipDir, clipName)

	exStart := time.Now()
	exCtx, exSpan := tracer.Start(ctx, "extract_clip")
	err := uc.extractor.ExtractClip(exCtx, run.VideoPath, window, run.FPS, clipPath)
	exSpan.End()
	metrics.RunStageDuration.WithLabelValues("extract").Observe(time.Since(exStart).Seconds())
	if err != nil {
		return fmt.Errorf("extract clip: %w", err)
	}

	run.MarkAnomalyFound(anomalyFrame, clipPath)
	metrics.AnomaliesDetectedTotal.Inc()

	dpStart := time.Now()
	dpCtx, dpSpan := tracer.Start(ctx, "dispatch_clip")
	err = uc.dispatcher.Dispatch(dpCtx, clipPath)
	dpSpan.End()
	metrics.RunStageDuration.WithLabelValues("dispatch").Observe(time.Since(dpStart).Seconds())
	if err != nil {
		// Delivery is best-effort: the anomaly was found and the clip
		// exists locally, so the run still completes.
		metrics.DispatchFailuresTotal.Inc()
		log.Error("clip dispatch failed", zap.Error(err), zap.String("clip_path", clipPath))
	}

	if uc.archiver != nil {
		objectKey := fmt.Sprintf("%s/%s", run.ID.String(), clipName)
		if err := uc.archiver.ArchiveClip(ctx, objectKey, clipPath); err != nil {
			log.Warn("clip archival failed", zap.Error(err), zap.String("object_key", objectKey))
		}
	}

	return nil
}

func (uc *DetectAnomalyUseCase) fail(ctx context.Context, run *entity.Run, log *zap.Logger, err error) {
	log.Error("detection run failed", zap.Error(err))
	run.MarkFailed(err.Error())
	uc.progress.Set(entity.ProcessingStatus{Progress: 0, Status: entity.StatusError})
	uc.publishEvent(ctx, run, log)
}

func (uc *DetectAnomalyUseCase) publishEvent(ctx context.Context, run *entity.Run, log *zap.Logger) {
	if uc.events == nil {
		return
	}

	msg := entity.DetectionEventMessage{
		RunID:        run.ID,
		VideoPath:    run.VideoPath,
		State:        run.State,
		AnomalyFrame: run.AnomalyFrame,
		ClipPath:     run.ClipPath,
		ErrorMessage: run.ErrorMessage,
	}
	data, _ := json.Marshal(msg)
	if err := uc.events.PublishEvent(ctx, data); err != nil {
		log.Error("failed to publish detection event", zap.Error(err))
	}
}
