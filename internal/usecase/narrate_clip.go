package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
	"github.com/anand176/Sentinel-AI-backend/internal/domain/port"
	"github.com/anand176/Sentinel-AI-backend/internal/infra/metrics"
	"github.com/anand176/Sentinel-AI-backend/internal/status"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// NarrateClipUseCase obtains a narration for a received clip, stores the
// (video, narration) pair, and best-effort forwards it to a peer.
type NarrateClipUseCase struct {
	generator port.NarrationGenerator
	forwarder port.NarrationForwarder // optional
	store     *status.NarrationStore
	logger    *zap.Logger
	timeout   time.Duration
}

func NewNarrateClipUseCase(
	generator port.NarrationGenerator,
	forwarder port.NarrationForwarder,
	store *status.NarrationStore,
	logger *zap.Logger,
	timeout time.Duration,
) *NarrateClipUseCase {
	return &NarrateClipUseCase{
		generator: generator,
		forwarder: forwarder,
		store:     store,
		logger:    logger,
		timeout:   timeout,
	}
}

// Execute generates a narration for the stored clip. Generation is bounded by
// the configured timeout; on failure the stored record is left untouched and
// the error is returned to the caller.
func (uc *NarrateClipUseCase) Execute(ctx context.Context, clipPath, filename string) (string, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "NarrateClipUseCase.Execute")
	defer span.End()

	span.SetAttributes(attribute.String("clip.filename", filename))

	log := uc.logger.With(zap.String("clip", filename))

	genCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	genStart := time.Now()
	narration, err := uc.generator.Narrate(genCtx, clipPath)
	metrics.RunStageDuration.WithLabelValues("narrate").Observe(time.Since(genStart).Seconds())
	if err != nil {
		metrics.NarrationsGeneratedTotal.WithLabelValues("error").Inc()
		log.Error("narration generation failed", zap.Error(err))
		return "", fmt.Errorf("narrate clip: %w", err)
	}
	metrics.NarrationsGeneratedTotal.WithLabelValues("ok").Inc()

	uc.store.Set(entity.NarrationRecord{Narration: narration, Video: filename})
	log.Info("narration stored", zap.String("narration", narration))

	if uc.forwarder != nil {
		if err := uc.forwarder.Forward(ctx, narration, filename); err != nil {
			log.Error("failed to forward narration to peer", zap.Error(err))
		}
	}

	return narration, nil
}
