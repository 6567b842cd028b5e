package port

import (
	"context"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
)

// FramePreprocessor normalizes a decoded frame into the tensor shape the
// scorer expects. Must be deterministic for identical input pixels.
type FramePreprocessor interface {
	Preprocess(frame *entity.Frame) (*entity.Tensor, error)
}

// AnomalyScorer returns the reconstruction error for a preprocessed frame.
// Classification against the threshold is the caller's concern.
type AnomalyScorer interface {
	Score(ctx context.Context, tensor *entity.Tensor) (float64, error)
}
