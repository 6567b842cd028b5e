package port

import (
	"context"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
)

// ClipExtractor re-encodes the given frame window of a source video into a
// standalone playable clip at outputPath.
type ClipExtractor interface {
	ExtractClip(ctx context.Context, videoPath string, window entity.ClipWindow, fps float64, outputPath string) error
}
