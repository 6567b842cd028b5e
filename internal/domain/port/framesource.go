package port

import (
	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
)

// FrameReader reads frames sequentially from an opened video.
type FrameReader interface {
	Info() entity.VideoInfo
	// Next returns the next frame in source order, or io.EOF once the
	// stream is exhausted.
	Next() (*entity.Frame, error)
	Close() error
}

type FrameOpener interface {
	Open(videoPath string) (FrameReader, error)
}
