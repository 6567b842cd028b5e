package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
	"go.uber.org/zap"
)

// Extractor cuts a frame window out of a source video and re-encodes it as a
// standalone clip.
type Extractor struct {
	codec  string
	logger *zap.Logger
}

func NewExtractor(codec string, logger *zap.Logger) *Extractor {
	if codec == "" {
		codec = "libx264"
	}
	return &Extractor{codec: codec, logger: logger}
}

func (e *Extractor) ExtractClip(ctx context.Context, videoPath string, window entity.ClipWindow, fps float64, outputPath string) error {
	if fps <= 0 {
		probed, err := probeFPS(ctx, videoPath)
		if err != nil {
			return fmt.Errorf("probe fps: %w", err)
		}
		fps = probed
	}

	start, end := window.Seconds(fps)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-i", videoPath,
		"-c:v", e.codec,
		"-pix_fmt", "yuv420p",
		"-y",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output))
	}

	e.logger.Info("clip extracted",
		zap.Int("start_frame", window.StartFrame),
		zap.Int("end_frame", window.EndFrame),
		zap.Float64("start_secs", start),
		zap.Float64("end_secs", end),
		zap.String("output", outputPath),
	)

	return nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// probeFPS reads the average frame rate of the first video stream.
func probeFPS(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=avg_frame_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	return parseFrameRate(strings.TrimSpace(string(output)))
}

// parseFrameRate handles ffprobe's rational notation, e.g. "30000/1001".
func parseFrameRate(raw string) (float64, error) {
	if num, den, ok := strings.Cut(raw, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, fmt.Errorf("parse frame rate %q: %w", raw, err)
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, fmt.Errorf("parse frame rate %q: %w", raw, err)
		}
		if d == 0 {
			return 0, fmt.Errorf("parse frame rate %q: zero denominator", raw)
		}
		return n / d, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse frame rate %q: %w", raw, err)
	}
	return v, nil
}
