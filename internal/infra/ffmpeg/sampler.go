package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Sampler extracts a small number of evenly spaced still frames from a clip,
// used as input to the vision model that narrates the clip.
type Sampler struct{}

func NewSampler() *Sampler {
	return &Sampler{}
}

func (s *Sampler) SampleFrames(ctx context.Context, videoPath string, outputDir string, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", count)
	}

	duration, err := probeDuration(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, fmt.Errorf("video %s has no measurable duration", videoPath)
	}

	fps := float64(count) / duration
	framePattern := filepath.Join(outputDir, "sample_%02d.jpg")
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%f", fps),
		"-frames:v", strconv.Itoa(count),
		"-y",
		framePattern,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output))
	}

	frames, err := filepath.Glob(filepath.Join(outputDir, "sample_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("glob sampled frames: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames sampled from %s", videoPath)
	}

	return frames, nil
}

func probeDuration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return duration, nil
}
