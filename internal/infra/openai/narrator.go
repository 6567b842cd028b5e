package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

const narrationPrompt = "Describe the possible anomaly in this video in single sentence. " +
	"The images are frames sampled from the video in order."

// FrameSampler extracts still frames from a clip for the vision model.
type FrameSampler interface {
	SampleFrames(ctx context.Context, videoPath string, outputDir string, count int) ([]string, error)
}

// Narrator asks a vision-capable chat model to describe the anomaly in a
// clip, using a handful of sampled frames as the visual input.
type Narrator struct {
	client       openai.Client
	model        string
	sampler      FrameSampler
	sampleFrames int
	logger       *zap.Logger
}

type NarratorConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	SampleFrames int
}

func NewNarrator(cfg NarratorConfig, sampler FrameSampler, logger *zap.Logger) *Narrator {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Narrator{
		client:       openai.NewClient(clientOpts...),
		model:        cfg.Model,
		sampler:      sampler,
		sampleFrames: cfg.SampleFrames,
		logger:       logger,
	}
}

func (n *Narrator) Narrate(ctx context.Context, clipPath string) (string, error) {
	sampleDir, err := os.MkdirTemp("", "sentinel-narration-*")
	if err != nil {
		return "", fmt.Errorf("create sample dir: %w", err)
	}
	defer os.RemoveAll(sampleDir)

	frames, err := n.sampler.SampleFrames(ctx, clipPath, sampleDir, n.sampleFrames)
	if err != nil {
		return "", fmt.Errorf("sample frames: %w", err)
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(narrationPrompt),
	}
	for _, framePath := range frames {
		dataURI, err := frameDataURI(framePath)
		if err != nil {
			return "", err
		}
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURI,
		}))
	}

	resp, err := n.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
		Model:       n.model,
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("generate narration: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate narration: model returned no choices")
	}

	narration := strings.TrimSpace(resp.Choices[0].Message.Content)
	if narration == "" {
		return "", fmt.Errorf("generate narration: model returned empty text")
	}

	n.logger.Info("narration generated",
		zap.String("clip", clipPath),
		zap.Int("frames", len(frames)),
	)
	return narration, nil
}

func frameDataURI(framePath string) (string, error) {
	data, err := os.ReadFile(framePath)
	if err != nil {
		return "", fmt.Errorf("read sampled frame: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}
