package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
)

// NarrationForwarder re-publishes a narration record to a peer's
// /narration_post endpoint.
type NarrationForwarder struct {
	endpointURL string
	client      *http.Client
}

func NewNarrationForwarder(endpointURL string) *NarrationForwarder {
	return &NarrationForwarder{
		endpointURL: endpointURL,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *NarrationForwarder) Forward(ctx context.Context, narration, video string) error {
	payload, err := json.Marshal(entity.NarrationRecord{Narration: narration, Video: video})
	if err != nil {
		return fmt.Errorf("marshal narration record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpointURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("post narration: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post narration: unexpected status %d", resp.StatusCode)
	}
	return nil
}
