package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ClipDispatcher posts a produced clip to the narration service as a
// multipart upload. One attempt per clip, no retry.
type ClipDispatcher struct {
	endpointURL string
	client      *http.Client
}

func NewClipDispatcher(endpointURL string) *ClipDispatcher {
	return &ClipDispatcher{
		endpointURL: endpointURL,
		client:      &http.Client{Timeout: 5 * time.Minute},
	}
}

func (d *ClipDispatcher) Dispatch(ctx context.Context, clipPath string) error {
	file, err := os.Open(clipPath)
	if err != nil {
		return fmt.Errorf("open clip: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(clipPath))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy clip into request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpointURL, &body)
	if err != nil {
		return fmt.Errorf("build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post clip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post clip: unexpected status %d", resp.StatusCode)
	}
	return nil
}
