package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
	"github.com/anand176/Sentinel-AI-backend/internal/status"
	"github.com/anand176/Sentinel-AI-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGenerator struct {
	narration string
	err       error
	blocking  bool
}

func (g *stubGenerator) Narrate(ctx context.Context, _ string) (string, error) {
	if g.blocking {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.narration, g.err
}

func newNarratorHandler(t *testing.T, gen *stubGenerator, timeout time.Duration) (*NarratorHandler, *status.NarrationStore, string) {
	t.Helper()
	clipsDir := t.TempDir()
	store := status.NewNarrationStore()
	narrate := usecase.NewNarrateClipUseCase(gen, nil, store, zap.NewNop(), timeout)
	return NewNarratorHandler(clipsDir, narrate, store, zap.NewNop()), store, clipsDir
}

func TestNarrationPostRoundTrip(t *testing.T) {
	handler, _, _ := newNarratorHandler(t, &stubGenerator{}, time.Minute)
	mux := http.NewServeMux()
	handler.Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/narration_post",
		strings.NewReader(`{"narration":"X","video":"v.mp4"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/narration", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"narration":"X","video":"v.mp4"}`, rec.Body.String())
}

func TestNarrationPostRejectsMissingFields(t *testing.T) {
	handler, _, _ := newNarratorHandler(t, &stubGenerator{}, time.Minute)
	mux := http.NewServeMux()
	handler.Register(mux)

	for _, body := range []string{
		`{"narration":"X"}`,
		`{"video":"v.mp4"}`,
		`{}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/narration_post", strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.JSONEq(t, `{"error":"Invalid data"}`, rec.Body.String())
	}
}

func TestGetNarrationWithoutVideoFails(t *testing.T) {
	handler, _, _ := newNarratorHandler(t, &stubGenerator{}, time.Minute)
	mux := http.NewServeMux()
	handler.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/narration", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No video available"}`, rec.Body.String())
}

func TestUploadVideoGeneratesNarration(t *testing.T) {
	handler, store, clipsDir := newNarratorHandler(t,
		&stubGenerator{narration: "A box falls from the shelf."}, time.Minute)
	mux := http.NewServeMux()
	handler.Register(mux)

	body, contentType := multipartBody(t, "file", "clip.mp4", []byte("clip bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload_video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "A box falls from the shelf.", resp["narration"])

	record, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, entity.NarrationRecord{Narration: "A box falls from the shelf.", Video: "clip.mp4"}, record)

	_, err := os.Stat(filepath.Join(clipsDir, "clip.mp4"))
	assert.NoError(t, err)
}

func TestUploadVideoGenerationTimeoutKeepsPreviousRecord(t *testing.T) {
	handler, store, _ := newNarratorHandler(t, &stubGenerator{blocking: true}, 20*time.Millisecond)
	store.Set(entity.NarrationRecord{Narration: "previous", Video: "old.mp4"})
	mux := http.NewServeMux()
	handler.Register(mux)

	body, contentType := multipartBody(t, "file", "clip.mp4", []byte("clip bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload_video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	record, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, entity.NarrationRecord{Narration: "previous", Video: "old.mp4"}, record)
}

func TestUploadVideoGenerationErrorFailsRequest(t *testing.T) {
	handler, store, _ := newNarratorHandler(t, &stubGenerator{err: errors.New("model down")}, time.Minute)
	mux := http.NewServeMux()
	handler.Register(mux)

	body, contentType := multipartBody(t, "file", "clip.mp4", []byte("clip bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload_video", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	_, ok := store.Get()
	assert.False(t, ok)
}

func TestServeClipReturnsStoredBytes(t *testing.T) {
	handler, _, clipsDir := newNarratorHandler(t, &stubGenerator{}, time.Minute)
	mux := http.NewServeMux()
	handler.Register(mux)

	require.NoError(t, os.WriteFile(filepath.Join(clipsDir, "clip.mp4"), []byte("clip bytes"), 0644))

	req := httptest.NewRequest(http.MethodGet, "/clips/clip.mp4", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "clip bytes", rec.Body.String())
}

func TestServeClipUnknownFileIs404(t *testing.T) {
	handler, _, _ := newNarratorHandler(t, &stubGenerator{}, time.Minute)
	mux := http.NewServeMux()
	handler.Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/clips/nope.mp4", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
