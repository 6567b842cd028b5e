package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/anand176/Sentinel-AI-backend/internal/status"
	"github.com/anand176/Sentinel-AI-backend/internal/usecase"
	"go.uber.org/zap"
)

const maxUploadBytes = 2 << 30 // 2 GiB

var allowedExtensions = map[string]struct{}{
	"mp4": {},
	"avi": {},
	"mov": {},
}

// DetectorHandler is the HTTP surface of the detection service.
type DetectorHandler struct {
	uploadDir string
	clipsDir  string
	detect    *usecase.DetectAnomalyUseCase
	progress  *status.Store
	logger    *zap.Logger
	runs      sync.WaitGroup
}

func NewDetectorHandler(uploadDir, clipsDir string, detect *usecase.DetectAnomalyUseCase, progress *status.Store, logger *zap.Logger) *DetectorHandler {
	return &DetectorHandler{
		uploadDir: uploadDir,
		clipsDir:  clipsDir,
		detect:    detect,
		progress:  progress,
		logger:    logger,
	}
}

func (h *DetectorHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /{$}", h.handleUpload)
	mux.HandleFunc("GET /progress", h.handleProgress)
	mux.HandleFunc("POST /upload_video", h.handleReceiveVideo)
}

// Wait blocks until all background detection runs have finished.
func (h *DetectorHandler) Wait() {
	h.runs.Wait()
}

// handleUpload accepts a video upload and starts a detection run in the
// background. The response only acknowledges that processing started; the
// outcome is observed by polling /progress.
func (h *DetectorHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}
	if _, ok := allowedExtensions[fileExtension(header.Filename)]; !ok {
		writeError(w, http.StatusBadRequest, "Invalid file type")
		return
	}

	filename := sanitizeFilename(header.Filename)
	videoPath := filepath.Join(h.uploadDir, filename)
	if err := saveUpload(file, videoPath); err != nil {
		h.logger.Error("failed to save upload", zap.Error(err), zap.String("path", videoPath))
		writeError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	h.runs.Add(1)
	go func() {
		defer h.runs.Done()
		// The run outlives the upload request.
		h.detect.Execute(context.Background(), videoPath, h.clipsDir)
	}()

	h.logger.Info("upload accepted, detection started", zap.String("filename", filename))
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "File uploaded successfully, processing started",
		"filename": filename,
	})
}

func (h *DetectorHandler) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.progress.Get())
}

// handleReceiveVideo is the receiving end of inter-service clip posting. The
// file is stored without starting a detection run.
func (h *DetectorHandler) handleReceiveVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part in the request")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}

	path := filepath.Join(h.uploadDir, sanitizeFilename(header.Filename))
	if err := saveUpload(file, path); err != nil {
		h.logger.Error("failed to save video", zap.Error(err), zap.String("path", path))
		writeError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Video uploaded successfully",
		"file_path": path,
	})
}

func saveUpload(src io.Reader, destPath string) error {
	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return nil
}
