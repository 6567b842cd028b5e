package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
	"github.com/anand176/Sentinel-AI-backend/internal/status"
	"github.com/anand176/Sentinel-AI-backend/internal/usecase"
	"go.uber.org/zap"
)

// NarratorHandler is the HTTP surface of the narration service.
type NarratorHandler struct {
	clipsDir string
	narrate  *usecase.NarrateClipUseCase
	store    *status.NarrationStore
	logger   *zap.Logger
}

func NewNarratorHandler(clipsDir string, narrate *usecase.NarrateClipUseCase, store *status.NarrationStore, logger *zap.Logger) *NarratorHandler {
	return &NarratorHandler{
		clipsDir: clipsDir,
		narrate:  narrate,
		store:    store,
		logger:   logger,
	}
}

func (h *NarratorHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /upload_video", h.handleUploadVideo)
	mux.HandleFunc("POST /narration_post", h.handleNarrationPost)
	mux.HandleFunc("GET /narration", h.handleGetNarration)
	mux.HandleFunc("GET /clips/{filename}", h.handleServeClip)
}

// handleUploadVideo stores the received clip and synchronously generates its
// narration. A generation failure (including timeout) fails this request and
// leaves the stored record untouched.
func (h *NarratorHandler) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
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

	filename := sanitizeFilename(header.Filename)
	clipPath := filepath.Join(h.clipsDir, filename)
	if err := saveUpload(file, clipPath); err != nil {
		h.logger.Error("failed to save clip", zap.Error(err), zap.String("path", clipPath))
		writeError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	narration, err := h.narrate.Execute(r.Context(), clipPath, filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Narration generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Video uploaded and narration generated",
		"narration": narration,
	})
}

func (h *NarratorHandler) handleNarrationPost(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Narration *string `json:"narration"`
		Video     *string `json:"video"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Narration == nil || payload.Video == nil {
		writeError(w, http.StatusBadRequest, "Invalid data")
		return
	}

	h.store.Set(entity.NarrationRecord{Narration: *payload.Narration, Video: *payload.Video})
	h.logger.Info("narration record stored", zap.String("video", *payload.Video))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Narration and video stored successfully"})
}

func (h *NarratorHandler) handleGetNarration(w http.ResponseWriter, r *http.Request) {
	record, ok := h.store.Get()
	if !ok {
		writeError(w, http.StatusBadRequest, "No video available")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *NarratorHandler) handleServeClip(w http.ResponseWriter, r *http.Request) {
	filename := sanitizeFilename(r.PathValue("filename"))
	if filename == "" {
		writeError(w, http.StatusBadRequest, "Invalid filename")
		return
	}
	http.ServeFile(w, r, filepath.Join(h.clipsDir, filename))
}
