package entity

import "github.com/google/uuid"

// DetectionEventMessage is the outbound event published when a run finishes.
type DetectionEventMessage struct {
	RunID        uuid.UUID `json:"run_id"`
	VideoPath    string    `json:"video_path"`
	State        RunState  `json:"state"`
	AnomalyFrame int       `json:"anomaly_frame,omitempty"`
	ClipPath     string    `json:"clip_path,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// NarrationRecord is the single current (video, narration) pair held by the
// narration service. Last writer wins.
type NarrationRecord struct {
	Narration string `json:"narration"`
	Video     string `json:"video"`
}
