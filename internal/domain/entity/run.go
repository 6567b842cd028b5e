package entity

import (
	"time"

	"github.com/google/uuid"
)

type RunState string

const (
	RunStateWarmup       RunState = "WARMUP"
	RunStateActive       RunState = "ACTIVE"
	RunStateAnomalyFound RunState = "ANOMALY_FOUND"
	RunStateExhausted    RunState = "EXHAUSTED"
	RunStateFailed       RunState = "FAILED"
)

// Run is one detection pass over an uploaded video. Only the latest run is
// observable through the progress endpoint; runs are not persisted.
type Run struct {
	ID            uuid.UUID
	VideoPath     string
	TotalFrames   int
	FPS           float64
	State         RunState
	AnomalyFrame  int
	ClipPath      string
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    *time.Time
}

func NewRun(videoPath string) *Run {
	return &Run{
		ID:           uuid.New(),
		VideoPath:    videoPath,
		State:        RunStateWarmup,
		AnomalyFrame: -1,
		StartedAt:    time.Now().UTC(),
	}
}

func (r *Run) MarkActive() {
	r.State = RunStateActive
}

func (r *Run) MarkAnomalyFound(frame int, clipPath string) {
	now := time.Now().UTC()
	r.State = RunStateAnomalyFound
	r.AnomalyFrame = frame
	r.ClipPath = clipPath
	r.FinishedAt = &now
}

func (r *Run) MarkExhausted() {
	now := time.Now().UTC()
	r.State = RunStateExhausted
	r.FinishedAt = &now
}

func (r *Run) MarkFailed(errMsg string) {
	now := time.Now().UTC()
	r.State = RunStateFailed
	r.ErrorMessage = errMsg
	r.FinishedAt = &now
}

func (r *Run) Finished() bool {
	return r.State == RunStateAnomalyFound || r.State == RunStateExhausted || r.State == RunStateFailed
}
