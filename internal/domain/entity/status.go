package entity

import "fmt"

// ProcessingStatus is the progress record polled by clients. Progress and
// Status are always read and written together.
type ProcessingStatus struct {
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}

const (
	StatusStarting  = "Starting"
	StatusCompleted = "Completed"
	StatusError     = "Error occurred"
	StatusNoAnomaly = "No anomaly detected"
)

// ScanningStatus is the per-frame progress record written during warm-up.
func ScanningStatus(frame, totalFrames int) ProcessingStatus {
	return ProcessingStatus{
		Progress: frame * 100 / totalFrames,
		Status:   fmt.Sprintf("Processing frame %d of %d", frame, totalFrames),
	}
}
