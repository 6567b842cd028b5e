package entity

// ClipWindow is the half-open [Start, End) frame range extracted around a
// detected anomaly.
type ClipWindow struct {
	StartFrame int
	EndFrame   int
}

// NewClipWindow builds the window around anomalous frame i, clamped to the
// valid frame range of the source video.
func NewClipWindow(i, totalFrames, preFrames, postFrames int) ClipWindow {
	start := i - preFrames
	if start < 0 {
		start = 0
	}
	end := i + postFrames
	if end > totalFrames {
		end = totalFrames
	}
	return ClipWindow{StartFrame: start, EndFrame: end}
}

// Seconds converts the frame window to a time window using the source fps.
func (w ClipWindow) Seconds(fps float64) (start, end float64) {
	return float64(w.StartFrame) / fps, float64(w.EndFrame) / fps
}
