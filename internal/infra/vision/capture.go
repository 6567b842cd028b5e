package vision

import (
	"fmt"
	"io"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
	"github.com/anand176/Sentinel-AI-backend/internal/domain/port"
	"gocv.io/x/gocv"
)

// Opener opens video files for sequential frame reading through OpenCV.
type Opener struct{}

func NewOpener() *Opener {
	return &Opener{}
}

func (o *Opener) Open(videoPath string) (port.FrameReader, error) {
	capture, err := gocv.OpenVideoCapture(videoPath)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", videoPath, err)
	}

	mat := gocv.NewMat()
	return &Reader{
		capture: capture,
		img:     &mat,
		info: entity.VideoInfo{
			TotalFrames: int(capture.Get(gocv.VideoCaptureFrameCount)),
			FPS:         capture.Get(gocv.VideoCaptureFPS),
		},
		next: 0,
	}, nil
}

// Reader decodes frames in source order. The decode buffer is reused between
// reads; each returned frame carries its own copy of the pixels.
type Reader struct {
	capture *gocv.VideoCapture
	img     *gocv.Mat
	info    entity.VideoInfo
	next    int
}

func (r *Reader) Info() entity.VideoInfo {
	return r.info
}

func (r *Reader) Next() (*entity.Frame, error) {
	if ok := r.capture.Read(r.img); !ok {
		return nil, io.EOF
	}
	if r.img.Empty() {
		return nil, io.EOF
	}

	frame := &entity.Frame{
		Index:  r.next,
		Rows:   r.img.Rows(),
		Cols:   r.img.Cols(),
		Type:   int(r.img.Type()),
		Pixels: r.img.ToBytes(),
	}
	r.next++
	return frame, nil
}

func (r *Reader) Close() error {
	if err := r.capture.Close(); err != nil {
		return err
	}
	return r.img.Close()
}
