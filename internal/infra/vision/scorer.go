package vision

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
	"gocv.io/x/gocv"
)

// AutoencoderScorer scores frames with a pretrained reconstruction
// autoencoder loaded through the OpenCV DNN module. The reconstruction error
// is the mean squared difference between input and reconstruction.
type AutoencoderScorer struct {
	mu  sync.Mutex
	net gocv.Net
}

func NewAutoencoderScorer(modelPath string) (*AutoencoderScorer, error) {
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("load model %s: empty network", modelPath)
	}
	return &AutoencoderScorer{net: net}, nil
}

func (s *AutoencoderScorer) Score(ctx context.Context, tensor *entity.Tensor) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	input, err := gocv.NewMatFromBytes(tensor.Height, tensor.Width, gocv.MatTypeCV32F, float32Bytes(tensor.Data))
	if err != nil {
		return 0, fmt.Errorf("build input mat: %w", err)
	}
	defer input.Close()

	blob := gocv.BlobFromImage(input, 1.0, image.Pt(tensor.Width, tensor.Height), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.net.SetInput(blob, "")
	output := s.net.Forward("")
	defer output.Close()

	reconstructed, err := output.DataPtrFloat32()
	if err != nil {
		return 0, fmt.Errorf("read reconstruction: %w", err)
	}
	if len(reconstructed) != len(tensor.Data) {
		return 0, fmt.Errorf("reconstruction shape mismatch: got %d samples, want %d", len(reconstructed), len(tensor.Data))
	}

	var sum float64
	for i, v := range tensor.Data {
		diff := float64(v) - float64(reconstructed[i])
		sum += diff * diff
	}
	return sum / float64(len(tensor.Data)), nil
}

func (s *AutoencoderScorer) Close() error {
	return s.net.Close()
}

func float32Bytes(data []float32) []byte {
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
