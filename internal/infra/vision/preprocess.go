package vision

import (
	"fmt"
	"image"

	"github.com/anand176/Sentinel-AI-backend/internal/domain/entity"
	"gocv.io/x/gocv"
)

// inputSize is the spatial resolution the autoencoder was trained on.
const inputSize = 128

// Preprocessor normalizes decoded frames into the scorer's input shape:
// 128x128 single-channel float32 in [0,1].
type Preprocessor struct{}

func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

func (p *Preprocessor) Preprocess(frame *entity.Frame) (*entity.Tensor, error) {
	mat, err := gocv.NewMatFromBytes(frame.Rows, frame.Cols, gocv.MatType(frame.Type), frame.Pixels)
	if err != nil {
		return nil, fmt.Errorf("rebuild frame mat: %w", err)
	}
	defer mat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(inputSize, inputSize), 0, 0, gocv.InterpolationLinear)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(resized, &gray, gocv.ColorBGRToGray)

	scaled := gocv.NewMat()
	defer scaled.Close()
	gray.ConvertToWithParams(&scaled, gocv.MatTypeCV32F, 1.0/255.0, 0)

	data, err := scaled.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read tensor data: %w", err)
	}

	tensor := &entity.Tensor{
		Width:  inputSize,
		Height: inputSize,
		Data:   make([]float32, len(data)),
	}
	copy(tensor.Data, data)
	return tensor, nil
}
