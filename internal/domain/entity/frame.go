package entity

// Frame is a single decoded video frame. Pixels hold the raw BGR bytes copied
// out of the decoder, so the frame stays valid after the decoder buffer is
// reused for the next read.
type Frame struct {
	Index  int
	Rows   int
	Cols   int
	Type   int
	Pixels []byte
}

// Tensor is a preprocessed frame in the shape the scorer expects: a single
// grayscale channel of Width x Height float32 samples in [0,1].
type Tensor struct {
	Width  int
	Height int
	Data   []float32
}

// VideoInfo is the immutable metadata discovered when a video is opened.
type VideoInfo struct {
	TotalFrames int
	FPS         float64
}
