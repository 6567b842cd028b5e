package port

import "context"

// ClipDispatcher delivers a produced clip to the downstream service as a
// multipart file upload. At most one attempt per clip, no retry.
type ClipDispatcher interface {
	Dispatch(ctx context.Context, clipPath string) error
}
