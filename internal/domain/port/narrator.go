package port

import "context"

// NarrationGenerator produces a natural-language description of the anomaly
// shown in a clip. Implementations are expected to honor ctx deadlines; the
// caller bounds the call with the configured generation timeout.
type NarrationGenerator interface {
	Narrate(ctx context.Context, clipPath string) (string, error)
}

// NarrationForwarder re-publishes a narration record to a peer service.
// Forwarding is best-effort.
type NarrationForwarder interface {
	Forward(ctx context.Context, narration, video string) error
}
