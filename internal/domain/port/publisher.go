package port

import "context"

// EventPublisher publishes run-outcome events for interested consumers.
type EventPublisher interface {
	PublishEvent(ctx context.Context, msg []byte) error
}
