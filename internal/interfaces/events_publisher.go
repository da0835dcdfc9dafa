package interfaces

import "context"

// EventPublisher delivers applied-transaction events to an external sink.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}
