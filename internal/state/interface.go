package state

import "context"

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetQueue(ctx context.Context) (*QueueState, error)
	SaveQueue(ctx context.Context, state QueueState) error
	SaveQueueDeferred(state QueueState)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
