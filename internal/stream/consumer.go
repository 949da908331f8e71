package stream

import "context"

// StreamConsumer tails the analytics event stream.
type StreamConsumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}
