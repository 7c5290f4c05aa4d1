package messaging

import "context"

// Broker is the messaging abstraction used for realtime notifications,
// currently backed by Redis pub/sub.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
