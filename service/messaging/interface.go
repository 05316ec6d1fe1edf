package messaging

import (
	"context"
	"errors"
)

// ErrClosed is returned by Publish and Consume once a queue is closed and drained.
var ErrClosed = errors.New("messaging: queue closed")

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue
	Consume(ctx context.Context) (Message[T], error)

	// Close stops accepting messages; pending ones can still be consumed
	Close() error

	// Size returns the number of pending messages
	Size() int
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}
