package event

import (
	"context"

	"github.com/viant/arcs/internal/clock"
	"github.com/viant/arcs/service/messaging"
)

// Publisher sends typed events over a queue.
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish stamps and enqueues event. A nil publisher discards it.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	if p == nil {
		return nil
	}
	event.CreatedAt = clock.Now()
	return p.queue.Publish(ctx, event)
}

// Consume returns the next acknowledged event.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
