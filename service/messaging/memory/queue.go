package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viant/arcs/internal/idgen"
	"github.com/viant/arcs/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{QueueBuffer: 16}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id        string
	payload   T
	mu        sync.Mutex
	processed bool
	err       error
	createdAt time.Time
}

// ID returns the message id
func (m *Message[T]) ID() string { return m.id }

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	return m.settle(nil)
}

// Nack records a processing failure; memory messages are not redelivered
func (m *Message[T]) Nack(err error) error {
	return m.settle(err)
}

// Err returns the error passed to Nack
func (m *Message[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Message[T]) settle(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %v already processed", m.id)
	}
	m.processed = true
	m.err = err
	return nil
}

// Queue implements an in-memory messaging.Queue backed by a buffered channel
type Queue[T any] struct {
	messages chan *Message[T]
	done     chan struct{}
	once     sync.Once
	mu       sync.RWMutex
	closed   bool
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{messages: make(chan *Message[T], config.QueueBuffer), done: make(chan struct{})}
}

// Publish adds a new item to the queue; a publish blocked on a full buffer
// returns messaging.ErrClosed once Close is called
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{id: idgen.New(), payload: *t, createdAt: time.Now()}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return messaging.ErrClosed
	}
	select {
	case q.messages <- msg:
		return nil
	case <-q.done:
		return messaging.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg, ok := <-q.messages:
		if !ok {
			return nil, messaging.ErrClosed
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes the queue; it is safe to call more than once
func (q *Queue[T]) Close() error {
	q.once.Do(func() { close(q.done) })
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.messages)
	return nil
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
