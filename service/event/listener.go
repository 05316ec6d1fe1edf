package event

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/viant/arcs/service/messaging"
)

// Listener hands every consumed event to handler until stopped or the queue
// is closed.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    zerolog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger zerolog.Logger) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Stop stops consuming and waits for the running handler to return.
func (l *Listener[T]) Stop() {
	l.cancel()
	<-l.done
}

func (l *Listener[T]) wait() { <-l.done }

func (l *Listener[T]) Start() {
	go func() {
		defer close(l.done)
		for {
			event, err := l.publisher.Consume(l.ctx)
			if err != nil {
				if errors.Is(err, messaging.ErrClosed) || l.ctx.Err() != nil {
					return
				}
				l.logger.Warn().Err(err).Msg("failed to consume event")
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}
