// Package event publishes typed events, such as arc lifecycle changes, over
// in-memory queues and dispatches them to listeners.
package event

import (
	"errors"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/arcs/service/messaging/memory"
)

type stopper interface {
	Stop()
	wait()
}

type Service struct {
	typedPublishers   map[reflect.Type]any
	typedListener     map[reflect.Type]stopper
	closers           []func() error
	mux               sync.RWMutex
	memNewQueueConfig func(name string) memory.Config
	logger            zerolog.Logger
}

func New(opts ...Option) *Service {
	ret := &Service{
		typedPublishers: make(map[reflect.Type]any),
		typedListener:   make(map[reflect.Type]stopper),
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.memNewQueueConfig == nil {
		ret.memNewQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
	}
	return ret
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// PublisherOf returns the publisher for the provided type
func PublisherOf[T any](s *Service) *Publisher[T] {
	key := keyOf[T]()
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok := s.typedPublishers[key]; ok {
		return ret.(*Publisher[T])
	}
	queue := memory.NewQueue[Event[T]](s.memNewQueueConfig(key.String()))
	s.closers = append(s.closers, queue.Close)
	publisher := NewPublisher[T](queue)
	s.typedPublishers[key] = publisher
	return publisher
}

// SetListenerOf replaces the listener of events of type T.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) {
	key := keyOf[T]()
	publisher := PublisherOf[T](s)
	s.mux.Lock()
	previous := s.typedListener[key]
	listener := NewListener[T](publisher, handler, s.logger)
	s.typedListener[key] = listener
	s.mux.Unlock()
	if previous != nil {
		previous.Stop()
	}
	listener.Start()
}

// Close closes every queue and waits for listeners to drain them.
func (s *Service) Close() error {
	s.mux.Lock()
	closers := s.closers
	listeners := s.typedListener
	s.closers = nil
	s.typedListener = make(map[reflect.Type]stopper)
	s.mux.Unlock()
	var errs []error
	for _, closeFn := range closers {
		errs = append(errs, closeFn())
	}
	for _, listener := range listeners {
		listener.wait()
	}
	return errors.Join(errs...)
}
