package event

import (
	"github.com/rs/zerolog"
	"github.com/viant/arcs/service/messaging/memory"
)

type Option func(s *Service)

// WithNewMemoryQueueConfig sets the config of the queue created per event type
func WithNewMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newConfig
	}
}

// WithLogger sets the logger used by listeners
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
