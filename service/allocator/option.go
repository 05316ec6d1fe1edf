package allocator

import (
	"github.com/rs/zerolog"
	"github.com/viant/arcs/internal/idgen"
	"github.com/viant/arcs/model/arc"
	"github.com/viant/arcs/service/dao"
	"github.com/viant/arcs/service/dao/plan"
	"github.com/viant/arcs/service/event"
	"github.com/viant/arcs/service/host"
	"github.com/viant/arcs/service/storagekey"
)

// Option customises the Service.
type Option func(s *Service)

// WithResolver sets the storage key resolver.
func WithResolver(resolver *storagekey.Resolver) Option {
	return func(s *Service) { s.resolver = resolver }
}

// WithCatalog sets the plan catalog used by StartArc.
func WithCatalog(catalog *plan.Catalog) Option {
	return func(s *Service) { s.catalog = catalog }
}

// WithArcDAO sets the store persisting arc records.
func WithArcDAO(arcDAO dao.Service[string, arc.Record]) Option {
	return func(s *Service) { s.arcDAO = arcDAO }
}

// WithGenerator sets the session id generator.
func WithGenerator(generator *idgen.Generator) Option {
	return func(s *Service) { s.generator = generator }
}

// WithDefaultHost sets the host running empty and deserialized arcs.
func WithDefaultHost(defaultHost host.ArcHost) Option {
	return func(s *Service) { s.defaultHost = defaultHost }
}

// WithHostFactories registers factories in search order.
func WithHostFactories(factories ...host.Factory) Option {
	return func(s *Service) { s.factories = append(s.factories, factories...) }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithPublisher publishes arc lifecycle events carrying the arc record.
func WithPublisher(publisher *event.Publisher[arc.Record]) Option {
	return func(s *Service) { s.publisher = publisher }
}
