package arcs

import (
	"github.com/rs/zerolog"
	"github.com/viant/afs/storage"
	"github.com/viant/arcs/model/arc"
	"github.com/viant/arcs/service/dao"
	"github.com/viant/arcs/service/event"
	"github.com/viant/arcs/service/host"
	"github.com/viant/arcs/service/meta"
	"github.com/viant/arcs/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the Service.
type Option func(s *Service)

// WithConfig sets the configuration; nil keeps DefaultConfig.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLogger sets the logger shared by every service.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithLoader sets the particle loader used by configured hosts.
func WithLoader(loader host.Loader) Option {
	return func(s *Service) { s.loader = loader }
}

// WithMetaService sets the meta service
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) { s.metaService = service }
}

// WithMetaBaseURL sets the base URL plans and documents are resolved against.
func WithMetaBaseURL(URL string) Option {
	return func(s *Service) { s.metaBaseURL = URL }
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.metaFsOptions = options }
}

// WithPlanURLs loads plans from the given files or folders into the catalog.
func WithPlanURLs(URLs ...string) Option {
	return func(s *Service) { s.planURLs = append(s.planURLs, URLs...) }
}

// WithArcDAO sets the arc record store, overriding Config.Registry.
func WithArcDAO(arcDAO dao.Service[string, arc.Record]) Option {
	return func(s *Service) { s.arcDAO = arcDAO }
}

// WithHostFactories registers extra host factories searched before the
// configured hosts.
func WithHostFactories(factories ...host.Factory) Option {
	return func(s *Service) { s.hostFactories = append(s.hostFactories, factories...) }
}

// WithArcListener receives arc lifecycle events: started, failed, stopped
// and deserialized.
func WithArcListener(handler func(*event.Event[arc.Record])) Option {
	return func(s *Service) { s.arcListener = handler }
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter. The first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
