package arcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/arcs/model/arc"
	"github.com/viant/arcs/service/allocator"
	"github.com/viant/arcs/service/dao"
	fsdao "github.com/viant/arcs/service/dao/arc/fs"
	"github.com/viant/arcs/service/dao/arc/memory"
	"github.com/viant/arcs/service/dao/plan"
	"github.com/viant/arcs/service/event"
	"github.com/viant/arcs/service/host"
	"github.com/viant/arcs/service/meta"
	"github.com/viant/arcs/service/pool"
	smemory "github.com/viant/arcs/service/storage/memory"
	"github.com/viant/arcs/service/storagekey"
	"github.com/viant/arcs/tracing"
)

// Service wires the storage key resolver, worker pool, hosts, plan catalog
// and arc registry into an allocator.
type Service struct {
	config        *Config
	logger        zerolog.Logger
	metaService   *meta.Service
	metaBaseURL   string
	metaFsOptions []storage.Option
	planURLs      []string
	loader        host.Loader
	arcDAO        dao.Service[string, arc.Record]
	hostFactories []host.Factory
	arcListener   func(*event.Event[arc.Record])

	resolver  *storagekey.Resolver
	workers   *pool.Pool
	storage   *smemory.Service
	hosts     []*host.Host
	catalog   *plan.Catalog
	events    *event.Service
	allocator *allocator.Service
	runtime   *Runtime
}

// New creates a service.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig(), logger: zerolog.Nop()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if tracingConfig := s.config.Tracing; tracingConfig.Service != "" {
		if err := tracing.Init(tracingConfig.Service, tracingConfig.Version, tracingConfig.Output); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if err := s.initResolver(); err != nil {
		return err
	}
	if err := s.initPool(ctx); err != nil {
		return err
	}
	if s.loader == nil {
		s.loader = host.NopLoader()
	}
	s.storage = smemory.New()
	if err := s.initArcDAO(); err != nil {
		return err
	}
	s.catalog = plan.New(s.metaService)
	for _, URL := range s.planURLs {
		if err := s.catalog.Load(ctx, URL); err != nil {
			return err
		}
	}

	factories := append([]host.Factory(nil), s.hostFactories...)
	hostConfigs := s.config.Hosts
	if len(hostConfigs) == 0 {
		hostConfigs = []*HostConfig{{ID: DefaultHostID}}
	}
	for _, hostConfig := range hostConfigs {
		predicate := host.Any()
		if len(hostConfig.Prefixes) > 0 {
			predicate = host.ByLocationPrefix(hostConfig.Prefixes...)
		}
		arcHost := host.New(hostConfig.ID,
			host.WithStorage(s.storage),
			host.WithResolver(s.resolver),
			host.WithLoader(s.loader),
			host.WithPool(s.workers),
			host.WithPredicate(predicate),
			host.WithLogger(s.logger.With().Str("host", hostConfig.ID).Logger()),
		)
		s.hosts = append(s.hosts, arcHost)
		factories = append(factories, host.SingletonFactory(arcHost))
	}

	allocatorOptions := []allocator.Option{
		allocator.WithResolver(s.resolver),
		allocator.WithCatalog(s.catalog),
		allocator.WithArcDAO(s.arcDAO),
		allocator.WithDefaultHost(s.hosts[0]),
		allocator.WithHostFactories(factories...),
		allocator.WithLogger(s.logger),
	}
	if s.arcListener != nil {
		s.events = event.New(event.WithLogger(s.logger))
		event.SetListenerOf[arc.Record](s.events, s.arcListener)
		allocatorOptions = append(allocatorOptions, allocator.WithPublisher(event.PublisherOf[arc.Record](s.events)))
	}
	var err error
	if s.allocator, err = allocator.New(allocatorOptions...); err != nil {
		return err
	}
	s.runtime = &Runtime{service: s}
	return nil
}

func (s *Service) initResolver() error {
	dbName := s.config.StorageKeys.DBName
	registry, err := storagekey.NewRegistry(
		storagekey.NewVolatileFactory(),
		storagekey.NewRamDiskFactory(),
		storagekey.NewMemoryDatabaseFactory(dbName),
		storagekey.NewDatabaseFactory(dbName),
	)
	if err != nil {
		return err
	}
	s.resolver = storagekey.NewResolver(registry,
		storagekey.WithSelector(storagekey.NewPreferenceSelector(s.config.StorageKeys.Preference...)),
		storagekey.WithReferenceMode(s.config.StorageKeys.ReferenceMode),
		storagekey.WithLogger(s.logger),
	)
	return nil
}

func (s *Service) initPool(ctx context.Context) error {
	poolConfig := s.config.Pool
	policy, err := pool.NewPolicy(poolConfig.Policy, poolConfig.Cap, poolConfig.Weight, s.logger)
	if err != nil {
		return err
	}
	s.workers = pool.New(pool.WithCap(poolConfig.Cap), pool.WithPolicy(policy), pool.WithLogger(s.logger))
	if poolConfig.Initial > 0 {
		if _, err = s.workers.Resize(ctx, poolConfig.Initial); err != nil {
			return fmt.Errorf("failed to pre-spawn workers: %w", err)
		}
	}
	return nil
}

func (s *Service) initArcDAO() error {
	if s.arcDAO != nil {
		return nil
	}
	if s.config.Registry.URL == "" {
		s.arcDAO = memory.New()
		return nil
	}
	fsDAO, err := fsdao.New(s.config.Registry.URL, fsdao.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.arcDAO = fsDAO
	return nil
}

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.config }

// Runtime returns the runtime façade.
func (s *Service) Runtime() *Runtime { return s.runtime }

// Allocator returns the allocator.
func (s *Service) Allocator() *allocator.Service { return s.allocator }

// Resolver returns the storage key resolver.
func (s *Service) Resolver() *storagekey.Resolver { return s.resolver }

// Pool returns the worker pool shared by the configured hosts.
func (s *Service) Pool() *pool.Pool { return s.workers }

// Hosts returns the configured hosts in search order.
func (s *Service) Hosts() []*host.Host { return append([]*host.Host(nil), s.hosts...) }

// Shutdown stops every running arc, terminates the workers and drains
// pending arc events.
func (s *Service) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, arcID := range s.allocator.Arcs() {
		info, ok := s.allocator.ArcInfo(arcID)
		if !ok {
			continue
		}
		if _, hasOuter := s.allocator.ArcInfo(info.OuterArcID); hasOuter {
			continue
		}
		if err := s.allocator.StopArc(ctx, arcID); err != nil && !errors.Is(err, allocator.ErrArcNotFound) && firstErr == nil {
			firstErr = err
		}
	}
	s.workers.Clear()
	if s.events != nil {
		if err := s.events.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
