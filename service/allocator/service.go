package allocator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/arcs/internal/idgen"
	"github.com/viant/arcs/model/arc"
	aplan "github.com/viant/arcs/model/plan"
	"github.com/viant/arcs/service/dao"
	"github.com/viant/arcs/service/dao/arc/memory"
	"github.com/viant/arcs/service/dao/plan"
	"github.com/viant/arcs/service/event"
	"github.com/viant/arcs/service/host"
	"github.com/viant/arcs/service/storagekey"
	"github.com/viant/arcs/tracing"
	"golang.org/x/sync/errgroup"
)

// Service is the allocator.
type Service struct {
	resolver    *storagekey.Resolver
	catalog     *plan.Catalog
	arcDAO      dao.Service[string, arc.Record]
	generator   *idgen.Generator
	defaultHost host.ArcHost
	publisher   *event.Publisher[arc.Record]
	logger      zerolog.Logger

	mux       sync.RWMutex
	factories []host.Factory
	hosts     map[string]host.ArcHost
	arcs      map[string]*arc.Info
}

// New creates an allocator. Without a resolver every built-in storage key
// factory is registered.
func New(options ...Option) (*Service, error) {
	ret := &Service{logger: zerolog.Nop(), hosts: map[string]host.ArcHost{}, arcs: map[string]*arc.Info{}}
	for _, option := range options {
		option(ret)
	}
	if ret.resolver == nil {
		registry, err := storagekey.NewRegistry(
			storagekey.NewVolatileFactory(),
			storagekey.NewRamDiskFactory(),
			storagekey.NewMemoryDatabaseFactory(""),
			storagekey.NewDatabaseFactory(""),
		)
		if err != nil {
			return nil, err
		}
		ret.resolver = storagekey.NewResolver(registry, storagekey.WithLogger(ret.logger))
	}
	if ret.catalog == nil {
		ret.catalog = plan.New(nil)
	}
	if ret.arcDAO == nil {
		ret.arcDAO = memory.New()
	}
	if ret.generator == nil {
		ret.generator = idgen.NewSession()
	}
	return ret, nil
}

// RegisterArcHost adds a host factory; factories are searched in
// registration order and the first one accepting a particle wins.
func (s *Service) RegisterArcHost(factory host.Factory) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.factories = append(s.factories, factory)
}

// Catalog returns the plan catalog.
func (s *Service) Catalog() *plan.Catalog { return s.catalog }

// Resolver returns the storage key resolver.
func (s *Service) Resolver() *storagekey.Resolver { return s.resolver }

// NewArc returns the info of options.ArcID, creating and registering it when
// missing. An arc with an outer arc is linked as its inner arc.
func (s *Service) NewArc(ctx context.Context, options arc.Options) (*arc.Info, error) {
	generator := options.Generator
	if generator == nil {
		generator = s.generator
	}
	arcID := options.ArcID
	if arcID == "" {
		arcID = generator.NewArcID(options.ArcName)
	}
	s.mux.Lock()
	if existing, ok := s.arcs[arcID]; ok {
		s.mux.Unlock()
		return existing, nil
	}
	info := arc.NewInfo(arcID, generator)
	info.OuterArcID = options.OuterArcID
	s.arcs[arcID] = info
	outer := s.arcs[options.OuterArcID]
	s.mux.Unlock()
	if outer != nil {
		outer.AddInnerArc(arcID)
		s.persist(ctx, outer)
	}
	s.persist(ctx, info)
	return info, nil
}

// StartArc obtains or creates the arc of options and runs the requested
// plan, or the only catalog plan when none is named.
func (s *Service) StartArc(ctx context.Context, options arc.Options) (info *arc.Info, err error) {
	ctx, span := tracing.StartSpan(ctx, "allocator.StartArc", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	if info, err = s.NewArc(ctx, options); err != nil {
		return nil, err
	}
	span.WithAttributes(map[string]string{"arc.id": info.ID})
	aPlan, err := s.requestedPlan(options.PlanName)
	if err != nil || aPlan == nil {
		return info, err
	}
	options.ArcID = info.ID
	if _, err = s.RunPlanInArc(ctx, info, aPlan, options, false); err != nil {
		return info, err
	}
	return info, nil
}

func (s *Service) requestedPlan(name string) (*aplan.Plan, error) {
	if name == "" {
		if all := s.catalog.All(); len(all) == 1 {
			return all[0], nil
		}
		return nil, nil
	}
	ret, ok := s.catalog.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrPlanNotFound, name)
	}
	return ret, nil
}

type group struct {
	factory   host.Factory
	particles []string
}

// RunPlanInArc partitions aPlan across host factories, assigns storage keys
// and starts every partition concurrently. Partitions started before a
// failure keep running.
func (s *Service) RunPlanInArc(ctx context.Context, info *arc.Info, aPlan *aplan.Plan, options arc.Options, reinstantiate bool) (ret []*host.Arc, err error) {
	ctx, span := tracing.StartSpan(ctx, "allocator.RunPlanInArc", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"arc.id": info.ID, "plan.name": aPlan.Name})

	resolved, err := s.ResolvePlan(ctx, info.ID, aPlan)
	if err != nil {
		return nil, err
	}
	groups, err := s.partition(info.ID, resolved)
	if err != nil {
		return nil, err
	}
	keyed, err := s.AssignStorageKeys(ctx, info.ID, resolved, info.Generator)
	if err != nil {
		return nil, err
	}
	keyed.ArcID = info.ID
	options.ArcID = info.ID
	if options.OuterArcID == "" {
		options.OuterArcID = info.OuterArcID
	}
	if options.PlanName == "" {
		options.PlanName = keyed.Name
	}

	ret = make([]*host.Arc, len(groups))
	var starts errgroup.Group
	for i, g := range groups {
		i, g := i, g
		starts.Go(func() error {
			arcHost := s.registerHost(g.factory.CreateHost())
			partition := &arc.Partition{
				HostID:        arcHost.ID(),
				ArcID:         info.ID,
				Plan:          keyed.Restrict(g.particles...),
				Options:       options,
				Reinstantiate: reinstantiate,
			}
			info.AddPartition(partition)
			running, err := arcHost.Start(ctx, partition)
			if err != nil {
				return fmt.Errorf("failed to start arc %v on host %v: %w", info.ID, arcHost.ID(), err)
			}
			ret[i] = running
			return nil
		})
	}
	if err = starts.Wait(); err != nil {
		s.logger.Error().Err(err).Str("arc", info.ID).Msg("plan partially started, started partitions are not rolled back")
		s.persist(ctx, info)
		s.notify(ctx, info, event.TypeArcFailed, keyed.Name, err)
		return nil, err
	}
	if err = info.Merge(keyed); err != nil {
		return nil, err
	}
	s.persist(ctx, info)
	s.notify(ctx, info, event.TypeArcStarted, keyed.Name, nil)
	span.WithInt("partitions", len(groups))
	s.logger.Info().Str("arc", info.ID).Str("plan", keyed.Name).Int("partitions", len(groups)).Msg("plan started")
	return ret, nil
}

// partition groups particles by the first factory accepting them,
// preserving first appearance order.
func (s *Service) partition(arcID string, aPlan *aplan.Plan) ([]*group, error) {
	s.mux.RLock()
	factories := append([]host.Factory(nil), s.factories...)
	s.mux.RUnlock()
	var groups []*group
	byFactory := map[int]*group{}
	for _, particle := range aPlan.Particles {
		index := -1
		for i, factory := range factories {
			if factory.IsHostForParticle(particle) {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, &UnroutableParticleError{ArcID: arcID, Particle: particle.Name, Location: particle.Location}
		}
		g, ok := byFactory[index]
		if !ok {
			g = &group{factory: factories[index]}
			byFactory[index] = g
			groups = append(groups, g)
		}
		g.particles = append(g.particles, particle.Name)
	}
	return groups, nil
}

// registerHost returns the registered host with the same id, registering
// arcHost when there is none.
func (s *Service) registerHost(arcHost host.ArcHost) host.ArcHost {
	s.mux.Lock()
	defer s.mux.Unlock()
	if existing, ok := s.hosts[arcHost.ID()]; ok {
		return existing
	}
	s.hosts[arcHost.ID()] = arcHost
	return arcHost
}

// StopArc stops inner arcs depth-first, then the arc on every host it was
// partitioned to, and unregisters it.
func (s *Service) StopArc(ctx context.Context, arcID string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "allocator.StopArc", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"arc.id": arcID})

	info, ok := s.ArcInfo(arcID)
	if !ok {
		return fmt.Errorf("%w: %v", ErrArcNotFound, arcID)
	}
	for _, innerID := range info.InnerArcIDs() {
		if err = s.StopArc(ctx, innerID); err != nil && !errors.Is(err, ErrArcNotFound) {
			return err
		}
	}
	stopped := map[string]bool{}
	for _, partition := range info.Partitions() {
		if stopped[partition.HostID] {
			continue
		}
		stopped[partition.HostID] = true
		arcHost, ok := s.LookupHost(partition.HostID)
		if !ok {
			return fmt.Errorf("%w: %v for arc %v", ErrHostNotFound, partition.HostID, arcID)
		}
		if err = arcHost.Stop(ctx, arcID); err != nil && !errors.Is(err, host.ErrArcNotFound) {
			return err
		}
	}
	s.mux.Lock()
	delete(s.arcs, arcID)
	outer := s.arcs[info.OuterArcID]
	s.mux.Unlock()
	if outer != nil {
		outer.RemoveInnerArc(arcID)
		s.persist(ctx, outer)
	}
	if err = s.arcDAO.Delete(ctx, arcID); err != nil && !errors.Is(err, dao.ErrNotFound) {
		s.logger.Warn().Err(err).Str("arc", arcID).Msg("failed to delete arc record")
	}
	s.notify(ctx, info, event.TypeArcStopped, "", nil)
	s.logger.Info().Str("arc", arcID).Msg("arc stopped")
	return nil
}

// ArcInfo returns a registered arc.
func (s *Service) ArcInfo(arcID string) (*arc.Info, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret, ok := s.arcs[arcID]
	return ret, ok
}

// Arcs returns the ids of registered arcs.
func (s *Service) Arcs() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]string, 0, len(s.arcs))
	for id := range s.arcs {
		ret = append(ret, id)
	}
	return ret
}

// Partitions returns the partitions of an arc.
func (s *Service) Partitions(arcID string) []*arc.Partition {
	info, ok := s.ArcInfo(arcID)
	if !ok {
		return nil
	}
	return info.Partitions()
}

// LookupHost returns a registered host.
func (s *Service) LookupHost(hostID string) (host.ArcHost, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret, ok := s.hosts[hostID]
	return ret, ok
}

// Records lists persisted arc records.
func (s *Service) Records(ctx context.Context, parameters ...*dao.Parameter) ([]*arc.Record, error) {
	return s.arcDAO.List(ctx, parameters...)
}

func (s *Service) persist(ctx context.Context, info *arc.Info) {
	if err := s.arcDAO.Save(ctx, info.Record()); err != nil {
		s.logger.Warn().Err(err).Str("arc", info.ID).Msg("failed to persist arc record")
	}
}

func (s *Service) notify(ctx context.Context, info *arc.Info, eventType, planName string, cause error) {
	if s.publisher == nil {
		return
	}
	eventContext := &event.Context{ArcID: info.ID, PlanName: planName, EventType: eventType}
	if cause != nil {
		eventContext.Error = cause.Error()
	}
	if err := s.publisher.Publish(ctx, event.NewEvent(eventContext, *info.Record())); err != nil {
		s.logger.Warn().Err(err).Str("arc", info.ID).Str("event", eventType).Msg("failed to publish arc event")
	}
}
