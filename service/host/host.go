package host

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/arcs/model/arc"
	"github.com/viant/arcs/model/plan"
	"github.com/viant/arcs/service/pool"
	"github.com/viant/arcs/service/storage"
	"github.com/viant/arcs/service/storage/memory"
	"github.com/viant/arcs/service/storagekey"
	"github.com/viant/arcs/tracing"
)

// ArcHost runs arcs whose particles it accepts.
type ArcHost interface {
	ID() string
	// Start creates the arc of partition when missing and instantiates the partition plan.
	Start(ctx context.Context, partition *arc.Partition) (*Arc, error)
	// Stop disposes a running arc.
	Stop(ctx context.Context, arcID string) error
	// ArcByID returns a running arc; it panics when the arc does not exist.
	ArcByID(arcID string) *Arc
	// LookupArc returns a running arc.
	LookupArc(arcID string) (*Arc, bool)
	IsHostForParticle(particle *plan.Particle) bool
	// FindArcByParticleID returns the arc that loaded a particle, or nil.
	FindArcByParticleID(particleID string) *Arc
}

// Host is the default ArcHost.
type Host struct {
	id       string
	accepts  Predicate
	storage  storage.Service
	parser   *storagekey.Parser
	resolver *storagekey.Resolver
	loader   Loader
	pool     *pool.Pool
	logger   zerolog.Logger

	mux  sync.RWMutex
	arcs map[string]*Arc
}

// Option customises a Host.
type Option func(h *Host)

// WithStorage sets the storage service.
func WithStorage(service storage.Service) Option {
	return func(h *Host) { h.storage = service }
}

// WithParser sets the storage key parser.
func WithParser(parser *storagekey.Parser) Option {
	return func(h *Host) { h.parser = parser }
}

// WithResolver sets the resolver used for handles reaching the host without a key.
func WithResolver(resolver *storagekey.Resolver) Option {
	return func(h *Host) { h.resolver = resolver }
}

// WithLoader sets the particle loader.
func WithLoader(loader Loader) Option {
	return func(h *Host) { h.loader = loader }
}

// WithPool sets the worker pool.
func WithPool(workers *pool.Pool) Option {
	return func(h *Host) { h.pool = workers }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Host) { h.logger = logger }
}

// WithPredicate restricts the particles the host accepts.
func WithPredicate(predicate Predicate) Option {
	return func(h *Host) { h.accepts = predicate }
}

// New creates a host; unset dependencies default to in-memory ones.
func New(id string, options ...Option) *Host {
	ret := &Host{id: id, logger: zerolog.Nop(), arcs: map[string]*Arc{}}
	for _, option := range options {
		option(ret)
	}
	if ret.accepts == nil {
		ret.accepts = Any()
	}
	if ret.storage == nil {
		ret.storage = memory.New()
	}
	if ret.parser == nil {
		ret.parser = storagekey.NewParser()
	}
	if ret.loader == nil {
		ret.loader = NopLoader()
	}
	if ret.pool == nil {
		ret.pool = pool.New(pool.WithLogger(ret.logger))
	}
	return ret
}

func (h *Host) ID() string { return h.id }

func (h *Host) IsHostForParticle(particle *plan.Particle) bool {
	return h.accepts(particle)
}

// Start implements ArcHost.
func (h *Host) Start(ctx context.Context, partition *arc.Partition) (ret *Arc, err error) {
	ctx, span := tracing.StartSpan(ctx, "host.Start", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"host.id": h.id, "arc.id": partition.ArcID})

	ret = h.obtainArc(partition)
	if outerID := partition.Options.OuterArcID; outerID != "" {
		if outer, ok := h.LookupArc(outerID); ok {
			outer.AddInnerArc(ret.ID)
		}
	}
	if !partition.Plan.IsEmpty() {
		if err = ret.Instantiate(ctx, partition.Plan, partition.Reinstantiate); err != nil {
			return ret, err
		}
	}
	h.logger.Info().Str("host", h.id).Str("arc", ret.ID).Strs("particles", partition.ParticleNames()).Msg("arc started")
	return ret, nil
}

func (h *Host) obtainArc(partition *arc.Partition) *Arc {
	h.mux.Lock()
	defer h.mux.Unlock()
	if existing, ok := h.arcs[partition.ArcID]; ok {
		return existing
	}
	prefix := partition.Options.StorageKeyPrefix
	if prefix == "" {
		prefix = storagekey.ProtocolVolatile + "://" + partition.ArcID
	}
	ret := &Arc{
		ID:               partition.ArcID,
		HostID:           h.id,
		OuterArcID:       partition.Options.OuterArcID,
		StorageKeyPrefix: prefix,
		storage:          h.storage,
		parser:           h.parser,
		resolver:         h.resolver,
		loader:           h.loader,
		pool:             h.pool,
		logger:           h.logger,
		plan:             plan.New(partition.Options.PlanName),
		stores:           map[string]storage.Store{},
		particles:        map[string]Particle{},
	}
	h.arcs[ret.ID] = ret
	return ret
}

// Stop implements ArcHost.
func (h *Host) Stop(ctx context.Context, arcID string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "host.Stop", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	h.mux.Lock()
	running, ok := h.arcs[arcID]
	if ok {
		delete(h.arcs, arcID)
	}
	h.mux.Unlock()
	if !ok {
		return fmt.Errorf("%w: %v on host %v", ErrArcNotFound, arcID, h.id)
	}
	if running.OuterArcID != "" {
		if outer, ok := h.LookupArc(running.OuterArcID); ok {
			outer.RemoveInnerArc(arcID)
		}
	}
	if err = running.Dispose(ctx); err != nil {
		return fmt.Errorf("failed to dispose arc %v on host %v: %w", arcID, h.id, err)
	}
	h.logger.Info().Str("host", h.id).Str("arc", arcID).Msg("arc stopped")
	return nil
}

// ArcByID implements ArcHost.
func (h *Host) ArcByID(arcID string) *Arc {
	ret, ok := h.LookupArc(arcID)
	if !ok {
		panic(fmt.Sprintf("arc %v is not running on host %v", arcID, h.id))
	}
	return ret
}

// LookupArc implements ArcHost.
func (h *Host) LookupArc(arcID string) (*Arc, bool) {
	h.mux.RLock()
	defer h.mux.RUnlock()
	ret, ok := h.arcs[arcID]
	return ret, ok
}

// ArcIDs returns the sorted ids of running arcs.
func (h *Host) ArcIDs() []string {
	h.mux.RLock()
	defer h.mux.RUnlock()
	ret := make([]string, 0, len(h.arcs))
	for id := range h.arcs {
		ret = append(ret, id)
	}
	sort.Strings(ret)
	return ret
}

// FindArcByParticleID implements ArcHost.
func (h *Host) FindArcByParticleID(particleID string) *Arc {
	for _, arcID := range h.ArcIDs() {
		if running, ok := h.LookupArc(arcID); ok && running.HasParticle(particleID) {
			return running
		}
	}
	return nil
}

var _ ArcHost = (*Host)(nil)
