package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/arcs/internal/mutex"
	"github.com/viant/arcs/model/plan"
	"github.com/viant/arcs/service/pool"
	"github.com/viant/arcs/service/storage"
	"github.com/viant/arcs/service/storagekey"
)

// Arc is an arc running on a host.
type Arc struct {
	ID               string
	HostID           string
	OuterArcID       string
	StorageKeyPrefix string

	storage  storage.Service
	parser   *storagekey.Parser
	resolver *storagekey.Resolver
	loader   Loader
	pool     *pool.Pool
	logger   zerolog.Logger

	instantiate mutex.Mutex
	mux         sync.RWMutex
	worker      *pool.Entry
	plan        *plan.Plan
	stores      map[string]storage.Store
	particles   map[string]Particle
	innerArcIDs []string
	disposed    bool
}

// Plan returns the plan accumulated from every instantiation.
func (a *Arc) Plan() *plan.Plan {
	a.mux.RLock()
	defer a.mux.RUnlock()
	return a.plan
}

// Store returns the store attached to a handle, by handle id or name.
func (a *Arc) Store(handleKey string) (storage.Store, bool) {
	a.mux.RLock()
	defer a.mux.RUnlock()
	ret, ok := a.stores[handleKey]
	return ret, ok
}

// Particles returns the sorted names of loaded particles.
func (a *Arc) Particles() []string {
	a.mux.RLock()
	defer a.mux.RUnlock()
	ret := make([]string, 0, len(a.particles))
	for name := range a.particles {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// HasParticle reports whether a particle is loaded.
func (a *Arc) HasParticle(name string) bool {
	a.mux.RLock()
	defer a.mux.RUnlock()
	_, ok := a.particles[name]
	return ok
}

// AddInnerArc links an inner arc by id.
func (a *Arc) AddInnerArc(arcID string) {
	a.mux.Lock()
	defer a.mux.Unlock()
	for _, candidate := range a.innerArcIDs {
		if candidate == arcID {
			return
		}
	}
	a.innerArcIDs = append(a.innerArcIDs, arcID)
}

// RemoveInnerArc unlinks an inner arc.
func (a *Arc) RemoveInnerArc(arcID string) {
	a.mux.Lock()
	defer a.mux.Unlock()
	for i, candidate := range a.innerArcIDs {
		if candidate == arcID {
			a.innerArcIDs = append(a.innerArcIDs[:i], a.innerArcIDs[i+1:]...)
			return
		}
	}
}

// InnerArcIDs returns linked inner arc ids.
func (a *Arc) InnerArcIDs() []string {
	a.mux.RLock()
	defer a.mux.RUnlock()
	return append([]string(nil), a.innerArcIDs...)
}

// Instantiate attaches stores for the handles of aPlan, merges it into the
// arc plan and loads its particles on the arc worker. Calls are serialized
// in arrival order. With reinstantiate, particles already loaded are kept.
func (a *Arc) Instantiate(ctx context.Context, aPlan *plan.Plan, reinstantiate bool) error {
	release := a.instantiate.Acquire()
	defer release()
	if a.isDisposed() {
		return fmt.Errorf("arc %v was disposed", a.ID)
	}
	if err := a.attachStores(ctx, aPlan); err != nil {
		return err
	}
	a.mux.Lock()
	err := aPlan.MergeInto(a.plan)
	a.mux.Unlock()
	if err != nil {
		return fmt.Errorf("failed to merge plan %v into arc %v: %w", aPlan.Name, a.ID, err)
	}
	if len(aPlan.Particles) == 0 {
		return nil
	}
	worker, err := a.ensureWorker(ctx)
	if err != nil {
		return err
	}
	for _, particle := range aPlan.Particles {
		if a.HasParticle(particle.Name) {
			if reinstantiate {
				continue
			}
			return fmt.Errorf("%w: %v in arc %v", ErrParticleLoaded, particle.Name, a.ID)
		}
		particle := particle
		err := worker.Submit(ctx, "load "+particle.Name, func(ctx context.Context) error {
			loaded, err := a.loader.Load(ctx, particle, a)
			if err != nil {
				return err
			}
			a.mux.Lock()
			a.particles[particle.Name] = loaded
			a.mux.Unlock()
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to load particle %v (%v) in arc %v: %w", particle.Name, particle.Location, a.ID, err)
		}
		a.logger.Debug().Str("arc", a.ID).Str("particle", particle.Name).Msg("particle loaded")
	}
	return nil
}

func (a *Arc) ensureWorker(ctx context.Context) (*pool.Worker, error) {
	a.mux.Lock()
	defer a.mux.Unlock()
	if a.worker == nil {
		entry, err := a.pool.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire worker for arc %v: %w", a.ID, err)
		}
		a.worker = entry
	}
	return a.worker.Worker, nil
}

func (a *Arc) attachStores(ctx context.Context, aPlan *plan.Plan) error {
	for _, handle := range aPlan.Handles {
		if handle.ImmediateValue || handle.Fate == plan.FateUnknown {
			continue
		}
		if handle.StorageKey == "" && handle.Fate.NeedsStorageKey() && a.resolver != nil {
			if handle.ID == "" {
				handle.ID = handle.Name
			}
			key, err := a.resolver.CreateStorageKey(ctx, a.ID, handle.Capabilities, handle.Type, handle.ID)
			if err != nil {
				return err
			}
			handle.StorageKey = key.String()
			handle.Fate = plan.FateUse
		}
		if handle.StorageKey == "" {
			return fmt.Errorf("%w: handle %v in arc %v", ErrMissingStorageKey, handle.Key(), a.ID)
		}
		key, err := a.parser.Parse(handle.StorageKey)
		if err != nil {
			return fmt.Errorf("invalid storage key of handle %v: %w", handle.Key(), err)
		}
		if existing, ok := a.Store(handle.Key()); ok && existing.Key().String() == key.String() {
			continue
		}
		store, err := a.storage.Activate(ctx, key, handle.Type)
		if err != nil {
			return fmt.Errorf("failed to activate store %v for handle %v: %w", key, handle.Key(), err)
		}
		a.mux.Lock()
		a.stores[handle.Key()] = store
		if handle.Name != "" {
			a.stores[handle.Name] = store
		}
		a.mux.Unlock()
	}
	return nil
}

func (a *Arc) isDisposed() bool {
	a.mux.RLock()
	defer a.mux.RUnlock()
	return a.disposed
}

// Dispose stops the particles, closes arc scoped stores and returns the
// worker to the pool.
func (a *Arc) Dispose(ctx context.Context) error {
	release := a.instantiate.Acquire()
	defer release()
	a.mux.Lock()
	if a.disposed {
		a.mux.Unlock()
		return nil
	}
	a.disposed = true
	particles := a.particles
	stores := a.stores
	worker := a.worker
	a.particles = map[string]Particle{}
	a.stores = map[string]storage.Store{}
	a.worker = nil
	a.mux.Unlock()

	var errs []error
	for name, particle := range particles {
		if err := particle.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop particle %v: %w", name, err))
		}
	}
	closed := map[string]bool{}
	for _, store := range stores {
		key := store.Key()
		if key.Protocol() != storagekey.ProtocolVolatile || closed[key.String()] {
			continue
		}
		closed[key.String()] = true
		if err := store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if worker != nil {
		a.pool.Suspend(worker.Worker)
	}
	return errors.Join(errs...)
}
