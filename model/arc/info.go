// Package arc holds the allocator's bookkeeping for arcs: their identity,
// the partitions their plans were split into and the nesting of inner arcs.
package arc

import (
	"fmt"
	"sync"
	"time"

	"github.com/viant/arcs/internal/clock"
	"github.com/viant/arcs/internal/idgen"
	"github.com/viant/arcs/internal/mutex"
	"github.com/viant/arcs/model/plan"
)

// Info is the identity and mutable state of one arc. Inner arcs are owned by
// id; the outer arc is referenced by id only.
type Info struct {
	ID         string
	OuterArcID string
	StorageKey string
	Generator  *idgen.Generator
	CreatedAt  time.Time

	mux         sync.RWMutex
	partitions  []*Partition
	innerArcIDs []string
	stores      map[string]*StoreInfo
	storeTags   map[string][]string
	activePlan  *plan.Plan
	instantiate mutex.Mutex
}

// NewInfo creates arc info; a nil generator starts a new session.
func NewInfo(id string, generator *idgen.Generator) *Info {
	if generator == nil {
		generator = idgen.NewSession()
	}
	return &Info{
		ID:         id,
		Generator:  generator,
		CreatedAt:  clock.Now(),
		stores:     map[string]*StoreInfo{},
		storeTags:  map[string][]string{},
		activePlan: plan.New(""),
	}
}

// GenerateID returns a new id scoped to this arc.
func (i *Info) GenerateID(component string) string {
	return i.Generator.NewChildID(i.ID, component)
}

// AddPartition appends a partition.
func (i *Info) AddPartition(partition *Partition) {
	i.mux.Lock()
	defer i.mux.Unlock()
	i.partitions = append(i.partitions, partition)
}

// Partitions returns a snapshot of the partitions in creation order.
func (i *Info) Partitions() []*Partition {
	i.mux.RLock()
	defer i.mux.RUnlock()
	return append([]*Partition(nil), i.partitions...)
}

// AddInnerArc records an inner arc id; duplicates are ignored.
func (i *Info) AddInnerArc(arcID string) {
	i.mux.Lock()
	defer i.mux.Unlock()
	for _, candidate := range i.innerArcIDs {
		if candidate == arcID {
			return
		}
	}
	i.innerArcIDs = append(i.innerArcIDs, arcID)
}

// RemoveInnerArc forgets an inner arc id.
func (i *Info) RemoveInnerArc(arcID string) {
	i.mux.Lock()
	defer i.mux.Unlock()
	for idx, candidate := range i.innerArcIDs {
		if candidate == arcID {
			i.innerArcIDs = append(i.innerArcIDs[:idx], i.innerArcIDs[idx+1:]...)
			return
		}
	}
}

// InnerArcIDs returns a snapshot of the inner arc ids.
func (i *Info) InnerArcIDs() []string {
	i.mux.RLock()
	defer i.mux.RUnlock()
	return append([]string(nil), i.innerArcIDs...)
}

// RegisterStore records a store created on the arc along with its tags.
func (i *Info) RegisterStore(store *StoreInfo, tags ...string) error {
	i.mux.Lock()
	defer i.mux.Unlock()
	if _, ok := i.stores[store.ID]; ok {
		return fmt.Errorf("store already registered %q", store.ID)
	}
	i.stores[store.ID] = store
	i.storeTags[store.ID] = append([]string(nil), tags...)
	return nil
}

// Store returns a registered store.
func (i *Info) Store(id string) *StoreInfo {
	i.mux.RLock()
	defer i.mux.RUnlock()
	return i.stores[id]
}

// StoreTags returns tags of a registered store.
func (i *Info) StoreTags(id string) []string {
	i.mux.RLock()
	defer i.mux.RUnlock()
	return append([]string(nil), i.storeTags[id]...)
}

// Stores returns all registered stores.
func (i *Info) Stores() []*StoreInfo {
	i.mux.RLock()
	defer i.mux.RUnlock()
	ret := make([]*StoreInfo, 0, len(i.stores))
	for _, store := range i.stores {
		ret = append(ret, store)
	}
	return ret
}

// ActivePlan returns the plan accumulated from every instantiation.
func (i *Info) ActivePlan() *plan.Plan {
	i.mux.RLock()
	defer i.mux.RUnlock()
	return i.activePlan
}

// Merge adds a plan to the active plan. Calls are serialized in FIFO order.
func (i *Info) Merge(aPlan *plan.Plan) error {
	release := i.instantiate.Acquire()
	defer release()
	i.mux.Lock()
	defer i.mux.Unlock()
	return aPlan.MergeInto(i.activePlan)
}

// Record returns the persistable view of the arc.
func (i *Info) Record() *Record {
	i.mux.RLock()
	defer i.mux.RUnlock()
	ret := &Record{
		ID:          i.ID,
		OuterArcID:  i.OuterArcID,
		StorageKey:  i.StorageKey,
		Session:     i.Generator.Session(),
		InnerArcIDs: append([]string(nil), i.innerArcIDs...),
		CreatedAt:   i.CreatedAt,
	}
	for _, partition := range i.partitions {
		ret.Partitions = append(ret.Partitions, &PartitionRecord{
			HostID:        partition.HostID,
			Particles:     partition.ParticleNames(),
			Reinstantiate: partition.Reinstantiate,
		})
	}
	return ret
}

// TagHandle appends tags to the active plan handle with id or name key,
// skipping tags already present. It reports whether the handle was found.
func (i *Info) TagHandle(key string, tags ...string) bool {
	i.mux.Lock()
	defer i.mux.Unlock()
	handle := i.activePlan.HandleByID(key)
	if handle == nil {
		handle = i.activePlan.HandleByName(key)
	}
	if handle == nil {
		return false
	}
	for _, tag := range tags {
		if !handle.HasTag(tag) {
			handle.Tags = append(handle.Tags, tag)
		}
	}
	return true
}
