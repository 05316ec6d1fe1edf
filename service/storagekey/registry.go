package storagekey

import (
	"fmt"
	"sync"
)

// Registry holds one factory per protocol in registration order.
type Registry struct {
	mux       sync.RWMutex
	factories []Factory
}

// NewRegistry creates a registry with the supplied factories.
func NewRegistry(factories ...Factory) (*Registry, error) {
	ret := &Registry{}
	for _, f := range factories {
		if err := ret.Register(f); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// Register adds a factory; a second factory for the same protocol is rejected.
func (r *Registry) Register(f Factory) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, candidate := range r.factories {
		if candidate.Protocol() == f.Protocol() {
			return fmt.Errorf("%w: %v", ErrDuplicateProtocol, f.Protocol())
		}
	}
	r.factories = append(r.factories, f)
	return nil
}

// Lookup returns the factory of a protocol.
func (r *Registry) Lookup(protocol string) (Factory, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	for _, candidate := range r.factories {
		if candidate.Protocol() == protocol {
			return candidate, true
		}
	}
	return nil, false
}

// Factories returns a snapshot in registration order.
func (r *Registry) Factories() []Factory {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return append([]Factory(nil), r.factories...)
}

// Reset removes every registration.
func (r *Registry) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.factories = nil
}
