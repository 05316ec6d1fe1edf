package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/arcs/model/types"
	"github.com/viant/arcs/service/storage"
	"github.com/viant/arcs/service/storagekey"
)

// Store keeps entities in memory.
type Store struct {
	key      storagekey.StorageKey
	aType    *types.Type
	service  *Service
	mux      sync.RWMutex
	entities map[string]interface{}
	closed   bool
}

func (s *Store) Key() storagekey.StorageKey { return s.key }

func (s *Store) Type() *types.Type { return s.aType }

// Put stores an entity by id.
func (s *Store) Put(id string, entity interface{}) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.entities[id] = entity
	return nil
}

// Get returns an entity by id.
func (s *Store) Get(id string) (interface{}, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret, ok := s.entities[id]
	return ret, ok
}

// Len returns the number of entities.
func (s *Store) Len() int {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return len(s.entities)
}

// Close detaches the store from its service.
func (s *Store) Close() error {
	s.mux.Lock()
	if s.closed {
		s.mux.Unlock()
		return nil
	}
	s.closed = true
	s.mux.Unlock()
	s.service.remove(s.key.String())
	return nil
}

// Service keeps active stores by key; activating an active key returns the
// existing store.
type Service struct {
	mux    sync.Mutex
	stores map[string]*Store
}

// New creates an in-memory storage service.
func New() *Service {
	return &Service{stores: map[string]*Store{}}
}

// Activate implements storage.Service.
func (s *Service) Activate(ctx context.Context, key storagekey.StorageKey, aType *types.Type) (storage.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == nil {
		return nil, fmt.Errorf("storage key was nil")
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if existing, ok := s.stores[key.String()]; ok {
		return existing, nil
	}
	ret := &Store{key: key, aType: aType, service: s, entities: map[string]interface{}{}}
	s.stores[key.String()] = ret
	return ret, nil
}

// Lookup returns the active store of key.
func (s *Service) Lookup(key string) (*Store, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()
	ret, ok := s.stores[key]
	return ret, ok
}

// Len returns the number of active stores.
func (s *Service) Len() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.stores)
}

func (s *Service) remove(key string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.stores, key)
}

var _ storage.Service = (*Service)(nil)
