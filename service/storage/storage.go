// Package storage defines how hosts attach stores to storage keys.
package storage

import (
	"context"
	"errors"

	"github.com/viant/arcs/model/types"
	"github.com/viant/arcs/service/storagekey"
)

// ErrClosed is returned when a closed store or service is used.
var ErrClosed = errors.New("storage: closed")

// Store is an active store bound to a storage key.
type Store interface {
	Key() storagekey.StorageKey
	Type() *types.Type
	Close() error
}

// Service activates stores.
type Service interface {
	// Activate returns the store bound to key, creating it on first use.
	Activate(ctx context.Context, key storagekey.StorageKey, aType *types.Type) (Store, error)
}
