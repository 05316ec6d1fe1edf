package host

import "errors"

var (
	// ErrArcNotFound is returned when an arc is not running on a host.
	ErrArcNotFound = errors.New("host: arc not found")

	// ErrParticleLoaded is returned when a particle is instantiated twice
	// without reinstantiation.
	ErrParticleLoaded = errors.New("host: particle already loaded")

	// ErrMissingStorageKey is returned when a handle that needs a store has no key.
	ErrMissingStorageKey = errors.New("host: missing storage key")
)
