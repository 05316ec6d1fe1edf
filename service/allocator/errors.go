package allocator

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedPlan is returned when a plan can't be instantiated as is.
	ErrUnresolvedPlan = errors.New("allocator: unresolved plan")

	// ErrArcExists is returned when deserializing an arc that is already registered.
	ErrArcExists = errors.New("allocator: arc already exists")

	// ErrArcNotFound is returned when an arc is not registered.
	ErrArcNotFound = errors.New("allocator: arc not found")

	// ErrHostNotFound is returned when a partition refers to an unknown host.
	ErrHostNotFound = errors.New("allocator: host not found")

	// ErrPlanNotFound is returned when a named plan is missing from the catalog.
	ErrPlanNotFound = errors.New("allocator: plan not found")

	// ErrUnroutableParticle is the sentinel wrapped by UnroutableParticleError.
	ErrUnroutableParticle = errors.New("allocator: unroutable particle")
)

// UnroutableParticleError reports a particle no registered factory accepts.
type UnroutableParticleError struct {
	ArcID    string
	Particle string
	Location string
}

func (e *UnroutableParticleError) Error() string {
	return fmt.Sprintf("no host factory accepts particle %v (%v) in arc %v", e.Particle, e.Location, e.ArcID)
}

func (e *UnroutableParticleError) Unwrap() error { return ErrUnroutableParticle }
