package host

import (
	"strings"

	"github.com/viant/arcs/model/plan"
)

// Predicate decides whether a particle may run on a host.
type Predicate func(particle *plan.Particle) bool

// Any accepts every particle.
func Any() Predicate {
	return func(particle *plan.Particle) bool { return true }
}

// ByLocationPrefix accepts particles whose location starts with any prefix.
func ByLocationPrefix(prefixes ...string) Predicate {
	return func(particle *plan.Particle) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(particle.Location, prefix) {
				return true
			}
		}
		return false
	}
}

// ByLocation accepts particles with one of the listed locations.
func ByLocation(locations ...string) Predicate {
	return func(particle *plan.Particle) bool {
		for _, location := range locations {
			if particle.Location == location {
				return true
			}
		}
		return false
	}
}

// Factory manufactures hosts for the particles it accepts.
type Factory interface {
	IsHostForParticle(particle *plan.Particle) bool
	CreateHost() ArcHost
}

type factory struct {
	predicate Predicate
	newHost   func() ArcHost
}

func (f *factory) IsHostForParticle(particle *plan.Particle) bool { return f.predicate(particle) }

func (f *factory) CreateHost() ArcHost { return f.newHost() }

// NewFactory creates a factory calling newHost on every CreateHost.
func NewFactory(predicate Predicate, newHost func() ArcHost) Factory {
	return &factory{predicate: predicate, newHost: newHost}
}

type singleton struct {
	host ArcHost
}

func (s *singleton) IsHostForParticle(particle *plan.Particle) bool {
	return s.host.IsHostForParticle(particle)
}

func (s *singleton) CreateHost() ArcHost { return s.host }

// SingletonFactory always returns host and accepts what host accepts.
func SingletonFactory(host ArcHost) Factory {
	return &singleton{host: host}
}
