package host

import (
	"context"
	"sync/atomic"

	"github.com/viant/arcs/model/plan"
)

// Particle is a loaded, running particle.
type Particle interface {
	Name() string
	Stop(ctx context.Context) error
}

// Loader loads particle implementations into an arc.
type Loader interface {
	Load(ctx context.Context, particle *plan.Particle, arc *Arc) (Particle, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, particle *plan.Particle, arc *Arc) (Particle, error)

func (f LoaderFunc) Load(ctx context.Context, particle *plan.Particle, arc *Arc) (Particle, error) {
	return f(ctx, particle, arc)
}

// loaded is a particle with no behaviour of its own.
type loaded struct {
	name    string
	stopped atomic.Bool
}

func (p *loaded) Name() string { return p.name }

func (p *loaded) Stop(ctx context.Context) error {
	p.stopped.Store(true)
	return nil
}

// NopLoader returns a Loader producing inert particles.
func NopLoader() Loader {
	return LoaderFunc(func(ctx context.Context, particle *plan.Particle, arc *Arc) (Particle, error) {
		return &loaded{name: particle.Name}, nil
	})
}
