// Package plan models a resolved graph of particles and the handles they
// share, together with the operations the allocator needs to partition it.
package plan

import (
	"fmt"
	"strings"
)

// Plan is the graph of particles and handles to instantiate in an arc.
type Plan struct {
	Name      string      `json:"name" yaml:"name"`
	ArcID     string      `json:"arcId,omitempty" yaml:"arcId,omitempty"`
	Handles   []*Handle   `json:"handles,omitempty" yaml:"handles,omitempty"`
	Particles []*Particle `json:"particles,omitempty" yaml:"particles,omitempty"`
	frozen    bool
}

// New creates an empty plan.
func New(name string) *Plan {
	return &Plan{Name: name}
}

// Freeze marks the plan immutable; mutating operations must work on a Clone.
func (p *Plan) Freeze() *Plan {
	p.frozen = true
	return p
}

// IsFrozen reports whether the plan was frozen.
func (p *Plan) IsFrozen() bool { return p.frozen }

// IsEmpty reports whether the plan has neither handles nor particles.
func (p *Plan) IsEmpty() bool {
	return p == nil || (len(p.Handles) == 0 && len(p.Particles) == 0)
}

// Clone returns an unfrozen deep copy.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	ret := &Plan{Name: p.Name, ArcID: p.ArcID}
	for _, h := range p.Handles {
		ret.Handles = append(ret.Handles, h.Clone())
	}
	for _, particle := range p.Particles {
		ret.Particles = append(ret.Particles, particle.Clone())
	}
	return ret
}

// HandleByName returns the handle with the given name.
func (p *Plan) HandleByName(name string) *Handle {
	for _, h := range p.Handles {
		if h.Name == name {
			return h
		}
	}
	return nil
}

// HandleByID returns the handle with the given id.
func (p *Plan) HandleByID(id string) *Handle {
	for _, h := range p.Handles {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// ParticleByName returns the particle with the given name.
func (p *Plan) ParticleByName(name string) *Particle {
	for _, particle := range p.Particles {
		if particle.Name == name {
			return particle
		}
	}
	return nil
}

// MergeInto copies handles and particles into target, skipping handles
// already present there (matched by id, then name) and particles with a
// name already taken.
func (p *Plan) MergeInto(target *Plan) error {
	if target.frozen {
		return fmt.Errorf("plan %v is frozen", target.Name)
	}
	if target.Name == "" {
		target.Name = p.Name
	}
	if target.ArcID == "" {
		target.ArcID = p.ArcID
	}
	for _, h := range p.Handles {
		if (h.ID != "" && target.HandleByID(h.ID) != nil) || target.HandleByName(h.Name) != nil {
			continue
		}
		target.Handles = append(target.Handles, h.Clone())
	}
	for _, particle := range p.Particles {
		if target.ParticleByName(particle.Name) != nil {
			continue
		}
		target.Particles = append(target.Particles, particle.Clone())
	}
	return nil
}

// Restrict returns a copy holding only the named particles and the handles
// they connect to. The order of p is preserved.
func (p *Plan) Restrict(particleNames ...string) *Plan {
	keep := make(map[string]bool, len(particleNames))
	for _, name := range particleNames {
		keep[name] = true
	}
	used := map[string]bool{}
	ret := &Plan{Name: p.Name, ArcID: p.ArcID}
	for _, particle := range p.Particles {
		if !keep[particle.Name] {
			continue
		}
		ret.Particles = append(ret.Particles, particle.Clone())
		for _, conn := range particle.Connections {
			used[conn.Handle] = true
		}
	}
	for _, h := range p.Handles {
		if used[h.Name] {
			ret.Handles = append(ret.Handles, h.Clone())
		}
	}
	return ret
}

// TryResolve binds type variables of every handle to their constraints.
func (p *Plan) TryResolve() {
	for _, h := range p.Handles {
		h.Type.MaybeResolve()
	}
}

// IsResolved reports whether the plan can be instantiated.
func (p *Plan) IsResolved() bool {
	return len(p.Unresolved()) == 0
}

// Unresolved lists the reasons the plan is not resolved.
func (p *Plan) Unresolved() []error {
	var issues []error
	for _, h := range p.Handles {
		switch h.Fate {
		case FateCreate, FateCopy, FateUse, FateMap:
		default:
			issues = append(issues, fmt.Errorf("handle %v has unknown fate %q", h.Name, h.Fate))
		}
		if !h.Type.IsResolved() {
			issues = append(issues, fmt.Errorf("handle %v has unresolved type %v", h.Name, h.Type))
		}
		if (h.Fate == FateUse || h.Fate == FateMap) && h.StorageKey == "" && !h.ImmediateValue {
			issues = append(issues, fmt.Errorf("handle %v (%v) has no storage key", h.Name, h.Fate))
		}
	}
	for _, particle := range p.Particles {
		if particle.Location == "" {
			issues = append(issues, fmt.Errorf("particle %v has no location", particle.Name))
		}
		for _, conn := range particle.Connections {
			if p.HandleByName(conn.Handle) == nil {
				issues = append(issues, fmt.Errorf("particle %v connection %v refers to unknown handle %v", particle.Name, conn.Name, conn.Handle))
			}
		}
	}
	return issues
}

// Validate performs structural validation independent of resolution.
func (p *Plan) Validate() []error {
	var issues []error
	if strings.TrimSpace(p.Name) == "" {
		issues = append(issues, fmt.Errorf("plan name is empty"))
	}
	handles := map[string]bool{}
	for _, h := range p.Handles {
		if h.Name == "" {
			issues = append(issues, fmt.Errorf("plan %v has a handle without name", p.Name))
			continue
		}
		if handles[h.Name] {
			issues = append(issues, fmt.Errorf("duplicate handle %v", h.Name))
		}
		handles[h.Name] = true
	}
	particles := map[string]bool{}
	for _, particle := range p.Particles {
		if particles[particle.Name] {
			issues = append(issues, fmt.Errorf("duplicate particle %v", particle.Name))
		}
		particles[particle.Name] = true
		for _, conn := range particle.Connections {
			if !handles[conn.Handle] {
				issues = append(issues, fmt.Errorf("particle %v connection %v refers to unknown handle %v", particle.Name, conn.Name, conn.Handle))
			}
		}
	}
	return issues
}

func (p *Plan) String() string {
	var b strings.Builder
	b.WriteString("plan " + p.Name + "\n")
	for _, h := range p.Handles {
		fmt.Fprintf(&b, "  %v: %v %v %v\n", h.Name, h.Fate, h.Type, h.StorageKey)
	}
	for _, particle := range p.Particles {
		fmt.Fprintf(&b, "  %v (%v)\n", particle.Name, particle.Location)
	}
	return b.String()
}
