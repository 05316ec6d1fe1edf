package arc

import (
	"github.com/viant/arcs/internal/idgen"
	"github.com/viant/arcs/model/plan"
	"github.com/viant/arcs/model/types"
)

// Options configure creating and running an arc.
type Options struct {
	ArcID            string           `json:"arcId,omitempty" yaml:"arcId,omitempty"`
	ArcName          string           `json:"arcName,omitempty" yaml:"arcName,omitempty"`
	OuterArcID       string           `json:"outerArcId,omitempty" yaml:"outerArcId,omitempty"`
	PlanName         string           `json:"planName,omitempty" yaml:"planName,omitempty"`
	StorageKeyPrefix string           `json:"storageKeyPrefix,omitempty" yaml:"storageKeyPrefix,omitempty"`
	Speculative      bool             `json:"speculative,omitempty" yaml:"speculative,omitempty"`
	Generator        *idgen.Generator `json:"-" yaml:"-"`
}

// IsInner reports whether the options describe an inner arc.
func (o *Options) IsInner() bool {
	return o != nil && o.OuterArcID != ""
}

// Partition records that a restricted sub-plan of an arc runs on a host.
// A partition is immutable once appended to its Info.
type Partition struct {
	HostID        string
	ArcID         string
	Plan          *plan.Plan
	Options       Options
	Reinstantiate bool
}

// ParticleNames lists the partition's particles.
func (p *Partition) ParticleNames() []string {
	if p.Plan == nil {
		return nil
	}
	ret := make([]string, 0, len(p.Plan.Particles))
	for _, particle := range p.Plan.Particles {
		ret = append(ret, particle.Name)
	}
	return ret
}

// StoreInfo describes a store registered on an arc.
type StoreInfo struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	Type       *types.Type `json:"type,omitempty" yaml:"type,omitempty"`
	StorageKey string      `json:"storageKey" yaml:"storageKey"`
	Tags       []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
}
