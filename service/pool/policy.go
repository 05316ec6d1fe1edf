package pool

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Policy names accepted by NewPolicy.
const (
	PolicyAggressive   = "aggressive"
	PolicyConservative = "conservative"
	PolicyPredictive   = "predictive"
)

// DefaultWeight is the predictive bit-shift weight.
const DefaultWeight = 2

// Input describes the pool when a resize is requested.
type Input struct {
	Demand int
	Free   int
	InUse  int
	// Pending counts workers approved by an earlier resize and still spawning.
	Pending int
}

// Total returns the number of live and pending workers.
func (i Input) Total() int { return i.Free + i.InUse + i.Pending }

// Policy decides how many workers to add.
type Policy interface {
	Arbitrate(input Input) (int, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(input Input) (int, error)

func (f PolicyFunc) Arbitrate(input Input) (int, error) { return f(input) }

type sizing struct {
	name   string
	cap    int
	logger zerolog.Logger
}

// approve applies the skip guard, clamps target to [0, cap] and returns the
// non-negative difference to the current total.
func (s *sizing) approve(input Input, target func() int) int {
	total := input.Total()
	if total >= s.cap && input.Free == 0 {
		s.logger.Debug().Str("policy", s.name).Int("cap", s.cap).Int("inUse", input.InUse).Int("demand", input.Demand).Msg("pool saturated, skipping arbitration")
		return 0
	}
	wanted := target()
	if wanted < 0 {
		wanted = 0
	}
	if wanted > s.cap {
		wanted = s.cap
	}
	if delta := wanted - total; delta > 0 {
		return delta
	}
	return 0
}

// Aggressive sizes for one and a half times the largest observed demand.
type Aggressive struct {
	sizing
	mux      sync.Mutex
	maxInUse int
}

func NewAggressive(cap int, logger zerolog.Logger) *Aggressive {
	return &Aggressive{sizing: sizing{name: PolicyAggressive, cap: cap, logger: logger}}
}

func (p *Aggressive) Arbitrate(input Input) (int, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.approve(input, func() int {
		if input.InUse > p.maxInUse {
			p.maxInUse = input.InUse
		}
		peak := max(p.maxInUse, input.Demand)
		return peak * 3 / 2
	}), nil
}

// Conservative sizes for the current demand only.
type Conservative struct {
	sizing
}

func NewConservative(cap int, logger zerolog.Logger) *Conservative {
	return &Conservative{sizing: sizing{name: PolicyConservative, cap: cap, logger: logger}}
}

func (p *Conservative) Arbitrate(input Input) (int, error) {
	return p.approve(input, func() int { return input.Demand }), nil
}

// Predictive sizes for the larger of demand and an exponential moving
// average of workers in use, smoothed by a bit-shift weight.
type Predictive struct {
	sizing
	weight uint
	mux    sync.Mutex
	ewma   int
}

func NewPredictive(cap int, weight uint, logger zerolog.Logger) *Predictive {
	return &Predictive{sizing: sizing{name: PolicyPredictive, cap: cap, logger: logger}, weight: weight}
}

// Average returns the current moving average.
func (p *Predictive) Average() int {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.ewma
}

func (p *Predictive) Arbitrate(input Input) (int, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	return p.approve(input, func() int {
		p.ewma = ((p.ewma << p.weight) + (input.InUse - p.ewma)) >> p.weight
		return max(p.ewma, input.Demand)
	}), nil
}

// NewPolicy creates a policy by name.
func NewPolicy(name string, cap int, weight uint, logger zerolog.Logger) (Policy, error) {
	switch name {
	case PolicyAggressive:
		return NewAggressive(cap, logger), nil
	case PolicyConservative, "":
		return NewConservative(cap, logger), nil
	case PolicyPredictive:
		return NewPredictive(cap, weight, logger), nil
	}
	return nil, fmt.Errorf("unknown pool policy: %v", name)
}
