package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/arcs/internal/idgen"
	"github.com/viant/arcs/service/messaging"
	"github.com/viant/arcs/service/messaging/memory"
)

// DefaultCap is the default maximum number of workers.
const DefaultCap = 16

// State of a pool entry.
type State int

const (
	Suspended State = iota
	InUse
	Terminated
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case InUse:
		return "inUse"
	}
	return "terminated"
}

// Entry pairs a worker with its channel.
type Entry struct {
	Worker  *Worker
	Channel messaging.Queue[Job]
	state   State
}

// State returns the entry state.
func (e *Entry) State() State { return e.state }

// Spawner creates a new worker with its channel.
type Spawner func(ctx context.Context) (*Worker, messaging.Queue[Job], error)

// Pool holds workers in two disjoint sets.
type Pool struct {
	mux       sync.Mutex
	cap       int
	policy    Policy
	spawner   Spawner
	logger    zerolog.Logger
	suspended []*Entry
	inUse     map[string]*Entry
	pending   int
}

// Option customises a Pool.
type Option func(p *Pool)

// WithCap sets the maximum number of workers.
func WithCap(cap int) Option {
	return func(p *Pool) { p.cap = cap }
}

// WithPolicy sets the sizing policy.
func WithPolicy(policy Policy) Option {
	return func(p *Pool) { p.policy = policy }
}

// WithSpawner sets the worker constructor.
func WithSpawner(spawner Spawner) Option {
	return func(p *Pool) { p.spawner = spawner }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pool) { p.logger = logger }
}

// New creates a pool; by default it uses a conservative policy and spawns
// workers backed by in-memory queues.
func New(options ...Option) *Pool {
	ret := &Pool{cap: DefaultCap, logger: zerolog.Nop(), inUse: map[string]*Entry{}}
	for _, option := range options {
		option(ret)
	}
	if ret.policy == nil {
		ret.policy = NewConservative(ret.cap, ret.logger)
	}
	if ret.spawner == nil {
		ret.spawner = MemorySpawner(memory.DefaultConfig(), ret.logger)
	}
	return ret
}

// MemorySpawner spawns workers whose channel is an in-memory queue.
func MemorySpawner(config memory.Config, logger zerolog.Logger) Spawner {
	return func(ctx context.Context) (*Worker, messaging.Queue[Job], error) {
		channel := memory.NewQueue[Job](config)
		return NewWorker("worker-"+idgen.New(), channel, logger), channel, nil
	}
}

// Cap returns the maximum number of workers.
func (p *Pool) Cap() int { return p.cap }

// Exist reports whether worker is in the pool.
func (p *Pool) Exist(worker *Worker) bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	_, _, ok := p.locate(worker)
	return ok
}

func (p *Pool) locate(worker *Worker) (*Entry, int, bool) {
	if entry, ok := p.inUse[worker.ID()]; ok {
		return entry, -1, true
	}
	for i, entry := range p.suspended {
		if entry.Worker.ID() == worker.ID() {
			return entry, i, true
		}
	}
	return nil, -1, false
}

// Emplace adds a worker to the in-use or suspended set; it returns false when
// the worker is already pooled or the pool is at cap.
func (p *Pool) Emplace(worker *Worker, channel messaging.Queue[Job], toInUse bool) bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	if p.total() >= p.cap {
		return false
	}
	return p.emplace(worker, channel, toInUse)
}

func (p *Pool) total() int {
	return len(p.suspended) + len(p.inUse) + p.pending
}

func (p *Pool) emplace(worker *Worker, channel messaging.Queue[Job], toInUse bool) bool {
	if _, _, ok := p.locate(worker); ok {
		return false
	}
	entry := &Entry{Worker: worker, Channel: channel}
	if toInUse {
		entry.state = InUse
		p.inUse[worker.ID()] = entry
	} else {
		entry.state = Suspended
		p.suspended = append(p.suspended, entry)
	}
	return true
}

// Destroy removes worker from the pool, terminating it and closing its channel.
func (p *Pool) Destroy(worker *Worker) bool {
	p.mux.Lock()
	entry, idx, ok := p.locate(worker)
	if ok {
		p.detach(entry, idx)
	}
	p.mux.Unlock()
	if !ok {
		return false
	}
	p.terminate(entry)
	return true
}

func (p *Pool) detach(entry *Entry, idx int) {
	if idx >= 0 {
		p.suspended = append(p.suspended[:idx], p.suspended[idx+1:]...)
		return
	}
	delete(p.inUse, entry.Worker.ID())
}

func (p *Pool) terminate(entry *Entry) {
	entry.state = Terminated
	entry.Worker.Terminate()
	_ = entry.Channel.Close()
}

// Suspend moves an in-use worker to the suspended set.
func (p *Pool) Suspend(worker *Worker) bool {
	p.mux.Lock()
	defer p.mux.Unlock()
	entry, ok := p.inUse[worker.ID()]
	if !ok {
		return false
	}
	delete(p.inUse, worker.ID())
	entry.state = Suspended
	p.suspended = append(p.suspended, entry)
	return true
}

// Resume moves the oldest suspended worker to the in-use set.
func (p *Pool) Resume() (*Entry, bool) {
	p.mux.Lock()
	defer p.mux.Unlock()
	if len(p.suspended) == 0 {
		return nil, false
	}
	entry := p.suspended[0]
	p.suspended = p.suspended[1:]
	entry.state = InUse
	p.inUse[entry.Worker.ID()] = entry
	return entry, true
}

// Clear terminates every pooled worker.
func (p *Pool) Clear() {
	p.mux.Lock()
	entries := append([]*Entry(nil), p.suspended...)
	for _, entry := range p.inUse {
		entries = append(entries, entry)
	}
	p.suspended = nil
	p.inUse = map[string]*Entry{}
	p.mux.Unlock()
	for _, entry := range entries {
		p.terminate(entry)
	}
}

// Size returns the number of suspended and in-use workers.
func (p *Pool) Size() (free, inUse int) {
	p.mux.Lock()
	defer p.mux.Unlock()
	return len(p.suspended), len(p.inUse)
}

// Resize asks the policy how many workers to add for demand and spawns them
// suspended. It returns the number of workers added. Approved spawns are
// reserved before the lock is released so concurrent resizes never exceed cap.
func (p *Pool) Resize(ctx context.Context, demand int) (int, error) {
	p.mux.Lock()
	delta := p.arbitrate(Input{Demand: demand, Free: len(p.suspended), InUse: len(p.inUse), Pending: p.pending})
	p.pending += delta
	p.mux.Unlock()
	for i := 0; i < delta; i++ {
		worker, channel, err := p.spawner(ctx)
		if err != nil {
			p.mux.Lock()
			p.pending -= delta - i
			p.mux.Unlock()
			return i, fmt.Errorf("failed to spawn worker: %w", err)
		}
		p.mux.Lock()
		p.pending--
		p.emplace(worker, channel, false)
		p.mux.Unlock()
	}
	return delta, nil
}

func (p *Pool) arbitrate(input Input) (delta int) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("pool policy panicked")
			delta = 0
		}
	}()
	ret, err := p.policy.Arbitrate(input)
	if err != nil {
		p.logger.Error().Err(err).Msg("pool policy failed")
		return 0
	}
	if ret < 0 {
		return 0
	}
	if total := input.Total(); ret > p.cap-total {
		ret = max(p.cap-total, 0)
	}
	return ret
}

// Acquire resumes a suspended worker, growing the pool first when none is free.
func (p *Pool) Acquire(ctx context.Context) (*Entry, error) {
	if entry, ok := p.Resume(); ok {
		return entry, nil
	}
	if _, err := p.Resize(ctx, p.demand()+1); err != nil {
		return nil, err
	}
	if entry, ok := p.Resume(); ok {
		return entry, nil
	}
	return nil, fmt.Errorf("no worker available: pool is at cap %v", p.cap)
}

// demand counts workers in use plus those already being spawned for other callers.
func (p *Pool) demand() int {
	p.mux.Lock()
	defer p.mux.Unlock()
	return len(p.inUse) + p.pending
}
