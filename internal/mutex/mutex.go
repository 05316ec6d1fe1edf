// Package mutex provides a FIFO ordered lock whose waiters are released in
// the exact order they called Lock.
package mutex

import "sync"

// Releaser releases a held Mutex. Calling it more than once is a no-op.
type Releaser func()

// Mutex is a FIFO lock built as a chain of channels: every Lock call takes the
// current tail of the chain as its predecessor and installs its own channel as
// the new tail. A waiter proceeds once its predecessor channel is closed.
type Mutex struct {
	mux   sync.Mutex
	tail  chan struct{}
	depth int
}

// Lock registers the caller in the chain and returns a future that yields a
// Releaser once every earlier caller has released. Registration happens
// synchronously, so the order of Lock calls is the order of acquisition.
func (m *Mutex) Lock() <-chan Releaser {
	m.mux.Lock()
	prev := m.tail
	free := m.depth == 0
	done := make(chan struct{})
	m.tail = done
	m.depth++
	m.mux.Unlock()

	var once sync.Once
	release := Releaser(func() {
		once.Do(func() {
			m.mux.Lock()
			m.depth--
			m.mux.Unlock()
			close(done)
		})
	})

	ret := make(chan Releaser, 1)
	if free || prev == nil {
		ret <- release
		return ret
	}
	go func() {
		<-prev
		ret <- release
	}()
	return ret
}

// Acquire blocks the calling goroutine until the lock is held.
func (m *Mutex) Acquire() Releaser {
	return <-m.Lock()
}

// Locked reports whether any acquisition is outstanding.
func (m *Mutex) Locked() bool {
	return m.Depth() > 0
}

// Depth returns the number of callers holding or waiting for the lock.
func (m *Mutex) Depth() int {
	m.mux.Lock()
	defer m.mux.Unlock()
	return m.depth
}
