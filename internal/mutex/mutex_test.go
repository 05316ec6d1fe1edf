package mutex

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, future <-chan Releaser) Releaser {
	t.Helper()
	select {
	case r := <-future:
		return r
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for releaser")
	}
	return nil
}

func pending(future <-chan Releaser) bool {
	select {
	case <-future:
		return false
	case <-time.After(20 * time.Millisecond):
		return true
	}
}

func TestMutex_FIFO(t *testing.T) {
	m := &Mutex{}
	var futures []<-chan Releaser
	for i := 0; i < 5; i++ {
		futures = append(futures, m.Lock())
	}
	assert.True(t, m.Locked())
	assert.Equal(t, 5, m.Depth())

	for i, future := range futures {
		release := receive(t, future)
		if i+1 < len(futures) {
			assert.True(t, pending(futures[i+1]), "waiter %d jumped ahead", i+1)
		}
		assert.True(t, m.Locked())
		release()
	}
	assert.False(t, m.Locked())
	assert.Equal(t, 0, m.Depth())
}

func TestMutex_DoubleRelease(t *testing.T) {
	m := &Mutex{}
	first := m.Acquire()
	second := m.Lock()
	third := m.Lock()

	first()
	first()
	release := receive(t, second)
	assert.True(t, pending(third))
	assert.Equal(t, 2, m.Depth())
	release()
	receive(t, third)()
	assert.False(t, m.Locked())
}

func TestMutex_Concurrent(t *testing.T) {
	m := &Mutex{}
	var order []int
	var futures []<-chan Releaser
	for i := 0; i < 20; i++ {
		futures = append(futures, m.Lock())
	}
	var wg sync.WaitGroup
	for i := len(futures) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			release := <-futures[i]
			order = append(order, i)
			release()
		}(i)
	}
	wg.Wait()
	for i := range order {
		assert.Equal(t, i, order[i])
	}
	assert.Len(t, order, 20)
}
