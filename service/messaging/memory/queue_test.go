package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arcs/service/messaging"
)

type testPayload struct {
	ID    string
	Count int
}

func TestQueue(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "p1", Count: 1}))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, "p1", message.T().ID)

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
}

func TestQueue_Nack(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "p1"}))
	message, err := queue.Consume(ctx)
	require.NoError(t, err)

	cause := errors.New("load failed")
	assert.NoError(t, message.Nack(cause))
	assert.Equal(t, cause, message.(*Message[testPayload]).Err())
	assert.Error(t, message.Nack(cause))
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_Close(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "pending"}))
	require.NoError(t, queue.Close())
	require.NoError(t, queue.Close())

	assert.True(t, errors.Is(queue.Publish(ctx, &testPayload{ID: "late"}), messaging.ErrClosed))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pending", message.T().ID)

	_, err = queue.Consume(ctx)
	assert.True(t, errors.Is(err, messaging.ErrClosed))
}

func TestQueue_CloseUnblocksPublish(t *testing.T) {
	queue := NewQueue[testPayload](Config{QueueBuffer: 1})
	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &testPayload{ID: "buffered"}))

	published := make(chan error, 1)
	go func() {
		published <- queue.Publish(ctx, &testPayload{ID: "blocked"})
	}()
	time.Sleep(20 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- queue.Close() }()
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("close did not return while a publish was blocked")
	}
	assert.True(t, errors.Is(<-published, messaging.ErrClosed))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "buffered", message.T().ID)
}

func TestQueue_Concurrency(t *testing.T) {
	queue := NewQueue[testPayload](Config{QueueBuffer: 4})
	ctx := context.Background()
	producers, perProducer := 5, 10

	var consumed int
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(producers)
	for i := 0; i < producers; i++ {
		go func(producer int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				assert.NoError(t, queue.Publish(ctx, &testPayload{ID: fmt.Sprintf("p%d-%d", producer, j)}))
			}
		}(i)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			message, err := queue.Consume(ctx)
			if err != nil {
				return
			}
			_ = message.Ack()
			mu.Lock()
			consumed++
			mu.Unlock()
		}
	}()
	wg.Wait()
	require.NoError(t, queue.Close())
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not finish")
	}
	assert.Equal(t, producers*perProducer, consumed)
}

func TestQueue_ContextCancellation(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, queue.Publish(ctx, &testPayload{ID: "x"}))

	timeoutCtx, cancelTimeout := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(timeoutCtx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
