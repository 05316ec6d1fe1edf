package event

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arcs/service/messaging/memory"
)

type arcNote struct {
	Hosts []string
}

func TestService_PublishListen(t *testing.T) {
	ctx := context.Background()
	service := New(WithNewMemoryQueueConfig(func(name string) memory.Config {
		return memory.Config{QueueBuffer: 4}
	}))
	var mux sync.Mutex
	var received []*Event[arcNote]
	SetListenerOf[arcNote](service, func(e *Event[arcNote]) {
		mux.Lock()
		defer mux.Unlock()
		received = append(received, e)
	})
	publisher := PublisherOf[arcNote](service)
	assert.Same(t, publisher, PublisherOf[arcNote](service))

	testCases := []struct {
		description string
		context     *Context
		data        arcNote
	}{
		{description: "started", context: &Context{ArcID: "!s:a", EventType: TypeArcStarted}, data: arcNote{Hosts: []string{"h1"}}},
		{description: "stopped", context: &Context{ArcID: "!s:a", EventType: TypeArcStopped}},
	}
	for _, testCase := range testCases {
		require.NoError(t, publisher.Publish(ctx, NewEvent(testCase.context, testCase.data)), testCase.description)
	}
	require.NoError(t, service.Close())

	mux.Lock()
	defer mux.Unlock()
	require.Len(t, received, len(testCases))
	for i, testCase := range testCases {
		assert.Equal(t, testCase.context, received[i].Context, testCase.description)
		assert.Equal(t, testCase.data, received[i].Data, testCase.description)
		assert.False(t, received[i].CreatedAt.IsZero(), testCase.description)
	}
	assert.Error(t, publisher.Publish(ctx, NewEvent(&Context{}, arcNote{})))
}

func TestPublisher_Nil(t *testing.T) {
	var publisher *Publisher[arcNote]
	assert.NoError(t, publisher.Publish(context.Background(), NewEvent(&Context{}, arcNote{})))
}

func TestSetListenerOf_Replace(t *testing.T) {
	service := New()
	first := make(chan string, 1)
	second := make(chan string, 1)
	SetListenerOf[string](service, func(e *Event[string]) { first <- e.Data })
	SetListenerOf[string](service, func(e *Event[string]) { second <- e.Data })
	require.NoError(t, PublisherOf[string](service).Publish(context.Background(), NewEvent(&Context{}, "hello")))
	assert.Equal(t, "hello", <-second)
	assert.Empty(t, first)
	require.NoError(t, service.Close())
}
