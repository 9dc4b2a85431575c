package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := NewBroker[string]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s1 := b.Subscribe(ctx)
	s2 := b.Subscribe(ctx)

	b.Publish(UpdatedEvent, "hello")

	for _, s := range []<-chan Event[string]{s1, s2} {
		select {
		case evt := <-s:
			require.Equal(t, UpdatedEvent, evt.Type)
			require.Equal(t, "hello", evt.Payload)
		case <-time.After(time.Second):
			require.Fail(t, "expected event")
		}
	}
}

func TestSubscriptionClosesOnContextCancel(t *testing.T) {
	b := NewBroker[int]()
	ctx, cancel := context.WithCancel(context.Background())
	sub := b.Subscribe(ctx)
	require.Equal(t, 1, b.SubscriberCount())

	cancel()

	select {
	case _, ok := <-sub:
		require.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		require.Fail(t, "subscription not closed")
	}
	require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, time.Millisecond)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker[int]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = b.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < bufferSize*3; i++ {
			b.Publish(UpdatedEvent, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "publish blocked on a full subscriber")
	}
}

func TestShutdown(t *testing.T) {
	b := NewBroker[int]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := b.Subscribe(ctx)

	b.Shutdown()
	b.Shutdown()

	_, ok := <-sub
	require.False(t, ok)

	late := b.Subscribe(ctx)
	_, ok = <-late
	require.False(t, ok, "subscribing after shutdown yields a closed channel")

	require.NotPanics(t, func() { b.Publish(UpdatedEvent, 1) })
}
