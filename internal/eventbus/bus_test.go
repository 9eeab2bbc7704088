package eventbus_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodflow/daemon/internal/eventbus"
	"github.com/kodflow/daemon/internal/errs"
)

func TestBus_PublishAndReceive(t *testing.T) {
	b := eventbus.New[int](1)
	require.NoError(t, b.Publish(context.Background(), 42))
	assert.Equal(t, 42, <-b.Events())
}

func TestBus_PublishBlocksWhenFull(t *testing.T) {
	b := eventbus.New[int](1)
	require.NoError(t, b.Publish(context.Background(), 1))

	var wg sync.WaitGroup
	wg.Add(1)
	published := make(chan struct{})
	go func() {
		defer wg.Done()
		_ = b.Publish(context.Background(), 2)
		close(published)
	}()

	select {
	case <-published:
		t.Fatal("Publish returned before the channel had room")
	case <-time.After(20 * time.Millisecond):
	}

	<-b.Events()
	<-published
	wg.Wait()
}

func TestBus_PublishFailsAfterClose(t *testing.T) {
	b := eventbus.New[int](1)
	b.Publish(context.Background(), 1)

	var wg sync.WaitGroup
	wg.Add(1)
	var err error
	go func() {
		defer wg.Done()
		err = b.Publish(context.Background(), 2)
	}()

	time.Sleep(10 * time.Millisecond)
	b.Close()
	wg.Wait()

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.System))
}

func TestBus_PublishFailsOnContextCancel(t *testing.T) {
	b := eventbus.New[int](0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Publish(ctx, 1)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.System))
}

func TestBus_CloseIsIdempotent(t *testing.T) {
	b := eventbus.New[int](1)
	b.Close()
	assert.NotPanics(t, func() { b.Close() })
}
