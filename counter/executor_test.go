package counter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStartedExecutor(t *testing.T, shards, queueSize int) *Executor {
	e := NewExecutor("test", shards, queueSize)
	require.NoError(t, e.Start())
	t.Cleanup(func() { e.Stop() })
	return e
}

func TestExecutorSerializeSameID(t *testing.T) {
	e := newStartedExecutor(t, 8, 16)
	id := NewID("test", "same")

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.Submit(context.Background(), id, func(ctx context.Context) error {
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, maxActive)
}

func TestExecutorParallelShards(t *testing.T) {
	e := newStartedExecutor(t, 16, 4)

	var a, b ID
	for i := 0; ; i++ {
		a = NewID("test", "a")
		b = NewID("test", string(rune('b'+i)))
		if e.ShardOf(a) != e.ShardOf(b) {
			break
		}
	}

	// a blocks until b has run, which deadlocks if both share a goroutine
	release := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Submit(context.Background(), a, func(ctx context.Context) error {
			<-release
			return nil
		})
	}()
	err := e.Submit(context.Background(), b, func(ctx context.Context) error {
		close(release)
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, <-errCh)
}

func TestExecutorShardOf(t *testing.T) {
	e := NewExecutor("test", 10, 0)
	id := NewID("test", "x")
	assert.Equal(t, e.ShardOf(id), e.ShardOf(id))
	assert.Less(t, e.ShardOf(id), e.ShardCount())

	assert.Equal(t, DefaultShards, NewExecutor("d", 0, 0).ShardCount())
}

func TestExecutorErrors(t *testing.T) {
	e := newStartedExecutor(t, 1, 1)
	id := NewID("test", "x")

	boom := errors.New("boom")
	err := e.Submit(context.Background(), id, func(ctx context.Context) error { return boom })
	assert.Equal(t, boom, err)

	err = e.Submit(context.Background(), id, func(ctx context.Context) error { panic("oops") })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "oops")

	// the worker survives the panic
	assert.NoError(t, e.Submit(context.Background(), id, func(ctx context.Context) error { return nil }))
}

func TestExecutorCanceledContext(t *testing.T) {
	e := newStartedExecutor(t, 1, 4)
	id := NewID("test", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran bool
	err := e.Submit(ctx, id, func(ctx context.Context) error {
		ran = true
		return nil
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, ran)
}

func TestExecutorStopped(t *testing.T) {
	e := NewExecutor("test", 2, 2)
	id := NewID("test", "x")
	assert.Equal(t, ErrExecutorStopped, e.Submit(context.Background(), id, func(ctx context.Context) error { return nil }))

	require.NoError(t, e.Start())
	assert.Error(t, e.Start())

	var done int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Submit(context.Background(), id, func(ctx context.Context) error {
				atomic.AddInt32(&done, 1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.NoError(t, e.Stop())
	assert.EqualValues(t, 10, done)
	assert.NoError(t, e.Stop())
	assert.Equal(t, ErrExecutorStopped, e.Submit(context.Background(), id, func(ctx context.Context) error { return nil }))
}
