package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Exclusive(t *testing.T) {
	l := NewLocal(20 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "p1")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotAcquired)

	other, err := l.Acquire(ctx, "p2")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Acquire(ctx, "p1")
	require.NoError(t, err)
	again()

	assert.Equal(t, 0, l.size())
}

func TestLocal_CanceledContext(t *testing.T) {
	l := NewLocal(0)
	release, err := l.Acquire(context.Background(), "p1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Acquire(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotAcquired)
}

func TestLocal_SerializesWaiters(t *testing.T) {
	l := NewLocal(time.Second)
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "shared")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.size())
}

func TestNoop(t *testing.T) {
	release, err := Noop{}.Acquire(context.Background(), "p1")
	require.NoError(t, err)
	release()
	release2, err := Noop{}.Acquire(context.Background(), "p1")
	require.NoError(t, err)
	release2()
}
