package feedstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shutdown(t *testing.T, q *SerialQueue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))
}

func TestSerialQueueBarriersRunInSubmissionOrder(t *testing.T) {
	q := NewSerialQueue()

	var mu sync.Mutex
	var order []int
	for i := range 100 {
		require.NoError(t, q.Barrier(func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, i)
		}))
	}
	shutdown(t, q)

	require.Len(t, order, 100)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestSerialQueueAsyncTasksOverlap(t *testing.T) {
	q := NewSerialQueue()
	defer shutdown(t, q)

	// Each task waits for the other; they can only both finish if they overlap.
	var started sync.WaitGroup
	started.Add(2)
	finished := make(chan struct{}, 2)
	for range 2 {
		require.NoError(t, q.Async(func() {
			started.Done()
			started.Wait()
			finished <- struct{}{}
		}))
	}

	for range 2 {
		select {
		case <-finished:
		case <-time.After(2 * time.Second):
			t.Fatal("async tasks did not run concurrently")
		}
	}
}

func TestSerialQueueBarrierRunsAlone(t *testing.T) {
	q := NewSerialQueue()

	var active, overlaps atomic.Int32
	read := func() {
		active.Add(1)
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
	}
	write := func() {
		if active.Load() != 0 {
			overlaps.Add(1)
		}
		active.Add(1)
		time.Sleep(time.Millisecond)
		active.Add(-1)
	}

	for i := range 50 {
		if i%5 == 0 {
			require.NoError(t, q.Barrier(write))
		} else {
			require.NoError(t, q.Async(read))
		}
	}
	shutdown(t, q)

	assert.Zero(t, overlaps.Load(), "a barrier overlapped another task")
}

func TestSerialQueueReadsAfterBarrierSeeItsEffect(t *testing.T) {
	q := NewSerialQueue()
	defer shutdown(t, q)

	var value atomic.Int32
	require.NoError(t, q.Barrier(func() {
		time.Sleep(20 * time.Millisecond)
		value.Store(1)
	}))

	seen := make(chan int32, 1)
	require.NoError(t, q.Async(func() { seen <- value.Load() }))
	assert.Equal(t, int32(1), <-seen)
}

func TestSerialQueueBarrierWaitsForEarlierReads(t *testing.T) {
	q := NewSerialQueue()
	defer shutdown(t, q)

	var readDone atomic.Bool
	require.NoError(t, q.Async(func() {
		time.Sleep(20 * time.Millisecond)
		readDone.Store(true)
	}))

	seen := make(chan bool, 1)
	require.NoError(t, q.Barrier(func() { seen <- readDone.Load() }))
	assert.True(t, <-seen, "barrier started before an earlier read finished")
}

func TestSerialQueueShutdown(t *testing.T) {
	t.Run("drains accepted tasks", func(t *testing.T) {
		q := NewSerialQueue()

		var ran atomic.Int32
		for range 10 {
			require.NoError(t, q.Async(func() {
				time.Sleep(time.Millisecond)
				ran.Add(1)
			}))
		}
		shutdown(t, q)
		assert.Equal(t, int32(10), ran.Load())
	})

	t.Run("rejects new tasks", func(t *testing.T) {
		q := NewSerialQueue()
		shutdown(t, q)

		assert.ErrorIs(t, q.Async(func() {}), ErrQueueClosed)
		assert.ErrorIs(t, q.Barrier(func() {}), ErrQueueClosed)
	})

	t.Run("honours context", func(t *testing.T) {
		q := NewSerialQueue()
		release := make(chan struct{})
		require.NoError(t, q.Barrier(func() { <-release }))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, q.Shutdown(ctx), context.DeadlineExceeded)

		close(release)
		shutdown(t, q)
	})

	t.Run("repeated shutdown", func(t *testing.T) {
		q := NewSerialQueue()
		shutdown(t, q)
		shutdown(t, q)
	})
}
