package feedstore

import (
	"context"
	"sync"

	"github.com/huangsam/feedstore/internal/metrics"
)

type task struct {
	fn      func()
	barrier bool
}

// SerialQueue runs submitted tasks in submission order on behalf of one store.
//
// A single dispatcher goroutine pops tasks first in, first out. Async tasks hold a
// shared lock and may overlap each other. Barrier tasks hold the exclusive lock, so
// they start only after every earlier task has returned, and nothing submitted after
// them starts until they return.
type SerialQueue struct {
	mu      sync.Mutex
	pending []task
	closed  bool

	wake    chan struct{}
	done    chan struct{}
	rw      sync.RWMutex
	readers sync.WaitGroup
}

// NewSerialQueue starts the dispatcher and returns the queue.
func NewSerialQueue() *SerialQueue {
	q := &SerialQueue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.dispatch()
	return q
}

// Async submits a task that may run concurrently with other async tasks.
func (q *SerialQueue) Async(fn func()) error {
	return q.submit(task{fn: fn})
}

// Barrier submits a task that runs alone.
func (q *SerialQueue) Barrier(fn func()) error {
	return q.submit(task{fn: fn, barrier: true})
}

// Shutdown rejects new tasks, then waits until every accepted task has returned or ctx ends.
func (q *SerialQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *SerialQueue) submit(t task) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.pending = append(q.pending, t)
	q.mu.Unlock()

	metrics.StoreQueueDepth.Inc()
	q.signal()
	return nil
}

func (q *SerialQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest task. ok is false when nothing is pending.
func (q *SerialQueue) next() (t task, ok bool, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return task{}, false, q.closed
	}
	t = q.pending[0]
	q.pending[0] = task{}
	q.pending = q.pending[1:]
	return t, true, q.closed
}

func (q *SerialQueue) dispatch() {
	defer close(q.done)
	for {
		t, ok, closed := q.next()
		if !ok {
			if closed {
				q.readers.Wait()
				return
			}
			<-q.wake
			continue
		}
		metrics.StoreQueueDepth.Dec()

		if t.barrier {
			q.rw.Lock()
			t.fn()
			q.rw.Unlock()
			continue
		}

		q.rw.RLock()
		q.readers.Go(func() {
			defer q.rw.RUnlock()
			t.fn()
		})
	}
}
