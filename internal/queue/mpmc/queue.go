package mpmc

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alsa-project/alsa-gobject-sub000/internal/global"
	"github.com/alsa-project/alsa-gobject-sub000/internal/logctx"
)

// Create new queue with given capacity (rounded up to a power of two).
// Scaling is bounded by min and max (both rounded the same way).
func New[T any](namespace []string, capacity, min, max int) (queue *Queue[T], err error) {
	if min <= 0 || max <= 0 || capacity <= 0 {
		err = fmt.Errorf("queue sizes must be positive (capacity=%d min=%d max=%d)", capacity, min, max)
		return
	}
	if min > max {
		err = fmt.Errorf("minimum queue size %d exceeds maximum %d", min, max)
		return
	}

	queue = &Queue[T]{
		name:        strings.Join(namespace, "/"),
		minimumSize: nextPowerOfTwo(min),
		maximumSize: nextPowerOfTwo(max),
	}

	capacity = nextPowerOfTwo(capacity)
	capacity = clamp(capacity, queue.minimumSize, queue.maximumSize)

	initial := newRing[T](capacity, &queue.stats)
	queue.write.Store(initial)
	queue.read.Store(initial)
	return
}

func newRing[T any](capacity int, stats *Stats) (r *ring[T]) {
	r = &ring[T]{
		capacity: capacity,
		mask:     uint64(capacity - 1),
		cells:    make([]cell[T], capacity),
		notEmpty: make(chan struct{}, 1),
		retired:  make(chan struct{}),
		stats:    stats,
	}
	for i := range r.cells {
		r.cells[i].seq.Store(uint64(i))
	}
	return
}

// Current capacity of the ring accepting writes
func (queue *Queue[T]) Capacity() (capacity int) {
	capacity = queue.write.Load().capacity
	return
}

// Live counters (shared across resizes)
func (queue *Queue[T]) Stats() (stats *Stats) {
	stats = &queue.stats
	return
}

// Non-blocking enqueue. Returns false when the queue is full.
func (queue *Queue[T]) Push(value T, size int) (success bool) {
	for {
		r := queue.write.Load()

		r.inflight.Add(1)
		if r.draining.Load() {
			// Resize in progress, pick up the new ring
			r.inflight.Add(-1)
			runtime.Gosched()
			continue
		}

		success = r.push(value, size)
		r.inflight.Add(-1)

		if !success {
			queue.stats.PushFull.Add(1)
			return
		}

		queue.stats.Pushed.Add(1)
		queue.stats.Depth.Add(1)
		queue.stats.Bytes.Add(uint64(size))
		return
	}
}

// Enqueue, retrying until space frees up or the context is cancelled.
func (queue *Queue[T]) PushBlocking(ctx context.Context, value T, size int) (err error) {
	const backoff = time.Millisecond

	for {
		if queue.Push(value, size) {
			return
		}

		select {
		case <-ctx.Done():
			err = fmt.Errorf("queue full: %w", ctx.Err())
			return
		case <-time.After(backoff):
		}
	}
}

// Non-blocking dequeue
func (queue *Queue[T]) TryPop() (value T, success bool) {
	for {
		r := queue.read.Load()

		var size uint64
		value, size, success = r.pop()
		if success {
			queue.accountPop(size)
			return
		}

		// Empty ring; follow a completed migration before giving up
		select {
		case <-r.retired:
			queue.read.CompareAndSwap(r, queue.write.Load())
			continue
		default:
			return
		}
	}
}

// Blocking dequeue. Returns false when the context is cancelled.
func (queue *Queue[T]) Pop(ctx context.Context) (value T, success bool) {
	for {
		r := queue.read.Load()

		var size uint64
		value, size, success = r.pop()
		if success {
			queue.accountPop(size)
			return
		}

		queue.stats.PopWaited.Add(1)

		select {
		case <-ctx.Done():
			return
		case <-r.notEmpty:
		case <-r.retired:
			// Old ring drained, all consumers move to the active ring
			if queue.read.CompareAndSwap(r, queue.write.Load()) {
				logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
					"consumers migrated to ring of capacity %d\n", queue.read.Load().capacity)
			}
		}
	}
}

func (queue *Queue[T]) accountPop(size uint64) {
	queue.stats.Popped.Add(1)
	subtract(&queue.stats.Depth, 1)
	subtract(&queue.stats.Bytes, size)
}

// Vyukov bounded enqueue
func (r *ring[T]) push(value T, size int) (success bool) {
	for {
		pos := r.tail.Load()
		c := &r.cells[pos&r.mask]
		seq := c.seq.Load()

		diff := int64(seq) - int64(pos)
		if diff == 0 {
			if r.tail.CompareAndSwap(pos, pos+1) {
				c.data = value
				c.size = uint64(size)
				c.seq.Store(pos + 1)

				select {
				case r.notEmpty <- struct{}{}:
				default:
				}

				success = true
				return
			}
			r.stats.CASRetry.Add(1)
		} else if diff < 0 {
			// Full
			return
		} else {
			runtime.Gosched()
		}
	}
}

// Vyukov bounded dequeue
func (r *ring[T]) pop() (value T, size uint64, success bool) {
	for {
		pos := r.head.Load()
		c := &r.cells[pos&r.mask]
		seq := c.seq.Load()

		diff := int64(seq) - int64(pos+1)
		if diff == 0 {
			if r.head.CompareAndSwap(pos, pos+1) {
				value = c.data
				size = c.size

				var zero T
				c.data = zero
				c.size = 0
				c.seq.Store(pos + r.mask + 1)

				// Wake another consumer if more is waiting
				if r.head.Load() != r.tail.Load() {
					select {
					case r.notEmpty <- struct{}{}:
					default:
					}
				}

				r.retireIfDrained()
				success = true
				return
			}
			r.stats.CASRetry.Add(1)
		} else if diff < 0 {
			// Empty
			r.retireIfDrained()
			return
		} else {
			runtime.Gosched()
		}
	}
}

// Close the retired channel once no producer can add to this ring and it is empty
func (r *ring[T]) retireIfDrained() {
	if !r.sealed.Load() {
		return
	}
	if r.head.Load() != r.tail.Load() {
		return
	}
	r.retireOnce.Do(func() {
		close(r.retired)
	})
}

// Decrement, stopping at zero
func subtract(counter *atomic.Uint64, delta uint64) {
	for {
		current := counter.Load()
		next := uint64(0)
		if current > delta {
			next = current - delta
		}
		if counter.CompareAndSwap(current, next) {
			return
		}
	}
}
