package mpmc

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/alsa-project/alsa-gobject-sub000/internal/global"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		capacity     int
		min          int
		max          int
		expectedSize int
		expectErr    bool
	}{
		{"rounds up to power of two", 100, 2, 4096, 128, false},
		{"clamped to minimum", 3, 64, 4096, 64, false},
		{"clamped to maximum", 9000, 2, 1024, 1024, false},
		{"zero capacity", 0, 2, 16, 0, true},
		{"inverted bounds", 8, 32, 16, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue, err := New[int]([]string{global.NSTest}, tt.capacity, tt.min, tt.max)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error, got queue of capacity %d", queue.Capacity())
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error in creating queue, but got '%v'", err)
			}
			if queue.Capacity() != tt.expectedSize {
				t.Errorf("expected capacity %d, got %d", tt.expectedSize, queue.Capacity())
			}
		})
	}
}

func TestQueue_PushPop(t *testing.T) {
	queue, err := New[int]([]string{global.NSTest}, 4, 2, 16)
	if err != nil {
		t.Fatalf("expected no error in creating queue, but got '%v'", err)
	}

	// Wrap around the ring several times
	for round := 0; round < 3; round++ {
		for i := 0; i < 4; i++ {
			if !queue.Push(round*10+i, 10) {
				t.Fatalf("push %d failed in round %d", i, round)
			}
		}
		if queue.Push(99, 10) {
			t.Fatalf("expected push to fail on full queue")
		}
		if depth := queue.Stats().Depth.Load(); depth != 4 {
			t.Errorf("expected depth 4, got %d", depth)
		}
		if size := queue.Stats().Bytes.Load(); size != 40 {
			t.Errorf("expected 40 bytes queued, got %d", size)
		}

		for i := 0; i < 4; i++ {
			value, ok := queue.TryPop()
			if !ok || value != round*10+i {
				t.Fatalf("expected %d, got %d (ok=%v)", round*10+i, value, ok)
			}
		}
		if _, ok := queue.TryPop(); ok {
			t.Fatalf("expected pop to fail on empty queue")
		}
	}

	stats := queue.Stats()
	if stats.Depth.Load() != 0 || stats.Bytes.Load() != 0 {
		t.Errorf("expected empty counters, got depth=%d bytes=%d", stats.Depth.Load(), stats.Bytes.Load())
	}
	if stats.PushFull.Load() != 3 {
		t.Errorf("expected 3 rejected pushes, got %d", stats.PushFull.Load())
	}
	if stats.Pushed.Load() != 12 || stats.Popped.Load() != 12 {
		t.Errorf("expected 12 pushed and popped, got %d/%d", stats.Pushed.Load(), stats.Popped.Load())
	}
}

func TestQueue_ContextBehavior(t *testing.T) {
	t.Run("PopBlocksUntilPush", func(t *testing.T) {
		queue, err := New[int]([]string{global.NSTest}, 2, 2, 16)
		if err != nil {
			t.Fatalf("expected no error in creating queue, but got '%v'", err)
		}

		done := make(chan int)
		go func() {
			result, success := queue.Pop(context.Background())
			if !success {
				t.Errorf("expected pop to succeed")
			}
			done <- result
		}()
		time.Sleep(50 * time.Millisecond)
		queue.Push(42, 1)

		if result := <-done; result != 42 {
			t.Errorf("expected pop to return 42, got %d", result)
		}
	})

	t.Run("PopReturnsOnCancel", func(t *testing.T) {
		queue, err := New[int]([]string{global.NSTest}, 2, 2, 16)
		if err != nil {
			t.Fatalf("expected no error in creating queue, but got '%v'", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		if _, success := queue.Pop(ctx); success {
			t.Errorf("expected pop to fail after cancellation")
		}
	})

	t.Run("PushBlockingTimesOut", func(t *testing.T) {
		queue, err := New[int]([]string{global.NSTest}, 2, 2, 16)
		if err != nil {
			t.Fatalf("expected no error in creating queue, but got '%v'", err)
		}
		queue.Push(1, 1)
		queue.Push(2, 1)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if err := queue.PushBlocking(ctx, 3, 1); err == nil {
			t.Errorf("expected error pushing into full queue")
		}
	})

	t.Run("PushBlockingWaitsForSpace", func(t *testing.T) {
		queue, err := New[int]([]string{global.NSTest}, 2, 2, 16)
		if err != nil {
			t.Fatalf("expected no error in creating queue, but got '%v'", err)
		}
		queue.Push(1, 1)
		queue.Push(2, 1)

		go func() {
			time.Sleep(20 * time.Millisecond)
			queue.TryPop()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := queue.PushBlocking(ctx, 3, 1); err != nil {
			t.Errorf("expected push to succeed once space freed, got '%v'", err)
		}
	})
}

func TestQueue_Concurrency(t *testing.T) {
	tests := []struct {
		name          string
		capacity      int
		numGoroutines int
		numOps        int
	}{
		{"ConcurrentSmallQueue", 128, 1, 100},
		{"HighContention", 16, 10, 1000},
		{"ThreadSafetyLargeQueue", 1024, 4, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue, err := New[int]([]string{global.NSTest}, tt.capacity, 2, global.DefaultMaxQueueSize)
			if err != nil {
				t.Fatalf("expected no error in creating queue, but got '%v'", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			var wg sync.WaitGroup
			var mutex sync.Mutex
			seen := make(map[int]int)

			for g := 0; g < tt.numGoroutines; g++ {
				wg.Add(2)
				go func(g int) {
					defer wg.Done()
					for j := 0; j < tt.numOps; j++ {
						for !queue.Push(g*tt.numOps+j, 1) {
							runtime.Gosched()
						}
					}
				}(g)
				go func() {
					defer wg.Done()
					for j := 0; j < tt.numOps; j++ {
						value, success := queue.Pop(ctx)
						if !success {
							t.Errorf("pop failed during high contention")
							return
						}
						mutex.Lock()
						seen[value]++
						mutex.Unlock()
					}
				}()
			}
			wg.Wait()

			if len(seen) != tt.numGoroutines*tt.numOps {
				t.Errorf("expected %d distinct values, got %d", tt.numGoroutines*tt.numOps, len(seen))
			}
			for value, count := range seen {
				if count != 1 {
					t.Errorf("value %d popped %d times", value, count)
				}
			}
		})
	}
}
