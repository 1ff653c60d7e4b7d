package mpmc

import (
	"context"
	"fmt"
	"runtime"

	"github.com/alsa-project/alsa-gobject-sub000/internal/global"
	"github.com/alsa-project/alsa-gobject-sub000/internal/logctx"

	"github.com/pbnjay/memory"
)

const depthHistory = 8

// Resizes queue if nearing capacity limit or heavily unused.
// Each call records one depth sample used for trend detection.
func (queue *Queue[T]) ScaleCapacity(ctx context.Context) {
	queue.resizing.Lock()
	current := queue.write.Load()
	migrating := queue.read.Load() != current
	depth := queue.stats.Depth.Load()
	queue.history = append(queue.history, depth)
	if len(queue.history) > depthHistory {
		queue.history = queue.history[len(queue.history)-depthHistory:]
	}
	trendUp, trendDown := Trend(queue.history, current.capacity)
	queue.resizing.Unlock()

	if migrating {
		// Consumers still draining the previous ring
		return
	}

	utilization := float64(depth) / float64(current.capacity) * 100

	var newSize int
	if (utilization >= 90 || trendUp) && current.capacity < queue.maximumSize {
		newSize = nextPowerOfTwo(current.capacity + 1)

		// No scaling up when near system memory limit
		var perItem uint64
		if depth > 0 {
			perItem = queue.stats.Bytes.Load() / depth
		}
		expected := uint64(newSize) * perItem
		availMem := memory.FreeMemory()
		if availMem > 0 && expected > availMem {
			logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
				"Not scaling %s queue to %d: estimated %d bytes exceeds free memory %d\n", queue.name, newSize, expected, availMem)
			return
		}
	} else if (utilization <= 2 || trendDown) && current.capacity > queue.minimumSize {
		newSize = prevPowerOfTwo(current.capacity)
	} else {
		return
	}

	err := queue.mutateSize(newSize)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Failed to scale %s queue capacity: %v\n", queue.name, err)
		return
	}
	logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
		"Scaled %s queue from %d to %d capacity\n", queue.name, current.capacity, newSize)
}

// Swaps producers onto a new ring of the given size.
// Consumers follow once the old ring is drained.
func (queue *Queue[T]) mutateSize(newSize int) (err error) {
	queue.resizing.Lock()
	defer queue.resizing.Unlock()

	old := queue.write.Load()
	if queue.read.Load() != old {
		err = fmt.Errorf("previous resize has not finished draining")
		return
	}

	newSize = nextPowerOfTwo(newSize)
	if newSize == old.capacity {
		return
	}
	if newSize < queue.minimumSize || newSize > queue.maximumSize {
		err = fmt.Errorf("size %d outside configured bounds [%d, %d]", newSize, queue.minimumSize, queue.maximumSize)
		return
	}

	next := newRing[T](newSize, &queue.stats)

	old.draining.Store(true)
	queue.write.Store(next)

	// Producers that saw the old ring before draining was set finish first
	for old.inflight.Load() != 0 {
		runtime.Gosched()
	}
	old.sealed.Store(true)
	old.retireIfDrained()

	queue.stats.Resizes.Add(1)
	queue.history = queue.history[:0]
	return
}

func nextPowerOfTwo(start int) (next int) {
	if start <= 1 {
		next = 1
		return
	}
	start--
	start |= start >> 1
	start |= start >> 2
	start |= start >> 4
	start |= start >> 8
	start |= start >> 16
	start |= start >> 32
	next = start + 1
	return
}

func prevPowerOfTwo(start int) (prev int) {
	if start <= 1 {
		return
	}
	prev = nextPowerOfTwo(start) >> 1
	return
}

func clamp(value, low, high int) int {
	return max(low, min(value, high))
}

// Decides whether to scale up or down based on recent depth samples.
// The newest sample must be past a watermark and the last three moves must agree.
func Trend(depthValues []uint64, queueSize int) (scaleUp bool, scaleDown bool) {
	n := len(depthValues)
	if n < 4 || queueSize <= 0 {
		return
	}

	const upThresholdPct = 70.0
	const downThresholdPct = 15.0
	const requireConsistent = 3

	latestPct := float64(depthValues[n-1]) / float64(queueSize) * 100

	// +1 growing, -1 shrinking, 0 flat
	direction := func(i int) int {
		switch {
		case depthValues[i+1] > depthValues[i]:
			return 1
		case depthValues[i+1] < depthValues[i]:
			return -1
		}
		return 0
	}

	trend := direction(n - 2)
	if trend == 0 {
		return
	}
	for i := n - 3; i >= n-1-requireConsistent; i-- {
		if direction(i) != trend {
			return
		}
	}

	scaleUp = trend > 0 && latestPct > upThresholdPct
	scaleDown = trend < 0 && latestPct < downThresholdPct
	return
}
