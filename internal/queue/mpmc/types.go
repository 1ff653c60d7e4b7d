package mpmc

import (
	"sync"
	"sync/atomic"
)

type cell[T any] struct {
	seq  atomic.Uint64
	size uint64 // caller supplied byte size of data
	data T
}

// Fixed capacity ring (one generation of a Queue)
type ring[T any] struct {
	capacity   int
	mask       uint64
	cells      []cell[T]
	head       atomic.Uint64
	tail       atomic.Uint64
	notEmpty   chan struct{} // single slot wake up for blocked consumers
	draining   atomic.Bool   // set once producers must move to the next ring
	inflight   atomic.Int64  // producers currently writing into this ring
	sealed     atomic.Bool   // draining and no producer left inside
	retired    chan struct{} // closed once draining and empty
	retireOnce sync.Once
	stats      *Stats
}

// Counters shared by all rings of a queue
type Stats struct {
	Depth     atomic.Uint64 // Current items in queue
	Bytes     atomic.Uint64 // Current byte size in queue (just data)
	Pushed    atomic.Uint64 // successful pushes
	PushFull  atomic.Uint64 // pushes rejected because the ring was full
	Popped    atomic.Uint64 // successful pops
	Resizes   atomic.Uint64 // completed capacity changes
	CASRetry  atomic.Uint64 // contended push/pop attempts
	PopWaited atomic.Uint64 // pops that blocked on an empty ring
}

// Multi-producer multi-consumer queue.
// Writes go to the write ring, reads drain the read ring; both point to the
// same ring except while a resize is migrating consumers to the new one.
type Queue[T any] struct {
	name        string // namespace joined with '/', used in scaling logs
	write       atomic.Pointer[ring[T]]
	read        atomic.Pointer[ring[T]]
	resizing    sync.Mutex
	history     []uint64 // depth samples, guarded by resizing
	stats       Stats
	minimumSize int // Lower configurable bound for scaling
	maximumSize int // Upper configurable bound for scaling
}
