// Package concurrent implements the cooperative multithreading layer
// (spec §5): Thread lifecycle, the six named subsystem locks, and the
// freeze/wake stop-the-world protocol used by the collector and by
// dynamic symbol-table edits.
package concurrent

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// TrackedMutex is a sync.Mutex that additionally records the stack of
// its current holder, adapted from pkg/syncutil.RWMutexTracker for
// deadlock diagnosis of the runtime's six named subsystem locks
// (spec §5's lock table: heap, thread, interpreter, hash, stream,
// finalizer).
type TrackedMutex struct {
	mu sync.Mutex

	waiting int32
	held    int32

	hmu    sync.Mutex
	holder []byte
}

const stackBufSize = 64 << 10

// Lock acquires the mutex and records the caller's stack as the
// current holder.
func (m *TrackedMutex) Lock() {
	atomic.AddInt32(&m.waiting, 1)
	m.mu.Lock()
	atomic.AddInt32(&m.waiting, -1)
	atomic.AddInt32(&m.held, 1)

	m.hmu.Lock()
	if cap(m.holder) == 0 {
		m.holder = make([]byte, stackBufSize)
	}
	m.holder = m.holder[:runtime.Stack(m.holder[:stackBufSize], false)]
	m.hmu.Unlock()
}

// Unlock releases the mutex.
func (m *TrackedMutex) Unlock() {
	atomic.AddInt32(&m.held, -1)
	m.hmu.Lock()
	m.holder = m.holder[:0]
	m.hmu.Unlock()
	m.mu.Unlock()
}

// Holder returns the stack trace captured at the last successful
// Lock, or empty if the mutex is not currently held.
func (m *TrackedMutex) Holder() string {
	m.hmu.Lock()
	defer m.hmu.Unlock()
	return string(m.holder)
}

// Waiting reports how many goroutines are currently blocked trying to
// acquire this mutex, for debug tooling; nothing in this repository
// calls it.
func (m *TrackedMutex) Waiting() int32 { return atomic.LoadInt32(&m.waiting) }

// Locks bundles the six subsystem mutexes spec §5 names. A single
// Locks value is shared process-wide; the interpreter holds no global
// lock during normal execution (spec §5) — each of these protects
// only its own named resource.
type Locks struct {
	Heap        TrackedMutex // nursery allocation races into old-gen promotion, free-list surgery
	Thread      TrackedMutex // thread registry, freeze state, wait/ready conditions, thread-arg pool
	Interpreter TrackedMutex // compile-time mutable symbol table and related globals
	Hash        TrackedMutex // process-wide identity-hash side table
	Stream      TrackedMutex // list of open output streams (finalization-at-exit)
	Finalizer   TrackedMutex // finalizable-instance queue
}

// NewLocks constructs a fresh, unlocked set of subsystem locks.
func NewLocks() *Locks { return &Locks{} }
