package concurrent

import "sync"

// Freezer implements the stop-the-world freeze/wake protocol (spec
// §5 "Freeze protocol"), used both by the garbage collector and by
// dynamic symbol-table edits during module load. The reentrant depth
// counter and the "keep is-interrupt only if a keyboard interrupt is
// pending" wake rule are taken from
// _examples/original_source/src/thread_athread.c.
type Freezer struct {
	locks *Locks

	allFrozen *sync.Cond
	wake      *sync.Cond

	numThreads     int
	freezableCount int

	isFreeze     bool
	freezeDepth  int
	isInterrupt  bool
	keyboardInterruptPending bool
}

// NewFreezer creates a Freezer sharing the given Locks' thread mutex.
func NewFreezer(locks *Locks) *Freezer {
	f := &Freezer{locks: locks}
	f.allFrozen = sync.NewCond(&f.locks.Thread.mu)
	f.wake = sync.NewCond(&f.locks.Thread.mu)
	return f
}

// RegisterThread and UnregisterThread keep num_threads accounting
// consistent across spawn/join (spec §8 "Freeze").
func (f *Freezer) RegisterThread() {
	f.locks.Thread.mu.Lock()
	f.numThreads++
	f.locks.Thread.mu.Unlock()
}

func (f *Freezer) UnregisterThread() {
	f.locks.Thread.mu.Lock()
	f.numThreads--
	f.allFrozen.Broadcast() // a departing thread may complete a pending freeze
	f.locks.Thread.mu.Unlock()
}

// EnterBlocking and ExitBlocking bracket a suspension point (any call
// that may block: I/O, condition wait, join, contended mutex.lock —
// spec §5 "Suspension points"). A thread counted freezable is treated
// as though it were at a safepoint for GC purposes.
func (f *Freezer) EnterBlocking() {
	f.locks.Thread.mu.Lock()
	f.freezableCount++
	if f.isFreeze && f.freezableCount == f.numThreads-1 {
		f.allFrozen.Broadcast()
	}
	f.locks.Thread.mu.Unlock()
}

func (f *Freezer) ExitBlocking() {
	f.locks.Thread.mu.Lock()
	f.freezableCount--
	f.locks.Thread.mu.Unlock()
}

// Safepoint is called at every backward branch and call site (spec §5
// glossary "Safepoint"). If a freeze is in effect, it parks the
// calling thread on the wake condition until the freeze ends.
func (f *Freezer) Safepoint() {
	f.locks.Thread.mu.Lock()
	for f.isFreeze {
		f.freezableCount++
		if f.freezableCount == f.numThreads-1 {
			f.allFrozen.Broadcast()
		}
		f.wake.Wait()
		f.freezableCount--
	}
	f.locks.Thread.mu.Unlock()
}

// RequestFreeze acquires exclusive execution: it sets is-interrupt and
// is-freeze, then waits for every other mutator thread to be
// freezable (at a safepoint or inside a blocking region). Freeze is
// reentrant: nested RequestFreeze calls from the same logical
// collector simply bump the depth counter (spec §5 "Freeze is
// re-entrant").
func (f *Freezer) RequestFreeze() {
	f.locks.Thread.mu.Lock()
	defer f.locks.Thread.mu.Unlock()

	if f.isFreeze {
		f.freezeDepth++
		return
	}
	f.isFreeze = true
	f.isInterrupt = true
	f.freezeDepth = 1
	for f.numThreads > 1 && f.freezableCount < f.numThreads-1 {
		f.allFrozen.Wait()
	}
}

// ReleaseFreeze ends one level of freeze nesting; once the depth
// counter reaches zero it clears is-freeze, preserves is-interrupt
// only if a keyboard interrupt is pending, and broadcasts wake (spec
// §5 "Wake clears is-freeze...").
func (f *Freezer) ReleaseFreeze() {
	f.locks.Thread.mu.Lock()
	defer f.locks.Thread.mu.Unlock()

	f.freezeDepth--
	if f.freezeDepth > 0 {
		return
	}
	f.isFreeze = false
	f.isInterrupt = f.keyboardInterruptPending
	f.wake.Broadcast()
}

// SignalKeyboardInterrupt records that the OS delivered an interrupt
// to the main thread (spec §5 "Cancellation"); it is delivered only to
// the main thread and observed by others only as a safepoint pause.
func (f *Freezer) SignalKeyboardInterrupt() {
	f.locks.Thread.mu.Lock()
	f.keyboardInterruptPending = true
	f.isInterrupt = true
	f.locks.Thread.mu.Unlock()
}

// ConsumeKeyboardInterrupt reports and clears a pending keyboard
// interrupt, called by the main thread's InterruptException delivery
// point.
func (f *Freezer) ConsumeKeyboardInterrupt() bool {
	f.locks.Thread.mu.Lock()
	defer f.locks.Thread.mu.Unlock()
	pending := f.keyboardInterruptPending
	f.keyboardInterruptPending = false
	return pending
}

// IsFreezing reports whether a freeze is currently in effect, for
// tests asserting the invariant "no other mutator makes forward
// progress past a safepoint" (spec §8 "Freeze").
func (f *Freezer) IsFreezing() bool {
	f.locks.Thread.mu.Lock()
	defer f.locks.Thread.mu.Unlock()
	return f.isFreeze
}

// NumThreads and FreezableCount expose accounting for tests.
func (f *Freezer) NumThreads() int {
	f.locks.Thread.mu.Lock()
	defer f.locks.Thread.mu.Unlock()
	return f.numThreads
}

func (f *Freezer) FreezableCount() int {
	f.locks.Thread.mu.Lock()
	defer f.locks.Thread.mu.Unlock()
	return f.freezableCount
}
