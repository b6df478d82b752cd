package concurrent

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"alore.dev/runtime/internal/heap"
)

// Runtime owns the VM-wide concurrency state: the subsystem locks,
// the freeze protocol, the thread registry, and the pool of reusable
// Thread objects (spec §3.5 "Lifecycle": "application-created threads
// ... are then pooled for reuse until VM shutdown").
type Runtime struct {
	Locks   *Locks
	Freezer *Freezer
	Heap    *heap.Heap

	mu      sync.Mutex
	nextID  int
	threads map[int]*Thread
	pool    []*Thread

	// collectYoung collapses concurrent "nursery full" triggers from
	// multiple threads into a single young collection: every caller
	// that arrives while one is already running waits for it and shares
	// its result instead of freezing the world twice in a row.
	collectYoung singleflight.Group
}

// NewRuntime constructs a Runtime backed by h. The main thread is
// created and registered immediately (spec §3.5 "the main thread is
// created at VM start").
func NewRuntime(h *heap.Heap, nurseryBytes int) (*Runtime, *Thread) {
	locks := NewLocks()
	r := &Runtime{
		Locks:   locks,
		Freezer: NewFreezer(locks),
		Heap:    h,
		threads: make(map[int]*Thread),
	}
	main := r.newThreadLocked(nurseryBytes)
	return r, main
}

func (r *Runtime) newThreadLocked(nurseryBytes int) *Thread {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t *Thread
	if n := len(r.pool); n > 0 {
		t = r.pool[n-1]
		r.pool = r.pool[:n-1]
		t.ReturnValue, t.Exception = nil, nil
		t.AloreStack, t.TempStack, t.UntracedRoots = nil, nil, nil
	} else {
		t = NewThread(r.nextID, nurseryBytes)
		r.nextID++
	}
	r.threads[t.ID] = t
	r.Freezer.RegisterThread()
	return t
}

// Spawn creates (or reuses from the pool) a new Thread and calls run
// with it on its own goroutine. This package builds no frame for the
// thread: any frame construction happens inside run. join blocks
// until run returns.
func (r *Runtime) Spawn(nurseryBytes int, run func(t *Thread)) (t *Thread, join func()) {
	t = r.newThreadLocked(nurseryBytes)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer r.retire(t)
		run(t)
	}()
	return t, func() {
		r.Freezer.EnterBlocking()
		<-done
		r.Freezer.ExitBlocking()
	}
}

func (r *Runtime) retire(t *Thread) {
	r.mu.Lock()
	delete(r.threads, t.ID)
	r.pool = append(r.pool, t)
	r.mu.Unlock()
	r.Freezer.UnregisterThread()
}

// LiveMutators returns every currently registered thread's Mutator, for
// the collector to use as its root-set input.
func (r *Runtime) LiveMutators() []*heap.Mutator {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*heap.Mutator, 0, len(r.threads))
	for _, t := range r.threads {
		out = append(out, t.Mutator)
	}
	return out
}

// CollectYoung freezes every mutator, runs a young collection, then
// wakes them (spec §4.2 step 1, §5 "Freeze protocol"). Concurrent
// callers (several threads hitting a full nursery at once) share one
// physical collection via singleflight rather than each freezing the
// world in turn.
func (r *Runtime) CollectYoung() error {
	_, err, _ := r.collectYoung.Do("young", func() (interface{}, error) {
		r.Freezer.RequestFreeze()
		defer r.Freezer.ReleaseFreeze()
		return nil, r.Heap.CollectYoung(r.LiveMutators())
	})
	return err
}

// CollectOld is CollectYoung's full mark-sweep counterpart.
func (r *Runtime) CollectOld() error {
	r.Freezer.RequestFreeze()
	defer r.Freezer.ReleaseFreeze()
	return r.Heap.CollectOld(r.LiveMutators())
}

// Mutex is the user-visible Alore Mutex primitive (end-to-end
// scenario 6: two threads incrementing a shared counter 10,000 times
// each yield 20,000). Lock/Unlock bracket themselves with
// allow/end-blocking so a contended lock doesn't block the freeze
// protocol (spec §5 "Suspension points").
type Mutex struct {
	freezer *Freezer
	mu      sync.Mutex
}

// NewMutex constructs a user-level Mutex tied to the runtime's freeze
// protocol.
func (r *Runtime) NewMutex() *Mutex { return &Mutex{freezer: r.Freezer} }

func (m *Mutex) Lock() {
	m.freezer.EnterBlocking()
	m.mu.Lock()
	m.freezer.ExitBlocking()
}

func (m *Mutex) Unlock() { m.mu.Unlock() }

// Condition is the user-visible Alore Condition primitive, layered on
// a Mutex the same way sync.Cond layers on a Locker.
type Condition struct {
	freezer *Freezer
	cond    *sync.Cond
}

// NewCondition constructs a Condition guarded by m.
func (r *Runtime) NewCondition(m *Mutex) *Condition {
	return &Condition{freezer: r.Freezer, cond: sync.NewCond(&m.mu)}
}

func (c *Condition) Wait() {
	c.freezer.EnterBlocking()
	c.cond.Wait()
	c.freezer.ExitBlocking()
}

func (c *Condition) Signal()    { c.cond.Signal() }
func (c *Condition) Broadcast() { c.cond.Broadcast() }
