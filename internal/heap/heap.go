package heap

import (
	"sync"

	"go4.org/syncutil"
	"golang.org/x/sync/errgroup"

	"alore.dev/runtime/internal/rterror"
	"alore.dev/runtime/internal/value"
)

// FinalizerHook is called once per unreachable instance whose type
// has has-finalizer set, after it has been resurrected into the old
// generation (spec §4.2 "Finalization"). It is supplied by the
// interpreter, which knows how to invoke a Function by global index.
type FinalizerHook func(v value.Value)

// Heap owns the old generation, the identity→block index, and the
// finalizer queue, and drives young/old collections (spec §3.2, §4.2).
// Its mutex is the "heap" lock named in spec §5's lock table.
type Heap struct {
	mu         sync.Mutex
	old        *OldGen
	byIdentity map[uintptr]*Block

	finalizerHook FinalizerHook
	toFinalize    []value.Value

	disallowDepth int // "Allow/disallow old-gen GC" critical-region counter
}

// New creates an empty Heap.
func New(finalizerHook FinalizerHook) *Heap {
	return &Heap{
		old:           NewOldGen(),
		byIdentity:    make(map[uintptr]*Block),
		finalizerHook: finalizerHook,
	}
}

// Alloc performs an allocation request on behalf of mutator m: the
// nursery fast path, or a direct old-gen allocation for unmovable
// requests (spec §4.2 "Nursery"). When the nursery is full, Alloc also
// allocates the block in old-gen; it does not run a young collection.
func (h *Heap) Alloc(m *Mutator, kind BlockKind, v value.Value, size int, unmovable bool) *Block {
	var b *Block
	if unmovable {
		h.mu.Lock()
		b = h.old.AllocUnmovable(kind, v, size)
		h.mu.Unlock()
	} else if got, ok := m.Nursery.TryAlloc(kind, v, size); ok {
		b = got
	} else {
		// Slow path: the nursery is full, so the block is allocated
		// as unmovable in old-gen rather than failing the request.
		h.mu.Lock()
		b = h.old.AllocUnmovable(kind, v, size)
		h.mu.Unlock()
	}
	if id, ok := value.Identity(v); ok {
		h.mu.Lock()
		h.byIdentity[id] = b
		h.mu.Unlock()
	}
	return b
}

// DisallowGC and AllowGC bracket a critical region holding raw
// pointers into the heap (spec §4.2 "Allow/disallow old-gen GC").
// Nothing is queued or deferred: CollectOld/CollectYoung called while
// any region is open return ErrGCDisallowed, since this package has no
// background scheduler to defer to.
func (h *Heap) DisallowGC() {
	h.mu.Lock()
	h.disallowDepth++
	h.mu.Unlock()
}

func (h *Heap) AllowGC() {
	h.mu.Lock()
	if h.disallowDepth > 0 {
		h.disallowDepth--
	}
	h.mu.Unlock()
}

var ErrGCDisallowed = rterror.New(rterror.MemoryError, "garbage collection requested inside a disallow-GC region")

func (h *Heap) gcAllowed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disallowDepth == 0
}

// CollectYoung performs a generational copying collection across the
// given mutators (spec §4.2 "Young collection"). The caller
// (internal/concurrent) is responsible for having frozen every other
// mutator first (spec §5).
func (h *Heap) CollectYoung(mutators []*Mutator) error {
	if !h.gcAllowed() {
		return ErrGCDisallowed
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	promoted := make(map[uintptr]*Block)
	var queue []value.Value

	enqueue := func(v value.Value) {
		if v == nil {
			return
		}
		id, ok := value.Identity(v)
		if !ok {
			// Not independently tracked (e.g. a Pair/Range/BoundMethod
			// value), but may still hold young references transitively.
			queue = append(queue, v)
			return
		}
		if _, done := promoted[id]; done {
			return
		}
		b, tracked := h.byIdentity[id]
		if !tracked || b.Gen != Young {
			return
		}
		newBlock := h.old.Promote(b)
		b.forwarded, b.forward = true, newBlock
		h.byIdentity[id] = newBlock
		promoted[id] = newBlock
		queue = append(queue, v)
	}

	// Root set: each mutator's stack/temp-stack/exception/retained-young,
	// plus whatever its remembered set keeps reachable (spec §4.2 step 2).
	// Every other mutator is parked at a safepoint by now (spec §5), so
	// gathering each one's roots is embarrassingly parallel; only the
	// enqueue into the shared promoted/queue state below stays on this
	// goroutine, mirroring gc.Collector.markItem's enumerate-concurrently,
	// mark-sequentially split.
	perMutator := make([][]value.Value, len(mutators))
	var fan syncutil.Group
	for i, m := range mutators {
		i, m := i, m
		fan.Go(func() error {
			roots := m.rootValues()
			for _, oldBlock := range m.Remembered {
				if oldBlock.Value != nil {
					roots = append(roots, value.Children(oldBlock.Value)...)
				}
			}
			perMutator[i] = roots
			return nil
		})
	}
	_ = fan.Err() // root gathering never fails; Err just joins the group

	for _, roots := range perMutator {
		for _, v := range roots {
			enqueue(v)
		}
	}

	// Scan the frontier of newly copied objects (spec §4.2 step 4).
	for i := 0; i < len(queue); i++ {
		for _, child := range value.Children(queue[i]) {
			enqueue(child)
		}
	}

	// Anything left in a nursery that wasn't reached is garbage,
	// unless its type demands finalization (spec §4.2 step 6).
	for _, m := range mutators {
		for _, b := range m.Nursery.Live() {
			if b.forwarded {
				continue
			}
			if b.Finalizer {
				newBlock := h.old.Promote(b)
				h.toFinalize = append(h.toFinalize, b.Value)
				if id, ok := value.Identity(b.Value); ok {
					h.byIdentity[id] = newBlock
				}
			} else if id, ok := value.Identity(b.Value); ok {
				delete(h.byIdentity, id)
			}
		}
		m.Nursery.Reset()
		m.Remembered = m.Remembered[:0]
		m.RetainedYoung = m.RetainedYoung[:0]
	}

	h.runFinalizers()
	return nil
}

// runFinalizers invokes the finalizer hook for every instance queued
// during the most recent collection (spec §4.2 "Finalization"); each
// instance is finalized at most once (spec §8).
func (h *Heap) runFinalizers() {
	pending := h.toFinalize
	h.toFinalize = nil
	for _, v := range pending {
		if h.finalizerHook != nil {
			h.finalizerHook(v)
		}
	}
}

// CollectOld performs a full mark-sweep collection (spec §4.2 "Old
// collection"): marks from the same root set plus all surviving young
// objects, then sweeps, rebuilding the segregated free lists.
func (h *Heap) CollectOld(mutators []*Mutator) error {
	if !h.gcAllowed() {
		return ErrGCDisallowed
	}
	if err := h.CollectYoung(mutators); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	marked := make(map[uintptr]bool)
	var mark func(v value.Value)
	mark = func(v value.Value) {
		if v == nil {
			return
		}
		id, ok := value.Identity(v)
		if ok {
			if marked[id] {
				return
			}
			marked[id] = true
		}
		for _, child := range value.Children(v) {
			mark(child)
		}
	}
	// Root enumeration is the expensive, parallelizable half of marking
	// (spec §4.2 "Old collection" step 1); the recursive mark walk
	// itself touches the shared `marked` set and stays sequential.
	perMutatorRoots := make([][]value.Value, len(mutators))
	var eg errgroup.Group
	for i, m := range mutators {
		i, m := i, m
		eg.Go(func() error {
			perMutatorRoots[i] = m.rootValues()
			return nil
		})
	}
	_ = eg.Wait() // root enumeration never fails

	for _, roots := range perMutatorRoots {
		for _, v := range roots {
			mark(v)
		}
	}

	var survivors []*Block
	for _, b := range h.old.live {
		if id, ok := value.Identity(b.Value); ok && marked[id] {
			b.Marked = true
			survivors = append(survivors, b)
			continue
		}
		if b.Finalizer {
			// Finalizable instances always survive one more cycle so
			// the finalizer can run (spec §4.2 "Finalization").
			survivors = append(survivors, b)
			continue
		}
		if id, ok := value.Identity(b.Value); ok {
			delete(h.byIdentity, id)
		}
		h.old.free(b)
	}
	for _, b := range survivors {
		b.Marked = false
	}
	h.old.live = survivors
	return nil
}

// LiveOldBlocks reports the number of currently live old-generation
// blocks, used by tests and heap statistics.
func (h *Heap) LiveOldBlocks() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.old.live)
}
