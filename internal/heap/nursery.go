package heap

import "alore.dev/runtime/internal/value"

// NurseryBytes is the default per-thread nursery capacity. It can be
// overridden per mutator through NewMutator's nurseryBytes argument
// for tests that want to force frequent collections.
const NurseryBytes = 1 << 20

// Nursery is a thread-local bump-pointer allocation region (spec §4.2
// "Nursery"): "ptr += aligned_size" on the fast path, with a slow path
// on overflow that either triggers a young collection or, for
// unmovable requests, allocates directly in old-gen.
type Nursery struct {
	capacity int
	used     int
	live     []*Block
}

// NewNursery creates a nursery with the given byte capacity.
func NewNursery(capacity int) *Nursery {
	if capacity <= 0 {
		capacity = NurseryBytes
	}
	return &Nursery{capacity: capacity}
}

// TryAlloc attempts the bump-pointer fast path. It returns ok=false
// when the request would overflow the nursery, signaling the caller
// (Heap.Alloc) to run the slow path.
func (n *Nursery) TryAlloc(kind BlockKind, v value.Value, size int) (*Block, bool) {
	sz := roundUp(size)
	if n.used+sz > n.capacity {
		return nil, false
	}
	n.used += sz
	b := NewBlock(kind, v, size)
	n.live = append(n.live, b)
	return b, true
}

// Reset clears the nursery after a young collection has forwarded
// every live block out of it (spec §4.2 step 5 "reset nursery
// bumpers").
func (n *Nursery) Reset() {
	n.used = 0
	n.live = n.live[:0]
}

// Live returns the blocks currently allocated in the nursery (both
// reachable and garbage); the collector partitions them during a
// young collection.
func (n *Nursery) Live() []*Block { return n.live }

// Used reports current bump-pointer usage, for heap statistics and
// for tests asserting collection triggers at the expected fill level.
func (n *Nursery) Used() int { return n.used }

func (n *Nursery) Capacity() int { return n.capacity }
