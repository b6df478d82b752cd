package heap

import "alore.dev/runtime/internal/value"

// WriteBarrier implements the contract of spec §4.2: "every store
// into a potentially-old-gen pointer slot ... must either (a) funnel
// through the barrier routine that enqueues the source slot and
// target value, or (b) target an object known to be in the young
// generation." Callers (container Set/Map mutation, instance member
// setters, CREATE_EXPOSED cell writes, globals marked constant) call
// this after performing the raw Go-level write whenever holder might
// already be old.
func (h *Heap) WriteBarrier(m *Mutator, holder, newValue value.Value) {
	holderBlock := h.blockOf(holder)
	if holderBlock == nil || holderBlock.Gen != Old {
		return // fast path (b): holder is young or untracked, no barrier needed
	}
	newBlock := h.blockOf(newValue)
	if newBlock == nil || newBlock.Gen != Young {
		return // newValue isn't a young heap reference
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	m.Remembered = appendUnique(m.Remembered, holderBlock)
	m.RetainedYoung = append(m.RetainedYoung, newValue)
}

func appendUnique(list []*Block, b *Block) []*Block {
	for _, existing := range list {
		if existing == b {
			return list
		}
	}
	return append(list, b)
}

// blockOf resolves a Value to its tracked Block, if any.
func (h *Heap) blockOf(v value.Value) *Block {
	id, ok := value.Identity(v)
	if !ok {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.byIdentity[id]
}
