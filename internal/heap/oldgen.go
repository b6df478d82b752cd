package heap

import "alore.dev/runtime/internal/value"

// largeObjectClass is the size class above which a block is tracked
// on the best-fit large-object list instead of a segregated class
// list (spec §4.2 "Old generation").
const largeObjectClass = 12 // 1<<12 * AllocUnit = 64 KiB

// OldGen is the old generation: segregated free lists keyed by
// rounded size class, plus a best-fit list for large objects (spec
// §4.2).
type OldGen struct {
	classes [largeObjectClass + 1][]*Block // free blocks per class
	large   []*Block                       // best-fit free list
	live    []*Block                       // every live (non-free) old block
}

// NewOldGen creates an empty old generation.
func NewOldGen() *OldGen { return &OldGen{} }

// Promote moves a block from the nursery into the old generation,
// first trying to reuse a free block of the right size class (spec
// §4.2 step 3 "forward young objects to old gen via the segregated
// free lists").
func (g *OldGen) Promote(b *Block) *Block {
	class := SizeClass(b.Size)
	if class > largeObjectClass {
		if reused := g.takeBestFit(b.Size); reused != nil {
			reused.Kind, reused.Gen, reused.Value = b.Kind, Old, b.Value
			reused.Free, reused.Marked, reused.Finalizer = false, false, b.Finalizer
			g.live = append(g.live, reused)
			return reused
		}
		b.Gen = Old
		g.live = append(g.live, b)
		return b
	}
	if free := g.classes[class]; len(free) > 0 {
		reused := free[len(free)-1]
		g.classes[class] = free[:len(free)-1]
		reused.Kind, reused.Value = b.Kind, b.Value
		reused.Free, reused.Marked, reused.Finalizer = false, false, b.Finalizer
		g.live = append(g.live, reused)
		return reused
	}
	b.Gen = Old
	g.live = append(g.live, b)
	return b
}

func (g *OldGen) takeBestFit(size int) *Block {
	bestIdx := -1
	for i, fb := range g.large {
		if fb.Size >= size && (bestIdx == -1 || fb.Size < g.large[bestIdx].Size) {
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return nil
	}
	b := g.large[bestIdx]
	g.large = append(g.large[:bestIdx], g.large[bestIdx+1:]...)
	return b
}

// AllocUnmovable allocates directly into the old generation, for
// nursery requests the caller has marked unmovable (spec §4.2
// "Nursery" slow path).
func (g *OldGen) AllocUnmovable(kind BlockKind, v value.Value, size int) *Block {
	b := NewBlock(kind, v, size)
	b.Gen = Old
	if class := SizeClass(b.Size); class <= largeObjectClass {
		if reused := g.takeClass(class); reused != nil {
			reused.Kind, reused.Value, reused.Free = kind, v, false
			g.live = append(g.live, reused)
			return reused
		}
	}
	g.live = append(g.live, b)
	return b
}

func (g *OldGen) takeClass(class int) *Block {
	free := g.classes[class]
	if len(free) == 0 {
		return nil
	}
	b := free[len(free)-1]
	g.classes[class] = free[:len(free)-1]
	return b
}

// free returns a block to the appropriate free list after a sweep
// determines it is unreachable.
func (g *OldGen) free(b *Block) {
	b.Free = true
	b.Value = nil
	class := SizeClass(b.Size)
	if class > largeObjectClass {
		g.large = append(g.large, b)
		return
	}
	g.classes[class] = append(g.classes[class], b)
}

// Live returns every currently-live (non-free) old-gen block.
func (g *OldGen) Live() []*Block { return g.live }
