package concurrent

import (
	"sync"

	"alore.dev/runtime/internal/heap"
	"alore.dev/runtime/internal/value"
)

// ExceptionContext is one entry of a thread's exception-context stack:
// a jump target for the direct-exception fast-exit path (spec §3.5,
// §4.4). Rather than a literal setjmp/longjmp buffer, the interpreter
// returns raised errors up the Go call stack and finds handlers in
// Code.Exceptions; FrameDepth is the recorded try-context frame depth
// (the interpreter's OpTry records 0).
type ExceptionContext struct {
	FrameDepth int
}

// Thread owns everything spec §3.5 lists: nursery (via its embedded
// heap.Mutator), stack region, temp stack, exception-context stack,
// currently raised exception, regex cache, and untraced-root list.
// Its OS mutex+condition are ordinary sync primitives rather than an
// unmovable heap block, since Go already guarantees they never move.
type Thread struct {
	ID int

	*heap.Mutator

	// AloreStack holds the thread's frame-relative locals/temporaries
	// (spec §3.4 "Frame"); the interpreter pushes/pops frames here.
	AloreStack []value.Value
	// TempStack holds root-visible scratch values the interpreter
	// stashes across calls that might trigger a collection.
	TempStack []value.Value

	excContexts []ExceptionContext

	RegexCache *RegexCache

	// UntracedRoots lists values the thread has registered as roots
	// outside the normal stack (spec §3.5).
	UntracedRoots []value.Value

	// ReturnValue/Exception are set when the thread's top-level
	// function completes (spec §3.5 "Lifecycle").
	ReturnValue value.Value
	Exception   error

	// CallDepth counts this thread's currently nested calls made through
	// the interpreter's global-function path (bytecode and native
	// globals alike; a native *value.Function called directly is not
	// counted), checked against the interpreter's MaxCallDepth to detect
	// stack overflow (spec §4.4 "Stack overflow").
	CallDepth int

	mu   sync.Mutex
	cond *sync.Cond
}

// NewThread creates a Thread with a fresh nursery and regex cache. id
// is the thread's registry identifier.
func NewThread(id int, nurseryBytes int) *Thread {
	t := &Thread{
		ID:         id,
		Mutator:    heap.NewMutator(id, nurseryBytes),
		RegexCache: NewRegexCache(0),
	}
	t.cond = sync.NewCond(&t.mu)
	t.Mutator.Roots = t.roots
	return t
}

func (t *Thread) roots() []value.Value {
	var roots []value.Value
	roots = append(roots, t.AloreStack...)
	roots = append(roots, t.TempStack...)
	roots = append(roots, t.UntracedRoots...)
	return roots
}

// PushExceptionContext and PopExceptionContext maintain the
// try-context stack used by RAISE_L / direct exceptions (spec §4.4).
func (t *Thread) PushExceptionContext(frameDepth int) {
	t.excContexts = append(t.excContexts, ExceptionContext{FrameDepth: frameDepth})
}

func (t *Thread) PopExceptionContext() (ExceptionContext, bool) {
	if len(t.excContexts) == 0 {
		return ExceptionContext{}, false
	}
	last := t.excContexts[len(t.excContexts)-1]
	t.excContexts = t.excContexts[:len(t.excContexts)-1]
	return last, true
}

// NearestTryContext reports the innermost exception context without
// popping it, used by the direct-exception fast path to know how far
// to unwind before raising normally (spec §4.4).
func (t *Thread) NearestTryContext() (ExceptionContext, bool) {
	if len(t.excContexts) == 0 {
		return ExceptionContext{}, false
	}
	return t.excContexts[len(t.excContexts)-1], true
}
