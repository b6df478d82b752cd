package rt

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"
)

// TraceInterval bounds safepoint-trace output to one line per window,
// so a tight backward-branch loop executing thousands of safepoint
// checks a second doesn't flood stderr under -T.
const TraceInterval = 100 * time.Millisecond

// SafepointTracer implements the -T debug option (spec §6): a
// best-effort, rate-limited log of safepoint checks. A disabled
// tracer (the common case) costs callers nothing beyond a nil check.
type SafepointTracer struct {
	w   io.Writer
	lim *rate.Limiter
}

// NewSafepointTracer returns a tracer writing to w when enabled, or a
// no-op stub otherwise, so call sites never need to branch on
// DebugBuild/enabled themselves.
func NewSafepointTracer(w io.Writer, enabled bool) *SafepointTracer {
	if !enabled {
		return &SafepointTracer{}
	}
	return &SafepointTracer{w: w, lim: rate.NewLimiter(rate.Every(TraceInterval), 1)}
}

// Trace logs one safepoint-check event for threadID at pc, subject to
// the rate limit. A nil *SafepointTracer is valid and traces nothing.
func (t *SafepointTracer) Trace(threadID, pc int) {
	if t == nil || t.w == nil || !t.lim.Allow() {
		return
	}
	fmt.Fprintf(t.w, "safepoint: thread=%d pc=%d\n", threadID, pc)
}
