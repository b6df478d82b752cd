// Package rt holds the domain-stack pieces spec.md's runtime core
// demands that don't belong to any single subsystem: OS stack-bound
// probing for stack-overflow detection (§4.4 "Stack overflow") and
// safepoint-trace throttling (§4.4 "Safepoint", the -T debug option).
package rt

import "golang.org/x/sys/unix"

// DefaultMaxCallDepth bounds nested interpreted calls on platforms
// where the OS stack rlimit can't be probed, or when the probe fails.
const DefaultMaxCallDepth = 4000

// bytesPerFrame approximates one interpreted Frame's contribution to
// the underlying OS thread stack. It converts a stack-size rlimit
// into a call-depth bound, the Go-idiomatic analog of comparing a new
// frame pointer against the lower stack bound at each call that
// spec.md's original C runtime performs directly (§4.4).
const bytesPerFrame = 2048

const minCallDepth = 64

// MaxCallDepth probes the current process's RLIMIT_STACK (on unix;
// elsewhere it falls back to DefaultMaxCallDepth) and derives the
// interpreter's maximum nested-call depth from it.
func MaxCallDepth() int {
	lim, err := stackRlimit()
	if err != nil || lim == 0 {
		return DefaultMaxCallDepth
	}
	depth := int(lim / bytesPerFrame)
	if depth < minCallDepth {
		depth = minCallDepth
	}
	return depth
}

func stackRlimit() (uint64, error) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_STACK, &rl); err != nil {
		return 0, err
	}
	return rl.Cur, nil
}
