package interp

import "alore.dev/runtime/internal/value"

// GlobalBucketSize is the fixed power-of-two size the global array
// grows by (spec §3.6 "The array grows in buckets of a fixed
// power-of-two size").
const GlobalBucketSize = 1024

// GrowGlobals extends Globals/Code by whole buckets until both hold
// at least n entries, returning the new length. New Globals entries
// are Nil, matching New's initial allocation; new Code entries are
// nil (no backing bytecode until DefineFunction/DefineNative runs).
func (ip *Interpreter) GrowGlobals(n int) int {
	for len(ip.Globals) < n {
		newLen := len(ip.Globals) + GlobalBucketSize

		newGlobals := make([]value.Value, newLen)
		copy(newGlobals, ip.Globals)
		for i := len(ip.Globals); i < newLen; i++ {
			newGlobals[i] = value.Nil
		}
		ip.Globals = newGlobals

		newCode := make([]*CodeObject, newLen)
		copy(newCode, ip.Code)
		ip.Code = newCode
	}
	return len(ip.Globals)
}
